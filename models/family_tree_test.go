package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptedAt() *int64 {
	ts := int64(1700000000)
	return &ts
}

func treeWithCollaborators() *FamilyTree {
	return &FamilyTree{
		ID:      1,
		OwnerID: 10,
		Collaborators: []Collaborator{
			{FamilyTreeID: 1, UserID: 20, Role: CollaboratorRoleViewer, AcceptedAt: acceptedAt()},
			{FamilyTreeID: 1, UserID: 30, Role: CollaboratorRoleEditor, AcceptedAt: acceptedAt()},
			{FamilyTreeID: 1, UserID: 40, Role: CollaboratorRoleAdmin, AcceptedAt: acceptedAt()},
			{FamilyTreeID: 1, UserID: 50, Role: CollaboratorRoleEditor}, // pending
		},
	}
}

func TestTreeAccessPredicates(t *testing.T) {
	tree := treeWithCollaborators()

	// owner can do everything
	assert.True(t, tree.CanUserView(10))
	assert.True(t, tree.CanUserEdit(10))
	assert.True(t, tree.CanUserManage(10))
	assert.True(t, tree.CanUserDelete(10))

	// viewer reads only
	assert.True(t, tree.CanUserView(20))
	assert.False(t, tree.CanUserEdit(20))
	assert.False(t, tree.CanUserManage(20))

	// editor modifies but doesn't manage
	assert.True(t, tree.CanUserEdit(30))
	assert.False(t, tree.CanUserManage(30))

	// admin manages but can't delete
	assert.True(t, tree.CanUserManage(40))
	assert.False(t, tree.CanUserDelete(40))

	// pending invitation grants nothing
	assert.False(t, tree.CanUserView(50))
	assert.False(t, tree.CanUserEdit(50))

	// stranger gets nothing
	assert.False(t, tree.CanUserView(99))
}

func TestAddCollaboratorRejectsSelf(t *testing.T) {
	tree := treeWithCollaborators()
	_, err := tree.AddCollaborator(40, 40, CollaboratorRoleEditor)
	assert.ErrorIs(t, err, ErrSelfCollaborator)
}

func TestAddCollaboratorDefaultsToViewer(t *testing.T) {
	tree := treeWithCollaborators()
	collab, err := tree.AddCollaborator(10, 60, "")
	require.NoError(t, err)
	assert.Equal(t, CollaboratorRoleViewer, collab.Role)
	assert.Nil(t, collab.AcceptedAt)
}

func TestAddCollaboratorUpdatesExistingRole(t *testing.T) {
	tree := treeWithCollaborators()
	before := len(tree.Collaborators)

	collab, err := tree.AddCollaborator(10, 20, CollaboratorRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, CollaboratorRoleAdmin, collab.Role)
	assert.Len(t, tree.Collaborators, before, "re-adding must not create a duplicate entry")
	assert.True(t, tree.CanUserManage(20))
}
