package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chifamba/dzinza-sub003/models"
)

func TestComputeStatistics(t *testing.T) {
	persons := newFakePersonRepo()
	rels := newFakeRelationshipRepo()
	for i := 0; i < 3; i++ {
		require.NoError(t, persons.Create(&models.Person{FamilyTreeID: 1, FirstName: "P"}))
	}
	require.NoError(t, rels.Create(&models.Relationship{FamilyTreeID: 1, Person1ID: 1, Person2ID: 2, Type: models.RelationshipTypeSpouse}))

	oldest, newest := 1888, 1975
	stats := &fakeStatsSource{photoCount: 1, birthDateCount: 2, oldest: &oldest, newest: &newest}
	tree := &models.FamilyTree{ID: 1, OwnerID: 10, Statistics: models.TreeStatistics{TotalGenerations: 4}}
	treeRepo := newFakeTreeRepo(tree)
	svc := NewFamilyTreeService(treeRepo, persons, rels, stats)

	got, err := svc.ComputeStatistics(1)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalPersons)
	assert.Equal(t, 1, got.TotalRelationships)
	assert.Equal(t, 33, got.PhotoCompleteness) // 1/3 rounded
	assert.Equal(t, 67, got.BirthDateCompleteness)
	assert.Equal(t, 50, got.CompletenessScore)
	require.NotNil(t, got.OldestBirthYear)
	assert.Equal(t, 1888, *got.OldestBirthYear)
	require.NotNil(t, got.NewestBirthYear)
	assert.Equal(t, 1975, *got.NewestBirthYear)

	// fields the recomputation does not derive are merged over, not reset
	assert.Equal(t, 4, got.TotalGenerations)

	saved, ok := treeRepo.savedStats[1]
	require.True(t, ok, "recomputed statistics must be persisted")
	assert.Equal(t, *got, saved)
}

func TestComputeStatisticsEmptyTree(t *testing.T) {
	treeRepo := newFakeTreeRepo(&models.FamilyTree{ID: 1, OwnerID: 10})
	svc := NewFamilyTreeService(treeRepo, newFakePersonRepo(), newFakeRelationshipRepo(), &fakeStatsSource{})

	got, err := svc.ComputeStatistics(1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalPersons)
	assert.Equal(t, 0, got.PhotoCompleteness, "completeness is 0 for an empty tree, not a division error")
	assert.Equal(t, 0, got.CompletenessScore)
	assert.Nil(t, got.OldestBirthYear)
	assert.Nil(t, got.NewestBirthYear)
}

func TestAddCollaboratorRequiresManage(t *testing.T) {
	ts := int64(1700000000)
	tree := &models.FamilyTree{
		ID:      1,
		OwnerID: 10,
		Collaborators: []models.Collaborator{
			{FamilyTreeID: 1, UserID: 30, Role: models.CollaboratorRoleEditor, AcceptedAt: &ts},
		},
	}
	treeRepo := newFakeTreeRepo(tree)
	svc := NewFamilyTreeService(treeRepo, newFakePersonRepo(), newFakeRelationshipRepo(), &fakeStatsSource{})

	// editors cannot manage collaborators
	_, err := svc.AddCollaborator(1, 30, 40, models.CollaboratorRoleViewer)
	assert.ErrorIs(t, err, ErrTreeForbidden)
	assert.Empty(t, treeRepo.upserted)

	// the owner can
	collab, err := svc.AddCollaborator(1, 10, 40, models.CollaboratorRoleEditor)
	require.NoError(t, err)
	assert.Equal(t, uint(40), collab.UserID)
	assert.Equal(t, models.CollaboratorRoleEditor, collab.Role)
	require.Len(t, treeRepo.upserted, 1)
}

func TestAddCollaboratorSelf(t *testing.T) {
	treeRepo := newFakeTreeRepo(&models.FamilyTree{ID: 1, OwnerID: 10})
	svc := NewFamilyTreeService(treeRepo, newFakePersonRepo(), newFakeRelationshipRepo(), &fakeStatsSource{})

	_, err := svc.AddCollaborator(1, 10, 10, models.CollaboratorRoleAdmin)
	assert.ErrorIs(t, err, models.ErrSelfCollaborator)
}

func TestRemoveCollaborator(t *testing.T) {
	treeRepo := newFakeTreeRepo(&models.FamilyTree{ID: 1, OwnerID: 10})
	svc := NewFamilyTreeService(treeRepo, newFakePersonRepo(), newFakeRelationshipRepo(), &fakeStatsSource{})

	require.NoError(t, svc.RemoveCollaborator(1, 10, 20))
	require.Len(t, treeRepo.removed, 1)
	assert.Equal(t, [2]uint{1, 20}, treeRepo.removed[0])
}

func TestDeleteTreeOwnerOnly(t *testing.T) {
	ts := int64(1700000000)
	tree := &models.FamilyTree{
		ID:      1,
		OwnerID: 10,
		Collaborators: []models.Collaborator{
			{FamilyTreeID: 1, UserID: 40, Role: models.CollaboratorRoleAdmin, AcceptedAt: &ts},
		},
	}
	treeRepo := newFakeTreeRepo(tree)
	svc := NewFamilyTreeService(treeRepo, newFakePersonRepo(), newFakeRelationshipRepo(), &fakeStatsSource{})

	err := svc.DeleteTree(1, 40)
	assert.ErrorIs(t, err, ErrTreeForbidden, "even admin collaborators cannot delete")
	assert.Empty(t, treeRepo.deleted)

	require.NoError(t, svc.DeleteTree(1, 10))
	assert.Equal(t, []uint{1}, treeRepo.deleted)
}
