package models

import (
	"errors"

	"github.com/chifamba/dzinza-sub003/permissions"
)

// TreePrivacy controls who can discover a tree outside the collaborator list.
type TreePrivacy string

const (
	TreePrivacyPrivate TreePrivacy = "private"
	TreePrivacyFamily  TreePrivacy = "family"
	TreePrivacyPublic  TreePrivacy = "public"
)

// ErrSelfCollaborator is returned when a user tries to add themselves as a
// collaborator on a tree they already act on.
var ErrSelfCollaborator = errors.New("cannot add yourself as a collaborator")

// TreeStatistics is a denormalized snapshot stored on the tree. It is
// recomputed on demand, never incrementally maintained. Recomputation only
// overwrites the fields it derives; manually maintained fields (for example
// TotalGenerations) are merged over, not replaced.
type TreeStatistics struct {
	TotalPersons          int  `json:"total_persons"`
	TotalRelationships    int  `json:"total_relationships"`
	PhotoCompleteness     int  `json:"photo_completeness"`      // percent, rounded to nearest integer
	BirthDateCompleteness int  `json:"birth_date_completeness"` // percent, rounded to nearest integer
	CompletenessScore     int  `json:"completeness_score"`
	TotalGenerations      int  `json:"total_generations"`
	OldestBirthYear       *int `json:"oldest_birth_year,omitempty"`
	NewestBirthYear       *int `json:"newest_birth_year,omitempty"`
}

// FamilyTree is the aggregate root gating access to the people and
// relationships it contains. It corresponds to the 'family_trees' table.
// Invariant: exactly one owner, who never appears in Collaborators.
type FamilyTree struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint        `gorm:"not null;index" json:"owner_id"`
	Name        string      `gorm:"not null" json:"name"`
	Description *string     `gorm:"" json:"description,omitempty"`
	Privacy     TreePrivacy `gorm:"not null;default:private" json:"privacy"`

	Collaborators []Collaborator `gorm:"foreignKey:FamilyTreeID;constraint:OnDelete:CASCADE" json:"collaborators,omitempty"`
	Statistics    TreeStatistics `gorm:"serializer:json" json:"statistics"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (FamilyTree) TableName() string {
	return "family_trees"
}

// IsOwner reports whether the user owns this tree.
func (t *FamilyTree) IsOwner(userID uint) bool {
	return t.OwnerID == userID
}

// collaborator returns the accepted collaborator entry for userID, or nil.
// Pending invitations (AcceptedAt unset) grant nothing.
// Assumes Collaborators is preloaded.
func (t *FamilyTree) collaborator(userID uint) *Collaborator {
	for i := range t.Collaborators {
		c := &t.Collaborators[i]
		if c.UserID == userID && c.IsAccepted() {
			return c
		}
	}
	return nil
}

// CanUserView reports whether the user may read the tree: the owner, or any
// accepted collaborator regardless of role.
func (t *FamilyTree) CanUserView(userID uint) bool {
	if t.IsOwner(userID) {
		return true
	}
	return t.collaborator(userID) != nil
}

// CanUserEdit reports whether the user may modify tree contents, including
// triggering a GEDCOM import.
func (t *FamilyTree) CanUserEdit(userID uint) bool {
	if t.IsOwner(userID) {
		return true
	}
	c := t.collaborator(userID)
	return c != nil && permissions.RoleAllows(string(c.Role), permissions.TreeEdit)
}

// CanUserManage reports whether the user may manage collaborators.
func (t *FamilyTree) CanUserManage(userID uint) bool {
	if t.IsOwner(userID) {
		return true
	}
	c := t.collaborator(userID)
	return c != nil && permissions.RoleAllows(string(c.Role), permissions.TreeManage)
}

// CanUserDelete reports whether the user may delete the tree. Deletion is
// owner-only regardless of admin collaborators.
func (t *FamilyTree) CanUserDelete(userID uint) bool {
	return t.IsOwner(userID)
}

// AddCollaborator upserts a collaborator entry in memory and returns it.
// Self-adds are rejected. The entry starts pending (AcceptedAt unset);
// acceptance is a separate flow. Re-adding an existing collaborator updates
// the role in place instead of creating a duplicate.
func (t *FamilyTree) AddCollaborator(actorID, targetUserID uint, role CollaboratorRole) (*Collaborator, error) {
	if targetUserID == actorID {
		return nil, ErrSelfCollaborator
	}
	if role == "" {
		role = CollaboratorRoleViewer
	}
	for i := range t.Collaborators {
		if t.Collaborators[i].UserID == targetUserID {
			t.Collaborators[i].Role = role
			return &t.Collaborators[i], nil
		}
	}
	t.Collaborators = append(t.Collaborators, Collaborator{
		FamilyTreeID: t.ID,
		UserID:       targetUserID,
		Role:         role,
	})
	return &t.Collaborators[len(t.Collaborators)-1], nil
}
