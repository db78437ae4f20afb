package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollaboratorRole is the per-tree role granted to a non-owner actor.
type CollaboratorRole string

const (
	CollaboratorRoleViewer CollaboratorRole = "viewer"
	CollaboratorRoleEditor CollaboratorRole = "editor"
	CollaboratorRoleAdmin  CollaboratorRole = "admin"
)

// Collaborator links a user to a family tree with a role. An entry with
// AcceptedAt unset is a pending invitation and grants no access yet.
// It corresponds to the 'collaborators' table.
type Collaborator struct {
	ID           uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	FamilyTreeID uint             `gorm:"not null;index:idx_tree_user,unique" json:"family_tree_id"`
	UserID       uint             `gorm:"not null;index:idx_tree_user,unique" json:"user_id"`
	Role         CollaboratorRole `gorm:"not null;default:viewer" json:"role"`

	// InviteToken is handed to the invited user; redeeming it sets AcceptedAt.
	InviteToken string `gorm:"not null" json:"-"`
	AcceptedAt  *int64 `gorm:"" json:"accepted_at,omitempty"` // Unix timestamp

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Collaborator) TableName() string {
	return "collaborators"
}

// BeforeCreate generates the invitation token if one wasn't provided.
func (c *Collaborator) BeforeCreate(tx *gorm.DB) (err error) {
	if c.InviteToken == "" {
		c.InviteToken = uuid.New().String()
	}
	return
}

// IsAccepted reports whether the invitation has been accepted.
func (c *Collaborator) IsAccepted() bool {
	return c.AcceptedAt != nil
}
