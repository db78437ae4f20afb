package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/chifamba/dzinza-sub003/models"
	"gorm.io/gorm"
)

// FamilyTreeRepository handles database operations for FamilyTree aggregates
// and their collaborator entries
type FamilyTreeRepository struct {
	DB *gorm.DB
}

// NewFamilyTreeRepository creates a new instance of FamilyTreeRepository
func NewFamilyTreeRepository(db *gorm.DB) *FamilyTreeRepository {
	return &FamilyTreeRepository{DB: db}
}

// Create creates a new family tree record in the database
func (r *FamilyTreeRepository) Create(tree *models.FamilyTree) error {
	now := time.Now().Unix()
	if tree.CreatedAt == 0 {
		tree.CreatedAt = now
	}
	if tree.UpdatedAt == 0 {
		tree.UpdatedAt = now
	}
	if tree.Privacy == "" {
		tree.Privacy = models.TreePrivacyPrivate
	}

	err := r.DB.Create(tree).Error
	if err != nil {
		return fmt.Errorf("failed to create family tree %s: %w", tree.Name, err)
	}
	return nil
}

// GetByID retrieves a tree by its ID, preloading Collaborators so the access
// predicates can run
func (r *FamilyTreeRepository) GetByID(id uint) (*models.FamilyTree, error) {
	var tree models.FamilyTree
	err := r.DB.Preload("Collaborators").First(&tree, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get family tree by ID %d: %w", id, err)
	}
	return &tree, nil
}

// ListByUser retrieves trees the user owns or collaborates on (accepted only)
func (r *FamilyTreeRepository) ListByUser(userID uint) ([]models.FamilyTree, error) {
	var trees []models.FamilyTree
	err := r.DB.Preload("Collaborators").
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.DB.Model(&models.Collaborator{}).
			Select("family_tree_id").
			Where("user_id = ? AND accepted_at IS NOT NULL", userID)).
		Order("name ASC").
		Find(&trees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list family trees for user %d: %w", userID, err)
	}
	return trees, nil
}

// Update updates tree settings (name, description, privacy)
func (r *FamilyTreeRepository) Update(tree *models.FamilyTree) error {
	tree.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.FamilyTree{ID: tree.ID}).
		Select("Name", "Description", "Privacy", "UpdatedAt").
		Updates(tree)
	if result.Error != nil {
		return fmt.Errorf("failed to update family tree ID %d: %w", tree.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatistics stores a freshly computed statistics snapshot
func (r *FamilyTreeRepository) UpdateStatistics(treeID uint, stats models.TreeStatistics) error {
	result := r.DB.Model(&models.FamilyTree{ID: treeID}).Updates(map[string]interface{}{
		"statistics": stats,
		"updated_at": time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update statistics for tree ID %d: %w", treeID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a tree and cascades to its people, relationships and
// collaborators. Caller is responsible for the owner-only check.
func (r *FamilyTreeRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("family_tree_id = ?", id).Delete(&models.Relationship{}).Error; err != nil {
			return fmt.Errorf("failed to delete relationships of tree %d: %w", id, err)
		}
		if err := tx.Where("family_tree_id = ?", id).Delete(&models.Person{}).Error; err != nil {
			return fmt.Errorf("failed to delete people of tree %d: %w", id, err)
		}
		if err := tx.Where("family_tree_id = ?", id).Delete(&models.Collaborator{}).Error; err != nil {
			return fmt.Errorf("failed to delete collaborators of tree %d: %w", id, err)
		}
		result := tx.Delete(&models.FamilyTree{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete family tree ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertCollaborator creates the collaborator entry or, when the (tree, user)
// pair already exists, updates the role in place. AcceptedAt is never touched
// here; acceptance is a separate flow.
func (r *FamilyTreeRepository) UpsertCollaborator(collab *models.Collaborator) error {
	var existing models.Collaborator
	err := r.DB.Where("family_tree_id = ? AND user_id = ?", collab.FamilyTreeID, collab.UserID).
		First(&existing).Error
	if err == nil {
		existing.Role = collab.Role
		existing.UpdatedAt = time.Now().Unix()
		if err := r.DB.Model(&existing).Select("Role", "UpdatedAt").Updates(&existing).Error; err != nil {
			return fmt.Errorf("failed to update collaborator %d on tree %d: %w", collab.UserID, collab.FamilyTreeID, err)
		}
		*collab = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up collaborator %d on tree %d: %w", collab.UserID, collab.FamilyTreeID, err)
	}

	now := time.Now().Unix()
	collab.CreatedAt = now
	collab.UpdatedAt = now
	if err := r.DB.Create(collab).Error; err != nil {
		return fmt.Errorf("failed to add collaborator %d to tree %d: %w", collab.UserID, collab.FamilyTreeID, err)
	}
	return nil
}

// RemoveCollaborator deletes the collaborator entry for the given user
func (r *FamilyTreeRepository) RemoveCollaborator(treeID, userID uint) error {
	result := r.DB.Where("family_tree_id = ? AND user_id = ?", treeID, userID).
		Delete(&models.Collaborator{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove collaborator %d from tree %d: %w", userID, treeID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
