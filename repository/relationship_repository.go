package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/chifamba/dzinza-sub003/models"
	"gorm.io/gorm"
)

// RelationshipRepository handles database operations for Relationship edges
type RelationshipRepository struct {
	DB *gorm.DB
}

// NewRelationshipRepository creates a new instance of RelationshipRepository
func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{DB: db}
}

// Create creates a new relationship record in the database
func (r *RelationshipRepository) Create(rel *models.Relationship) error {
	now := time.Now().Unix()
	if rel.CreatedAt == 0 {
		rel.CreatedAt = now
	}
	if rel.UpdatedAt == 0 {
		rel.UpdatedAt = now
	}

	err := r.DB.Create(rel).Error
	if err != nil {
		return fmt.Errorf("failed to create %s relationship %d-%d: %w", rel.Type, rel.Person1ID, rel.Person2ID, err)
	}
	return nil
}

// GetByID retrieves a relationship by its ID
func (r *RelationshipRepository) GetByID(id uint) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.DB.First(&rel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get relationship by ID %d: %w", id, err)
	}
	return &rel, nil
}

// ListByTree retrieves all relationships in a tree
func (r *RelationshipRepository) ListByTree(treeID uint) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.DB.Where("family_tree_id = ?", treeID).Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships for tree %d: %w", treeID, err)
	}
	return rels, nil
}

// FindByPerson retrieves relationships of the given type touching personID on either end
func (r *RelationshipRepository) FindByPerson(treeID, personID uint, relType models.RelationshipType) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.DB.
		Where("family_tree_id = ? AND type = ?", treeID, relType).
		Where("person1_id = ? OR person2_id = ?", personID, personID).
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find %s relationships for person %d: %w", relType, personID, err)
	}
	return rels, nil
}

// FindByParent retrieves parent-child relationships where personID is the parent side
func (r *RelationshipRepository) FindByParent(treeID, parentID uint) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.DB.
		Where("family_tree_id = ? AND type = ? AND person1_id = ?", treeID, models.RelationshipTypeParentChild, parentID).
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find children relationships for person %d: %w", parentID, err)
	}
	return rels, nil
}

// FindByChild retrieves parent-child relationships where personID is the child side
func (r *RelationshipRepository) FindByChild(treeID, childID uint) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.DB.
		Where("family_tree_id = ? AND type = ? AND person2_id = ?", treeID, models.RelationshipTypeParentChild, childID).
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find parent relationships for person %d: %w", childID, err)
	}
	return rels, nil
}

// Delete removes a relationship by its ID
func (r *RelationshipRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Relationship{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete relationship ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByPerson removes every relationship touching the given person, used
// when a person is deleted from a tree
func (r *RelationshipRepository) DeleteByPerson(treeID, personID uint) error {
	err := r.DB.
		Where("family_tree_id = ?", treeID).
		Where("person1_id = ? OR person2_id = ?", personID, personID).
		Delete(&models.Relationship{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete relationships for person %d: %w", personID, err)
	}
	return nil
}

// CountByTree returns the number of relationships in a tree
func (r *RelationshipRepository) CountByTree(treeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Relationship{}).Where("family_tree_id = ?", treeID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count relationships for tree %d: %w", treeID, err)
	}
	return count, nil
}
