package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/chifamba/dzinza-sub003/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(person *models.Person) error {
	now := time.Now().Unix()
	if person.CreatedAt == 0 {
		person.CreatedAt = now
	}
	if person.UpdatedAt == 0 {
		person.UpdatedAt = now
	}
	if person.Gender == "" {
		person.Gender = models.GenderUnknown
	}

	err := r.DB.Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.DisplayName(), err)
	}
	return nil
}

// GetByID retrieves a person by their ID
func (r *PersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// ListByTree retrieves all people in a tree, ordered by last then first name
func (r *PersonRepository) ListByTree(treeID uint) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Where("family_tree_id = ?", treeID).
		Order("last_name ASC, first_name ASC").
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people for tree %d: %w", treeID, err)
	}
	return people, nil
}

// Update updates an existing person's details. FamilyTreeID is immutable and
// deliberately excluded from the update.
func (r *PersonRepository) Update(person *models.Person) error {
	person.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Person{ID: person.ID}).
		Select("FirstName", "LastName", "Gender", "IsLiving",
			"BirthDate", "BirthPlace", "DeathDate", "DeathPlace", "UpdatedAt").
		Updates(person)

	if result.Error != nil {
		return fmt.Errorf("failed to update person ID %d: %w", person.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePhoto sets the photo asset paths produced by the photo worker
func (r *PersonRepository) UpdatePhoto(personID uint, photoPath, thumbnailPath *string, takenAt *int64) error {
	result := r.DB.Model(&models.Person{ID: personID}).Updates(map[string]interface{}{
		"photo_path":           photoPath,
		"photo_thumbnail_path": thumbnailPath,
		"photo_taken_at":       takenAt,
		"updated_at":           time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update photo for person ID %d: %w", personID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a person by their ID
func (r *PersonRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Person{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete person ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByTree returns the number of people in a tree
func (r *PersonRepository) CountByTree(treeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Person{}).Where("family_tree_id = ?", treeID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count people for tree %d: %w", treeID, err)
	}
	return count, nil
}
