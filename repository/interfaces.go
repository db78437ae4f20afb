package repository

import (
	"github.com/chifamba/dzinza-sub003/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(person *models.Person) error
	GetByID(id uint) (*models.Person, error)
	ListByTree(treeID uint) ([]models.Person, error)
	Update(person *models.Person) error
	UpdatePhoto(personID uint, photoPath, thumbnailPath *string, takenAt *int64) error
	Delete(id uint) error
	CountByTree(treeID uint) (int64, error)
}

// RelationshipRepositoryInterface defines the methods for relationship data operations
type RelationshipRepositoryInterface interface {
	Create(rel *models.Relationship) error
	GetByID(id uint) (*models.Relationship, error)
	ListByTree(treeID uint) ([]models.Relationship, error)
	// FindByPerson returns relationships of the given type touching personID
	// on either end
	FindByPerson(treeID, personID uint, relType models.RelationshipType) ([]models.Relationship, error)
	// FindByParent returns parent-child relationships where personID is the parent
	FindByParent(treeID, parentID uint) ([]models.Relationship, error)
	// FindByChild returns parent-child relationships where personID is the child
	FindByChild(treeID, childID uint) ([]models.Relationship, error)
	Delete(id uint) error
	DeleteByPerson(treeID, personID uint) error
	CountByTree(treeID uint) (int64, error)
}

// FamilyTreeRepositoryInterface defines the methods for family tree data operations
type FamilyTreeRepositoryInterface interface {
	Create(tree *models.FamilyTree) error
	// GetByID loads the tree with its collaborators preloaded, so that the
	// access predicates on models.FamilyTree can be evaluated
	GetByID(id uint) (*models.FamilyTree, error)
	ListByUser(userID uint) ([]models.FamilyTree, error)
	Update(tree *models.FamilyTree) error
	UpdateStatistics(treeID uint, stats models.TreeStatistics) error
	Delete(id uint) error
	UpsertCollaborator(collab *models.Collaborator) error
	RemoveCollaborator(treeID, userID uint) error
}

// UserRepositoryInterface defines the methods for user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// TransactionManager runs a unit of work against transaction-scoped person
// and relationship repositories. If the function returns an error, every
// write made through those repositories is rolled back.
type TransactionManager interface {
	Do(fn func(persons PersonRepositoryInterface, relationships RelationshipRepositoryInterface) error) error
}
