package repository

import (
	"gorm.io/gorm"
)

// GormTransactionManager implements TransactionManager over a gorm database.
// The repositories handed to the unit of work share one transaction; an error
// from the function rolls everything back.
type GormTransactionManager struct {
	DB *gorm.DB
}

// NewGormTransactionManager creates a new instance of GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{DB: db}
}

// Do runs fn inside a single database transaction
func (m *GormTransactionManager) Do(fn func(persons PersonRepositoryInterface, relationships RelationshipRepositoryInterface) error) error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		return fn(NewPersonRepository(tx), NewRelationshipRepository(tx))
	})
}
