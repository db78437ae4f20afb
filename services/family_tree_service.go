package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
)

// ErrTreeForbidden is returned when the actor lacks the permission a tree
// operation requires.
var ErrTreeForbidden = errors.New("user is not allowed to perform this action on the tree")

// TreeStatsSource provides the aggregate numbers behind ComputeStatistics.
// database.StatsDB is the production implementation.
type TreeStatsSource interface {
	PersonPhotoCount(treeID uint) (int64, error)
	PersonBirthDateCount(treeID uint) (int64, error)
	BirthYearRange(treeID uint) (oldest, newest *int, err error)
}

// FamilyTreeService covers tree-level operations that go beyond plain CRUD:
// collaborator management and on-demand statistics recomputation.
type FamilyTreeService struct {
	treeRepo         repository.FamilyTreeRepositoryInterface
	personRepo       repository.PersonRepositoryInterface
	relationshipRepo repository.RelationshipRepositoryInterface
	stats            TreeStatsSource
}

// NewFamilyTreeService creates a new family tree service
func NewFamilyTreeService(
	treeRepo repository.FamilyTreeRepositoryInterface,
	personRepo repository.PersonRepositoryInterface,
	relationshipRepo repository.RelationshipRepositoryInterface,
	stats TreeStatsSource,
) *FamilyTreeService {
	return &FamilyTreeService{
		treeRepo:         treeRepo,
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
		stats:            stats,
	}
}

// AddCollaborator invites targetUserID onto the tree with the given role.
// Requires manage permission on the actor. The entry starts pending.
func (s *FamilyTreeService) AddCollaborator(treeID, actorID, targetUserID uint, role models.CollaboratorRole) (*models.Collaborator, error) {
	tree, err := s.treeRepo.GetByID(treeID)
	if err != nil {
		return nil, err
	}
	if !tree.CanUserManage(actorID) {
		return nil, ErrTreeForbidden
	}

	collab, err := tree.AddCollaborator(actorID, targetUserID, role)
	if err != nil {
		return nil, err
	}
	if err := s.treeRepo.UpsertCollaborator(collab); err != nil {
		return nil, err
	}
	return collab, nil
}

// RemoveCollaborator removes targetUserID from the tree. Requires manage
// permission on the actor.
func (s *FamilyTreeService) RemoveCollaborator(treeID, actorID, targetUserID uint) error {
	tree, err := s.treeRepo.GetByID(treeID)
	if err != nil {
		return err
	}
	if !tree.CanUserManage(actorID) {
		return ErrTreeForbidden
	}
	return s.treeRepo.RemoveCollaborator(treeID, targetUserID)
}

// DeleteTree deletes the tree and everything in it. Owner-only, regardless of
// admin collaborators.
func (s *FamilyTreeService) DeleteTree(treeID, actorID uint) error {
	tree, err := s.treeRepo.GetByID(treeID)
	if err != nil {
		return err
	}
	if !tree.CanUserDelete(actorID) {
		return ErrTreeForbidden
	}
	return s.treeRepo.Delete(treeID)
}

// ComputeStatistics recomputes the derived statistics fields from current
// person/relationship counts and merges them over the stored snapshot:
// fields this method does not derive (such as TotalGenerations) keep their
// stored values. The merged snapshot is persisted and returned.
func (s *FamilyTreeService) ComputeStatistics(treeID uint) (*models.TreeStatistics, error) {
	tree, err := s.treeRepo.GetByID(treeID)
	if err != nil {
		return nil, err
	}

	totalPersons, err := s.personRepo.CountByTree(treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for tree %d: %w", treeID, err)
	}
	totalRelationships, err := s.relationshipRepo.CountByTree(treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for tree %d: %w", treeID, err)
	}
	withPhoto, err := s.stats.PersonPhotoCount(treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for tree %d: %w", treeID, err)
	}
	withBirthDate, err := s.stats.PersonBirthDateCount(treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for tree %d: %w", treeID, err)
	}
	oldest, newest, err := s.stats.BirthYearRange(treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for tree %d: %w", treeID, err)
	}

	stats := tree.Statistics
	stats.TotalPersons = int(totalPersons)
	stats.TotalRelationships = int(totalRelationships)
	stats.PhotoCompleteness = percentage(withPhoto, totalPersons)
	stats.BirthDateCompleteness = percentage(withBirthDate, totalPersons)
	stats.CompletenessScore = (stats.PhotoCompleteness + stats.BirthDateCompleteness) / 2
	stats.OldestBirthYear = oldest
	stats.NewestBirthYear = newest

	if err := s.treeRepo.UpdateStatistics(treeID, stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// percentage rounds to the nearest integer and is 0 for an empty tree.
func percentage(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
