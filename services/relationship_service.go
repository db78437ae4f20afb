package services

import (
	"fmt"

	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
)

// RelatedPerson is the read-time projection returned by the relationship
// queries: the related person's display fields plus the edge that connects
// them. Nothing here is stored; it is assembled per request.
type RelatedPerson struct {
	PersonID           uint                    `json:"person_id"`
	FirstName          string                  `json:"first_name"`
	LastName           string                  `json:"last_name"`
	Gender             models.Gender           `json:"gender"`
	IsLiving           bool                    `json:"is_living"`
	BirthDate          *int64                  `json:"birth_date,omitempty"`
	DeathDate          *int64                  `json:"death_date,omitempty"`
	PhotoThumbnailPath *string                 `json:"photo_thumbnail_path,omitempty"`
	RelationshipID     uint                    `json:"relationship_id"`
	RelationshipType   models.RelationshipType `json:"relationship_type"`
}

// RelationshipService answers derived-relationship queries over the stored
// edge set. All operations are read-only and safe to run concurrently with
// each other and with ongoing imports (which they may observe mid-flight).
type RelationshipService struct {
	relationshipRepo repository.RelationshipRepositoryInterface
	personRepo       repository.PersonRepositoryInterface
}

// NewRelationshipService creates a new relationship query service
func NewRelationshipService(
	relationshipRepo repository.RelationshipRepositoryInterface,
	personRepo repository.PersonRepositoryInterface,
) *RelationshipService {
	return &RelationshipService{relationshipRepo: relationshipRepo, personRepo: personRepo}
}

// FindParents returns the parent side of every parent-child edge where
// personID is the child.
func (s *RelationshipService) FindParents(treeID, personID uint) ([]RelatedPerson, error) {
	rels, err := s.relationshipRepo.FindByChild(treeID, personID)
	if err != nil {
		return nil, err
	}
	return s.project(personID, rels)
}

// FindChildren returns the child side of every parent-child edge where
// personID is the parent.
func (s *RelationshipService) FindChildren(treeID, personID uint) ([]RelatedPerson, error) {
	rels, err := s.relationshipRepo.FindByParent(treeID, personID)
	if err != nil {
		return nil, err
	}
	return s.project(personID, rels)
}

// FindSpouses returns the other end of every spouse edge touching personID.
func (s *RelationshipService) FindSpouses(treeID, personID uint) ([]RelatedPerson, error) {
	rels, err := s.relationshipRepo.FindByPerson(treeID, personID, models.RelationshipTypeSpouse)
	if err != nil {
		return nil, err
	}
	return s.project(personID, rels)
}

// FindSiblings derives siblinghood from the stored edges: Q is a sibling of
// personID iff some person is a parent of both. Any shared parent qualifies;
// half- and full-siblings are not distinguished. Results are deduplicated and
// never include personID itself.
func (s *RelationshipService) FindSiblings(treeID, personID uint) ([]RelatedPerson, error) {
	parentRels, err := s.relationshipRepo.FindByChild(treeID, personID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	siblings := make([]RelatedPerson, 0)
	for _, parentRel := range parentRels {
		parentID := parentRel.Person1ID
		childRels, err := s.relationshipRepo.FindByParent(treeID, parentID)
		if err != nil {
			return nil, err
		}
		for i := range childRels {
			rel := childRels[i]
			siblingID := rel.Person2ID
			if siblingID == personID {
				continue
			}
			if _, ok := seen[siblingID]; ok {
				continue
			}
			seen[siblingID] = struct{}{}
			projected, err := s.projectOne(siblingID, &rel)
			if err != nil {
				return nil, err
			}
			siblings = append(siblings, *projected)
		}
	}
	return siblings, nil
}

// project builds the display projection for the participant of each edge that
// is not queriedPersonID.
func (s *RelationshipService) project(queriedPersonID uint, rels []models.Relationship) ([]RelatedPerson, error) {
	results := make([]RelatedPerson, 0, len(rels))
	for i := range rels {
		rel := rels[i]
		otherID, ok := models.OtherParticipant(&rel, queriedPersonID)
		if !ok {
			// the query helpers only return edges touching the person; an
			// edge that doesn't is a data integrity problem worth surfacing
			return nil, fmt.Errorf("relationship %d does not involve person %d", rel.ID, queriedPersonID)
		}
		projected, err := s.projectOne(otherID, &rel)
		if err != nil {
			return nil, err
		}
		results = append(results, *projected)
	}
	return results, nil
}

func (s *RelationshipService) projectOne(personID uint, rel *models.Relationship) (*RelatedPerson, error) {
	person, err := s.personRepo.GetByID(personID)
	if err != nil {
		return nil, fmt.Errorf("failed to load person %d for relationship %d: %w", personID, rel.ID, err)
	}
	return &RelatedPerson{
		PersonID:           person.ID,
		FirstName:          person.FirstName,
		LastName:           person.LastName,
		Gender:             person.Gender,
		IsLiving:           person.IsLiving,
		BirthDate:          person.BirthDate,
		DeathDate:          person.DeathDate,
		PhotoThumbnailPath: person.PhotoThumbnailPath,
		RelationshipID:     rel.ID,
		RelationshipType:   rel.Type,
	}, nil
}
