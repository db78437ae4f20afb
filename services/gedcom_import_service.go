package services

import (
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/gorm"

	"github.com/chifamba/dzinza-sub003/gedcom"
	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/realtime"
	"github.com/chifamba/dzinza-sub003/repository"
)

var (
	// ErrTreeNotFound is returned when the target tree does not exist.
	ErrTreeNotFound = errors.New("family tree not found")
	// ErrImportForbidden is returned when the actor lacks edit permission on
	// the target tree. Surfaced before any parsing or writes happen.
	ErrImportForbidden = errors.New("user is not allowed to import into this tree")
)

// ImportSummary reports what one GEDCOM import produced.
type ImportSummary struct {
	IndividualsImported  int `json:"individuals_imported"`
	FamiliesProcessed    int `json:"families_processed"`
	RelationshipsCreated int `json:"relationships_created"`
}

// GedcomImportService turns a parsed GEDCOM file into persisted people and
// relationships inside a family tree. The whole import commits in a single
// transaction: a failure on any row rolls back everything already staged, so
// a tree never ends up holding half an import.
type GedcomImportService struct {
	treeRepo  repository.FamilyTreeRepositoryInterface
	txManager repository.TransactionManager
	hub       *realtime.Hub
}

// NewGedcomImportService creates a new GEDCOM import service. hub may be nil.
func NewGedcomImportService(
	treeRepo repository.FamilyTreeRepositoryInterface,
	txManager repository.TransactionManager,
	hub *realtime.Hub,
) *GedcomImportService {
	return &GedcomImportService{treeRepo: treeRepo, txManager: txManager, hub: hub}
}

// Import runs the full pipeline for actorID against treeID: authorization,
// parse, Pass 1 (people), Pass 2 (relationships). Importing the same file
// twice doubles every count; the engine performs no deduplication.
func (s *GedcomImportService) Import(treeID, actorID uint, r io.Reader) (*ImportSummary, error) {
	tree, err := s.treeRepo.GetByID(treeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to load family tree %d: %w", treeID, err)
	}
	if !tree.CanUserEdit(actorID) {
		return nil, ErrImportForbidden
	}

	s.hub.Broadcast(realtime.Event{Type: "task_update", TreeID: treeID, Task: realtime.TaskGedcomImport, Status: "parsing"})

	parsed, err := gedcom.Parse(r)
	if err != nil {
		s.broadcastFailure(treeID, err)
		return nil, fmt.Errorf("failed to read GEDCOM data: %w", err)
	}

	s.hub.Broadcast(realtime.Event{Type: "task_update", TreeID: treeID, Task: realtime.TaskGedcomImport, Status: "persisting"})

	summary := &ImportSummary{}
	err = s.txManager.Do(func(persons repository.PersonRepositoryInterface, relationships repository.RelationshipRepositoryInterface) error {
		// Pass 1: people, in file order. The pointer map lives only for the
		// duration of this import.
		pointerToID := make(map[string]uint, len(parsed.Individuals))
		for _, ind := range parsed.Individuals {
			person := personFromIndividual(treeID, ind)
			if err := persons.Create(person); err != nil {
				return err
			}
			pointerToID[ind.Pointer] = person.ID
			summary.IndividualsImported++
		}

		// Pass 2: relationships. Pointers that resolved to nothing in Pass 1
		// are silently dropped; the family still counts as processed.
		for _, fam := range parsed.Families {
			summary.FamiliesProcessed++

			husbands := resolvePointers(pointerToID, fam.Husbands)
			wives := resolvePointers(pointerToID, fam.Wives)
			children := resolvePointers(pointerToID, fam.Children)

			var marriageDate *int64
			var marriagePlace *string
			if fam.Marriage != nil {
				if t, ok := gedcom.ParseDate(fam.Marriage.Date); ok {
					ts := t.Unix()
					marriageDate = &ts
				}
				if fam.Marriage.Place != "" {
					place := fam.Marriage.Place
					marriagePlace = &place
				}
			}

			// one spouse edge per (husband, wife) pair; malformed families
			// with repeated HUSB/WIFE lines yield the full cross product
			for _, h := range husbands {
				for _, w := range wives {
					rel := &models.Relationship{
						FamilyTreeID:  treeID,
						Person1ID:     h,
						Person2ID:     w,
						Type:          models.RelationshipTypeSpouse,
						MarriageDate:  marriageDate,
						MarriagePlace: marriagePlace,
					}
					if err := relationships.Create(rel); err != nil {
						return err
					}
					summary.RelationshipsCreated++
				}
			}

			// parents = husbands ∪ wives, deduplicated; one parent-child
			// edge per (parent, child) pair
			parents := unionIDs(husbands, wives)
			for _, parent := range parents {
				for _, child := range children {
					rel := &models.Relationship{
						FamilyTreeID: treeID,
						Person1ID:    parent,
						Person2ID:    child,
						Type:         models.RelationshipTypeParentChild,
					}
					if err := relationships.Create(rel); err != nil {
						return err
					}
					summary.RelationshipsCreated++
				}
			}
		}
		return nil
	})
	if err != nil {
		s.broadcastFailure(treeID, err)
		return nil, fmt.Errorf("GEDCOM import failed: %w", err)
	}

	log.Printf("gedcom import: tree %d: %d individuals, %d families, %d relationships",
		treeID, summary.IndividualsImported, summary.FamiliesProcessed, summary.RelationshipsCreated)
	s.hub.Broadcast(realtime.Event{
		Type: "task_update", TreeID: treeID, Task: realtime.TaskGedcomImport, Status: "done",
		Extra: map[string]interface{}{
			"individuals_imported":  summary.IndividualsImported,
			"families_processed":    summary.FamiliesProcessed,
			"relationships_created": summary.RelationshipsCreated,
		},
	})
	return summary, nil
}

func (s *GedcomImportService) broadcastFailure(treeID uint, err error) {
	s.hub.Broadcast(realtime.Event{
		Type: "task_update", TreeID: treeID, Task: realtime.TaskGedcomImport,
		Status: "failed", Error: err.Error(),
	})
}

// personFromIndividual maps one parsed INDI record onto a Person row.
// Missing fields get defaults; an unparseable date is stored as absent.
func personFromIndividual(treeID uint, ind *gedcom.Individual) *models.Person {
	given, surname := gedcom.SplitName(ind.Name)

	gender := models.GenderUnknown
	switch ind.Sex {
	case "M":
		gender = models.GenderMale
	case "F":
		gender = models.GenderFemale
	}

	person := &models.Person{
		FamilyTreeID: treeID,
		FirstName:    given,
		LastName:     surname,
		Gender:       gender,
		IsLiving:     ind.Death == nil,
	}
	if ind.Birth != nil {
		if t, ok := gedcom.ParseDate(ind.Birth.Date); ok {
			ts := t.Unix()
			person.BirthDate = &ts
		}
		if ind.Birth.Place != "" {
			place := ind.Birth.Place
			person.BirthPlace = &place
		}
	}
	if ind.Death != nil {
		if t, ok := gedcom.ParseDate(ind.Death.Date); ok {
			ts := t.Unix()
			person.DeathDate = &ts
		}
		if ind.Death.Place != "" {
			place := ind.Death.Place
			person.DeathPlace = &place
		}
	}
	return person
}

// resolvePointers maps file pointers through the Pass-1 map, dropping any
// without a match.
func resolvePointers(pointerToID map[string]uint, pointers []string) []uint {
	ids := make([]uint, 0, len(pointers))
	for _, p := range pointers {
		if id, ok := pointerToID[p]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// unionIDs merges two ID lists preserving first-seen order, without duplicates.
func unionIDs(a, b []uint) []uint {
	seen := make(map[uint]struct{}, len(a)+len(b))
	out := make([]uint, 0, len(a)+len(b))
	for _, list := range [][]uint{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
