package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
	"github.com/chifamba/dzinza-sub003/services"
)

type RelationshipHandler struct {
	RelationshipRepo    repository.RelationshipRepositoryInterface
	PersonRepo          repository.PersonRepositoryInterface
	TreeRepo            repository.FamilyTreeRepositoryInterface
	RelationshipService *services.RelationshipService
}

func NewRelationshipHandler(
	relationshipRepo repository.RelationshipRepositoryInterface,
	personRepo repository.PersonRepositoryInterface,
	treeRepo repository.FamilyTreeRepositoryInterface,
	relationshipService *services.RelationshipService,
) *RelationshipHandler {
	return &RelationshipHandler{
		RelationshipRepo:    relationshipRepo,
		PersonRepo:          personRepo,
		TreeRepo:            treeRepo,
		RelationshipService: relationshipService,
	}
}

func (h *RelationshipHandler) ListRelationships(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}
	rels, err := h.RelationshipRepo.ListByTree(tree.ID)
	if err != nil {
		log.Printf("Error listing relationships for tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list relationships")
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

type relationshipPayload struct {
	Person1ID     uint                    `json:"person1_id"`
	Person2ID     uint                    `json:"person2_id"`
	Type          models.RelationshipType `json:"type"`
	MarriageDate  *int64                  `json:"marriage_date"`
	MarriagePlace *string                 `json:"marriage_place"`
}

// CreateRelationship adds an edge between two people who must both belong to
// the tree in the URL.
func (h *RelationshipHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}

	var payload relationshipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}

	if payload.Type != models.RelationshipTypeSpouse && payload.Type != models.RelationshipTypeParentChild {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "type must be 'spouse' or 'parent_child'")
		return
	}
	if payload.Person1ID == 0 || payload.Person2ID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "person1_id and person2_id are required")
		return
	}
	if payload.Person1ID == payload.Person2ID {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "a person cannot be related to themselves")
		return
	}

	for _, pid := range []uint{payload.Person1ID, payload.Person2ID} {
		person, err := h.PersonRepo.GetByID(pid)
		if err != nil || person.FamilyTreeID != tree.ID {
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "Both persons must exist in this tree")
			return
		}
	}

	rel := &models.Relationship{
		FamilyTreeID: tree.ID,
		Person1ID:    payload.Person1ID,
		Person2ID:    payload.Person2ID,
		Type:         payload.Type,
	}
	if payload.Type == models.RelationshipTypeSpouse {
		rel.MarriageDate = payload.MarriageDate
		rel.MarriagePlace = payload.MarriagePlace
	}

	if err := h.RelationshipRepo.Create(rel); err != nil {
		log.Printf("Error creating relationship in tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create relationship")
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

func (h *RelationshipHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}

	relID, err := parseUintParam(r, "relationshipID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rel, err := h.RelationshipRepo.GetByID(relID)
	if err != nil || rel.FamilyTreeID != tree.ID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error fetching relationship %d: %v", relID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch relationship")
			return
		}
		WriteAPIError(w, http.StatusNotFound, "not_found", "Relationship not found in this tree")
		return
	}

	if err := h.RelationshipRepo.Delete(rel.ID); err != nil {
		log.Printf("Error deleting relationship %d: %v", rel.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete relationship")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// relatedQuery handles the shared shape of the four derived-relation routes.
func (h *RelationshipHandler) relatedQuery(w http.ResponseWriter, r *http.Request,
	find func(treeID, personID uint) ([]services.RelatedPerson, error)) {

	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}

	personID, err := parseUintParam(r, "personID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	person, err := h.PersonRepo.GetByID(personID)
	if err != nil || person.FamilyTreeID != tree.ID {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Person not found in this tree")
		return
	}

	related, err := find(tree.ID, personID)
	if err != nil {
		log.Printf("Error querying relations for person %d in tree %d: %v", personID, tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to query relationships")
		return
	}
	writeJSON(w, http.StatusOK, related)
}

func (h *RelationshipHandler) GetParents(w http.ResponseWriter, r *http.Request) {
	h.relatedQuery(w, r, h.RelationshipService.FindParents)
}

func (h *RelationshipHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	h.relatedQuery(w, r, h.RelationshipService.FindChildren)
}

func (h *RelationshipHandler) GetSpouses(w http.ResponseWriter, r *http.Request) {
	h.relatedQuery(w, r, h.RelationshipService.FindSpouses)
}

func (h *RelationshipHandler) GetSiblings(w http.ResponseWriter, r *http.Request) {
	h.relatedQuery(w, r, h.RelationshipService.FindSiblings)
}
