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

type FamilyTreeHandler struct {
	TreeRepo    repository.FamilyTreeRepositoryInterface
	TreeService *services.FamilyTreeService
}

func NewFamilyTreeHandler(treeRepo repository.FamilyTreeRepositoryInterface, treeService *services.FamilyTreeService) *FamilyTreeHandler {
	return &FamilyTreeHandler{TreeRepo: treeRepo, TreeService: treeService}
}

// loadTree resolves the {treeID} URL parameter, fetches the tree with its
// collaborators, and runs the given access predicate for the authenticated
// user. On failure it writes the response itself and returns ok=false.
func loadTree(treeRepo repository.FamilyTreeRepositoryInterface, w http.ResponseWriter, r *http.Request,
	allowed func(tree *models.FamilyTree, userID uint) bool) (*models.FamilyTree, *models.User, bool) {

	user := currentUser(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return nil, nil, false
	}

	treeID, err := parseUintParam(r, "treeID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, nil, false
	}

	tree, err := treeRepo.GetByID(treeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Family tree not found")
		} else {
			log.Printf("Error fetching tree %d: %v", treeID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch family tree")
		}
		return nil, nil, false
	}

	if allowed != nil && !allowed(tree, user.ID) {
		WriteAPIError(w, http.StatusForbidden, "forbidden", "You do not have access to this family tree")
		return nil, nil, false
	}
	return tree, user, true
}

func (h *FamilyTreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	trees, err := h.TreeRepo.ListByUser(user.ID)
	if err != nil {
		log.Printf("Error listing trees for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list family trees")
		return
	}
	writeJSON(w, http.StatusOK, trees)
}

type treePayload struct {
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Privacy     models.TreePrivacy `json:"privacy"`
}

func (h *FamilyTreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var payload treePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Tree name is required")
		return
	}
	if payload.Privacy == "" {
		payload.Privacy = models.TreePrivacyPrivate
	}

	tree := &models.FamilyTree{
		OwnerID:     user.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Privacy:     payload.Privacy,
	}
	if err := h.TreeRepo.Create(tree); err != nil {
		log.Printf("Error creating tree for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create family tree")
		return
	}
	writeJSON(w, http.StatusCreated, tree)
}

func (h *FamilyTreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *FamilyTreeHandler) UpdateTree(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}

	var payload treePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}
	if payload.Name != "" {
		tree.Name = payload.Name
	}
	if payload.Description != nil {
		tree.Description = payload.Description
	}
	if payload.Privacy != "" {
		tree.Privacy = payload.Privacy
	}

	if err := h.TreeRepo.Update(tree); err != nil {
		log.Printf("Error updating tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update family tree")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *FamilyTreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	tree, user, ok := loadTree(h.TreeRepo, w, r, nil)
	if !ok {
		return
	}

	if err := h.TreeService.DeleteTree(tree.ID, user.ID); err != nil {
		if errors.Is(err, services.ErrTreeForbidden) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Only the owner can delete a family tree")
			return
		}
		log.Printf("Error deleting tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete family tree")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type collaboratorPayload struct {
	UserID uint                    `json:"user_id"`
	Role   models.CollaboratorRole `json:"role"`
}

func (h *FamilyTreeHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	tree, user, ok := loadTree(h.TreeRepo, w, r, nil)
	if !ok {
		return
	}

	var payload collaboratorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}
	if payload.UserID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}

	collab, err := h.TreeService.AddCollaborator(tree.ID, user.ID, payload.UserID, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTreeForbidden):
			WriteAPIError(w, http.StatusForbidden, "forbidden", "You may not manage collaborators on this tree")
		case errors.Is(err, models.ErrSelfCollaborator):
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "You cannot add yourself as a collaborator")
		default:
			log.Printf("Error adding collaborator to tree %d: %v", tree.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to add collaborator")
		}
		return
	}
	writeJSON(w, http.StatusCreated, collab)
}

func (h *FamilyTreeHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	tree, user, ok := loadTree(h.TreeRepo, w, r, nil)
	if !ok {
		return
	}

	targetID, err := parseUintParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := h.TreeService.RemoveCollaborator(tree.ID, user.ID, targetID); err != nil {
		if errors.Is(err, services.ErrTreeForbidden) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "You may not manage collaborators on this tree")
			return
		}
		log.Printf("Error removing collaborator %d from tree %d: %v", targetID, tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to remove collaborator")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatistics returns the stored statistics snapshot without recomputing.
func (h *FamilyTreeHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tree.Statistics)
}

// RecomputeStatistics recalculates the derived statistics and returns the
// merged snapshot. It persists the result, so it requires edit permission
// rather than view.
func (h *FamilyTreeHandler) RecomputeStatistics(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}

	stats, err := h.TreeService.ComputeStatistics(tree.ID)
	if err != nil {
		log.Printf("Error recomputing statistics for tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to recompute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
