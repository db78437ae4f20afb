package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chifamba/dzinza-sub003/config"
	"github.com/chifamba/dzinza-sub003/media"
	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
	"github.com/chifamba/dzinza-sub003/utils"
	"github.com/chifamba/dzinza-sub003/workers"
)

type PersonHandler struct {
	PersonRepo       repository.PersonRepositoryInterface
	RelationshipRepo repository.RelationshipRepositoryInterface
	TreeRepo         repository.FamilyTreeRepositoryInterface
	Store            media.Store
	PhotoPool        *workers.PhotoProcessor
	Cfg              config.Config
}

type personPayload struct {
	FirstName  *string        `json:"first_name"`
	LastName   *string        `json:"last_name"`
	Gender     *models.Gender `json:"gender"`
	IsLiving   *bool          `json:"is_living"`
	BirthDate  *int64         `json:"birth_date"`
	BirthPlace *string        `json:"birth_place"`
	DeathDate  *int64         `json:"death_date"`
	DeathPlace *string        `json:"death_place"`
}

func validGender(g models.Gender) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderUnknown:
		return true
	}
	return false
}

func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}
	persons, err := h.PersonRepo.ListByTree(tree.ID)
	if err != nil {
		log.Printf("Error listing persons for tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list persons")
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}
	if payload.FirstName == nil || *payload.FirstName == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "first_name is required")
		return
	}

	person := &models.Person{
		FamilyTreeID: tree.ID,
		FirstName:    *payload.FirstName,
		Gender:       models.GenderUnknown,
		IsLiving:     true,
		BirthDate:    payload.BirthDate,
		BirthPlace:   payload.BirthPlace,
		DeathDate:    payload.DeathDate,
		DeathPlace:   payload.DeathPlace,
	}
	if payload.LastName != nil {
		person.LastName = *payload.LastName
	}
	if payload.Gender != nil {
		if !validGender(*payload.Gender) {
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "gender must be male, female, or unknown")
			return
		}
		person.Gender = *payload.Gender
	}
	if payload.IsLiving != nil {
		person.IsLiving = *payload.IsLiving
	}

	if err := h.PersonRepo.Create(person); err != nil {
		log.Printf("Error creating person in tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create person")
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

// personInTree loads {personID} and verifies it belongs to the tree from the
// URL; persons are never visible through another tree's routes.
func (h *PersonHandler) personInTree(w http.ResponseWriter, r *http.Request, treeID uint) (*models.Person, bool) {
	personID, err := parseUintParam(r, "personID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}
	person, err := h.PersonRepo.GetByID(personID)
	if err != nil || person.FamilyTreeID != treeID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error fetching person %d: %v", personID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch person")
			return nil, false
		}
		WriteAPIError(w, http.StatusNotFound, "not_found", "Person not found in this tree")
		return nil, false
	}
	return person, true
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}
	person, ok := h.personInTree(w, r, tree.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}
	person, ok := h.personInTree(w, r, tree.ID)
	if !ok {
		return
	}

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}
	if payload.FirstName != nil {
		if *payload.FirstName == "" {
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "first_name cannot be empty")
			return
		}
		person.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		person.LastName = *payload.LastName
	}
	if payload.Gender != nil {
		if !validGender(*payload.Gender) {
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "gender must be male, female, or unknown")
			return
		}
		person.Gender = *payload.Gender
	}
	if payload.IsLiving != nil {
		person.IsLiving = *payload.IsLiving
	}
	if payload.BirthDate != nil {
		person.BirthDate = payload.BirthDate
	}
	if payload.BirthPlace != nil {
		person.BirthPlace = payload.BirthPlace
	}
	if payload.DeathDate != nil {
		person.DeathDate = payload.DeathDate
	}
	if payload.DeathPlace != nil {
		person.DeathPlace = payload.DeathPlace
	}

	if err := h.PersonRepo.Update(person); err != nil {
		log.Printf("Error updating person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update person")
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// DeletePerson removes the person and every relationship touching them.
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}
	person, ok := h.personInTree(w, r, tree.ID)
	if !ok {
		return
	}

	if err := h.RelationshipRepo.DeleteByPerson(tree.ID, person.ID); err != nil {
		log.Printf("Error deleting relationships for person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete person relationships")
		return
	}
	if err := h.PersonRepo.Delete(person.ID); err != nil {
		log.Printf("Error deleting person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete person")
		return
	}

	if person.PhotoPath != nil {
		if err := h.Store.Delete(*person.PhotoPath); err != nil {
			log.Printf("Warning: failed to delete photo for person %d: %v", person.ID, err)
		}
	}
	if person.PhotoThumbnailPath != nil {
		if err := h.Store.Delete(*person.PhotoThumbnailPath); err != nil {
			log.Printf("Warning: failed to delete thumbnail for person %d: %v", person.ID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto accepts a multipart photo upload for a person. The original is
// stored synchronously; thumbnailing and EXIF extraction run on the photo
// worker pool, with completion reported over the websocket hub.
func (h *PersonHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
	if !ok {
		return
	}
	person, ok := h.personInTree(w, r, tree.ID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(h.Cfg.MaxUploadMB)<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Missing or invalid 'file' field: "+err.Error())
		return
	}
	defer file.Close()

	if !utils.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "File must be a JPEG, PNG, or GIF image")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storedName := uuid.NewString() + ext
	treeDir := fmt.Sprintf("%d", tree.ID)

	relPath, err := h.Store.Save(media.AssetTypePhoto, treeDir, storedName, file)
	if err != nil {
		log.Printf("Error storing photo for person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store photo")
		return
	}
	fullPath, err := h.Store.GetFullPath(relPath)
	if err != nil {
		log.Printf("Error resolving stored photo path %s: %v", relPath, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store photo")
		return
	}

	if !h.PhotoPool.Enqueue(workers.PhotoJob{
		PersonID:      person.ID,
		TreeID:        tree.ID,
		PhotoRelPath:  relPath,
		PhotoFullPath: fullPath,
	}) {
		WriteAPIError(w, http.StatusServiceUnavailable, "queue_full", "Photo processing queue is full, try again later")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":    "Photo uploaded, processing in background",
		"photo_path": relPath,
	})
}
