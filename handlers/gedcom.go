package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chifamba/dzinza-sub003/config"
	"github.com/chifamba/dzinza-sub003/media"
	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
	"github.com/chifamba/dzinza-sub003/services"
)

type GedcomHandler struct {
	TreeRepo      repository.FamilyTreeRepositoryInterface
	ImportService *services.GedcomImportService
	Store         media.Store
	Cfg           config.Config
}

func NewGedcomHandler(
	treeRepo repository.FamilyTreeRepositoryInterface,
	importService *services.GedcomImportService,
	store media.Store,
	cfg config.Config,
) *GedcomHandler {
	return &GedcomHandler{TreeRepo: treeRepo, ImportService: importService, Store: store, Cfg: cfg}
}

// Import accepts a GEDCOM file as multipart form data under the 'file' field,
// retains a copy of the source document, and runs the two-pass import. The
// permission check runs before anything touches the media store, so a
// rejected request leaves no retained file behind. The import itself commits
// atomically; on any failure nothing is persisted.
func (h *GedcomHandler) Import(w http.ResponseWriter, r *http.Request) {
	tree, user, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserEdit)
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

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".ged" && ext != ".gedcom" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "File must have a .ged or .gedcom extension")
		return
	}

	// retain the uploaded source before importing so a failed import can
	// still be re-run from the stored copy
	storedName := uuid.NewString() + ext
	treeDir := fmt.Sprintf("%d", tree.ID)
	relPath, err := h.Store.Save(media.AssetTypeGedcom, treeDir, storedName, file)
	if err != nil {
		log.Printf("Error retaining GEDCOM source for tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store GEDCOM file")
		return
	}

	reader, _, err := h.Store.Get(relPath)
	if err != nil {
		log.Printf("Error reading retained GEDCOM source %s: %v", relPath, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to read stored GEDCOM file")
		return
	}
	defer reader.Close()

	summary, err := h.ImportService.Import(tree.ID, user.ID, reader)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTreeNotFound):
			WriteAPIError(w, http.StatusNotFound, "not_found", "Family tree not found")
		case errors.Is(err, services.ErrImportForbidden):
			WriteAPIError(w, http.StatusForbidden, "forbidden", "You may not import into this tree")
		default:
			log.Printf("GEDCOM import failed for tree %d: %v", tree.ID, err)
			WriteAPIError(w, http.StatusUnprocessableEntity, "import_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":     summary,
		"source_file": relPath,
	})
}

// ListSources returns the retained GEDCOM source filenames for a tree,
// naturally sorted.
func (h *GedcomHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	tree, _, ok := loadTree(h.TreeRepo, w, r, (*models.FamilyTree).CanUserView)
	if !ok {
		return
	}

	names, err := h.Store.ListFiles(media.AssetTypeGedcom, fmt.Sprintf("%d", tree.ID))
	if err != nil {
		log.Printf("Error listing GEDCOM sources for tree %d: %v", tree.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list GEDCOM sources")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": names})
}
