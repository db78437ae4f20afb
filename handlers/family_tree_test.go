package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/services"
)

func newTreeFixture(t *testing.T, trees ...*models.FamilyTree) (*chi.Mux, *fakeTreeRepo) {
	t.Helper()
	treeRepo := newFakeTreeRepo(trees...)
	treeService := services.NewFamilyTreeService(treeRepo, stubPersonRepo{}, stubRelationshipRepo{}, stubStatsSource{})
	handler := NewFamilyTreeHandler(treeRepo, treeService)

	router := chi.NewRouter()
	router.Get("/api/trees/{treeID}/statistics", handler.GetStatistics)
	router.Post("/api/trees/{treeID}/statistics/recompute", handler.RecomputeStatistics)
	return router, treeRepo
}

func collaborativeTree() *models.FamilyTree {
	return &models.FamilyTree{
		ID:      1,
		OwnerID: 10,
		Collaborators: []models.Collaborator{
			{FamilyTreeID: 1, UserID: 20, Role: models.CollaboratorRoleViewer, AcceptedAt: acceptedAt()},
			{FamilyTreeID: 1, UserID: 30, Role: models.CollaboratorRoleEditor, AcceptedAt: acceptedAt()},
		},
	}
}

func TestRecomputeStatisticsForbiddenForViewer(t *testing.T) {
	router, treeRepo := newTreeFixture(t, collaborativeTree())

	req := httptest.NewRequest(http.MethodPost, "/api/trees/1/statistics/recompute", nil)
	rec := doAs(&models.User{ID: 20}, router, req)

	// recompute persists the snapshot, so read-only access is not enough
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, treeRepo.savedStats)
}

func TestRecomputeStatisticsAllowedForEditor(t *testing.T) {
	router, treeRepo := newTreeFixture(t, collaborativeTree())

	req := httptest.NewRequest(http.MethodPost, "/api/trees/1/statistics/recompute", nil)
	rec := doAs(&models.User{ID: 30}, router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := treeRepo.savedStats[1]
	assert.True(t, ok, "recompute must persist the snapshot")
}

func TestGetStatisticsAllowedForViewer(t *testing.T) {
	router, _ := newTreeFixture(t, collaborativeTree())

	req := httptest.NewRequest(http.MethodGet, "/api/trees/1/statistics", nil)
	rec := doAs(&models.User{ID: 20}, router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
