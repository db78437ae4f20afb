package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"gorm.io/gorm"

	"github.com/chifamba/dzinza-sub003/models"
)

// in-memory tree repository fake for handler tests

type fakeTreeRepo struct {
	trees      map[uint]*models.FamilyTree
	savedStats map[uint]models.TreeStatistics
}

func newFakeTreeRepo(trees ...*models.FamilyTree) *fakeTreeRepo {
	f := &fakeTreeRepo{trees: make(map[uint]*models.FamilyTree), savedStats: make(map[uint]models.TreeStatistics)}
	for _, t := range trees {
		f.trees[t.ID] = t
	}
	return f
}

func (f *fakeTreeRepo) Create(tree *models.FamilyTree) error {
	f.trees[tree.ID] = tree
	return nil
}

func (f *fakeTreeRepo) GetByID(id uint) (*models.FamilyTree, error) {
	t, ok := f.trees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTreeRepo) ListByUser(userID uint) ([]models.FamilyTree, error) {
	var out []models.FamilyTree
	for _, t := range f.trees {
		if t.OwnerID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTreeRepo) Update(tree *models.FamilyTree) error {
	f.trees[tree.ID] = tree
	return nil
}

func (f *fakeTreeRepo) UpdateStatistics(treeID uint, stats models.TreeStatistics) error {
	f.savedStats[treeID] = stats
	return nil
}

func (f *fakeTreeRepo) Delete(id uint) error {
	delete(f.trees, id)
	return nil
}

func (f *fakeTreeRepo) UpsertCollaborator(collab *models.Collaborator) error { return nil }

func (f *fakeTreeRepo) RemoveCollaborator(treeID, userID uint) error { return nil }

// stub person/relationship repositories for tests that only exercise the
// permission gates in front of the services

type stubPersonRepo struct{}

func (stubPersonRepo) Create(person *models.Person) error          { return nil }
func (stubPersonRepo) GetByID(id uint) (*models.Person, error)     { return nil, gorm.ErrRecordNotFound }
func (stubPersonRepo) ListByTree(treeID uint) ([]models.Person, error) { return nil, nil }
func (stubPersonRepo) Update(person *models.Person) error          { return nil }
func (stubPersonRepo) UpdatePhoto(personID uint, photoPath, thumbnailPath *string, takenAt *int64) error {
	return nil
}
func (stubPersonRepo) Delete(id uint) error                  { return nil }
func (stubPersonRepo) CountByTree(treeID uint) (int64, error) { return 0, nil }

type stubRelationshipRepo struct{}

func (stubRelationshipRepo) Create(rel *models.Relationship) error { return nil }
func (stubRelationshipRepo) GetByID(id uint) (*models.Relationship, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubRelationshipRepo) ListByTree(treeID uint) ([]models.Relationship, error) { return nil, nil }
func (stubRelationshipRepo) FindByPerson(treeID, personID uint, relType models.RelationshipType) ([]models.Relationship, error) {
	return nil, nil
}
func (stubRelationshipRepo) FindByParent(treeID, parentID uint) ([]models.Relationship, error) {
	return nil, nil
}
func (stubRelationshipRepo) FindByChild(treeID, childID uint) ([]models.Relationship, error) {
	return nil, nil
}
func (stubRelationshipRepo) Delete(id uint) error                    { return nil }
func (stubRelationshipRepo) DeleteByPerson(treeID, personID uint) error { return nil }
func (stubRelationshipRepo) CountByTree(treeID uint) (int64, error)  { return 0, nil }

type stubStatsSource struct{}

func (stubStatsSource) PersonPhotoCount(treeID uint) (int64, error)     { return 0, nil }
func (stubStatsSource) PersonBirthDateCount(treeID uint) (int64, error) { return 0, nil }
func (stubStatsSource) BirthYearRange(treeID uint) (*int, *int, error)  { return nil, nil, nil }

// doAs routes the request through a chi router so URL parameters resolve, with
// the given user already present in the context as AuthMiddleware would leave it.
func doAs(user *models.User, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func acceptedAt() *int64 {
	ts := int64(1700000000)
	return &ts
}
