package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chifamba/dzinza-sub003/models"
	"github.com/chifamba/dzinza-sub003/repository"
)

// in-memory repository fakes shared by the service tests

type fakePersonRepo struct {
	persons map[uint]*models.Person
	nextID  uint
	failOn  int // 1-based create index that should fail; 0 disables
	creates int
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{persons: make(map[uint]*models.Person), nextID: 1}
}

func (f *fakePersonRepo) Create(person *models.Person) error {
	f.creates++
	if f.failOn > 0 && f.creates == f.failOn {
		return errors.New("simulated person insert failure")
	}
	person.ID = f.nextID
	f.nextID++
	copied := *person
	f.persons[person.ID] = &copied
	return nil
}

func (f *fakePersonRepo) GetByID(id uint) (*models.Person, error) {
	p, ok := f.persons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePersonRepo) ListByTree(treeID uint) ([]models.Person, error) {
	var out []models.Person
	for id := uint(1); id < f.nextID; id++ {
		if p, ok := f.persons[id]; ok && p.FamilyTreeID == treeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePersonRepo) Update(person *models.Person) error {
	if _, ok := f.persons[person.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *person
	f.persons[person.ID] = &copied
	return nil
}

func (f *fakePersonRepo) UpdatePhoto(personID uint, photoPath, thumbnailPath *string, takenAt *int64) error {
	p, ok := f.persons[personID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PhotoPath = photoPath
	p.PhotoThumbnailPath = thumbnailPath
	p.PhotoTakenAt = takenAt
	return nil
}

func (f *fakePersonRepo) Delete(id uint) error {
	delete(f.persons, id)
	return nil
}

func (f *fakePersonRepo) CountByTree(treeID uint) (int64, error) {
	var n int64
	for _, p := range f.persons {
		if p.FamilyTreeID == treeID {
			n++
		}
	}
	return n, nil
}

type fakeRelationshipRepo struct {
	rels    map[uint]*models.Relationship
	nextID  uint
	failOn  int
	creates int
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rels: make(map[uint]*models.Relationship), nextID: 1}
}

func (f *fakeRelationshipRepo) Create(rel *models.Relationship) error {
	f.creates++
	if f.failOn > 0 && f.creates == f.failOn {
		return errors.New("simulated relationship insert failure")
	}
	rel.ID = f.nextID
	f.nextID++
	copied := *rel
	f.rels[rel.ID] = &copied
	return nil
}

func (f *fakeRelationshipRepo) GetByID(id uint) (*models.Relationship, error) {
	r, ok := f.rels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRelationshipRepo) ListByTree(treeID uint) ([]models.Relationship, error) {
	return f.filter(func(r *models.Relationship) bool { return r.FamilyTreeID == treeID }), nil
}

func (f *fakeRelationshipRepo) FindByPerson(treeID, personID uint, relType models.RelationshipType) ([]models.Relationship, error) {
	return f.filter(func(r *models.Relationship) bool {
		return r.FamilyTreeID == treeID && r.Type == relType && r.Involves(personID)
	}), nil
}

func (f *fakeRelationshipRepo) FindByParent(treeID, parentID uint) ([]models.Relationship, error) {
	return f.filter(func(r *models.Relationship) bool {
		return r.FamilyTreeID == treeID && r.Type == models.RelationshipTypeParentChild && r.Person1ID == parentID
	}), nil
}

func (f *fakeRelationshipRepo) FindByChild(treeID, childID uint) ([]models.Relationship, error) {
	return f.filter(func(r *models.Relationship) bool {
		return r.FamilyTreeID == treeID && r.Type == models.RelationshipTypeParentChild && r.Person2ID == childID
	}), nil
}

func (f *fakeRelationshipRepo) filter(keep func(*models.Relationship) bool) []models.Relationship {
	var out []models.Relationship
	for id := uint(1); id < f.nextID; id++ {
		if r, ok := f.rels[id]; ok && keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

func (f *fakeRelationshipRepo) Delete(id uint) error {
	delete(f.rels, id)
	return nil
}

func (f *fakeRelationshipRepo) DeleteByPerson(treeID, personID uint) error {
	for id, r := range f.rels {
		if r.FamilyTreeID == treeID && r.Involves(personID) {
			delete(f.rels, id)
		}
	}
	return nil
}

func (f *fakeRelationshipRepo) CountByTree(treeID uint) (int64, error) {
	var n int64
	for _, r := range f.rels {
		if r.FamilyTreeID == treeID {
			n++
		}
	}
	return n, nil
}

type fakeTreeRepo struct {
	trees      map[uint]*models.FamilyTree
	upserted   []*models.Collaborator
	removed    [][2]uint
	deleted    []uint
	savedStats map[uint]models.TreeStatistics
	getErr     error // returned by GetByID when set, simulating a database failure
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
	if f.getErr != nil {
		return nil, f.getErr
	}
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
	if t, ok := f.trees[treeID]; ok {
		t.Statistics = stats
	}
	return nil
}

func (f *fakeTreeRepo) Delete(id uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.trees, id)
	return nil
}

func (f *fakeTreeRepo) UpsertCollaborator(collab *models.Collaborator) error {
	f.upserted = append(f.upserted, collab)
	return nil
}

func (f *fakeTreeRepo) RemoveCollaborator(treeID, userID uint) error {
	f.removed = append(f.removed, [2]uint{treeID, userID})
	return nil
}

// fakeTxManager mimics transactional rollback by snapshotting the fake stores
// before running the unit of work and restoring them when it fails.
type fakeTxManager struct {
	persons       *fakePersonRepo
	relationships *fakeRelationshipRepo
}

func (m *fakeTxManager) Do(fn func(persons repository.PersonRepositoryInterface, relationships repository.RelationshipRepositoryInterface) error) error {
	personSnap := make(map[uint]*models.Person, len(m.persons.persons))
	for id, p := range m.persons.persons {
		copied := *p
		personSnap[id] = &copied
	}
	personNext := m.persons.nextID

	relSnap := make(map[uint]*models.Relationship, len(m.relationships.rels))
	for id, r := range m.relationships.rels {
		copied := *r
		relSnap[id] = &copied
	}
	relNext := m.relationships.nextID

	if err := fn(m.persons, m.relationships); err != nil {
		m.persons.persons = personSnap
		m.persons.nextID = personNext
		m.relationships.rels = relSnap
		m.relationships.nextID = relNext
		return fmt.Errorf("unit of work failed: %w", err)
	}
	return nil
}

type fakeStatsSource struct {
	photoCount     int64
	birthDateCount int64
	oldest         *int
	newest         *int
}

func (f *fakeStatsSource) PersonPhotoCount(treeID uint) (int64, error)     { return f.photoCount, nil }
func (f *fakeStatsSource) PersonBirthDateCount(treeID uint) (int64, error) { return f.birthDateCount, nil }
func (f *fakeStatsSource) BirthYearRange(treeID uint) (*int, *int, error) {
	return f.oldest, f.newest, nil
}
