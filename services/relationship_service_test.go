package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chifamba/dzinza-sub003/models"
)

// buildFamily stores two parents, three children of both, plus a half-sibling
// through the father only.
func buildFamily(t *testing.T) (*RelationshipService, *fakePersonRepo, *fakeRelationshipRepo) {
	t.Helper()
	persons := newFakePersonRepo()
	rels := newFakeRelationshipRepo()

	names := []string{"Father", "Mother", "Alice", "Bob", "Cara", "Half"}
	for _, n := range names {
		require.NoError(t, persons.Create(&models.Person{FamilyTreeID: 1, FirstName: n}))
	}
	// IDs: Father=1 Mother=2 Alice=3 Bob=4 Cara=5 Half=6

	require.NoError(t, rels.Create(&models.Relationship{FamilyTreeID: 1, Person1ID: 1, Person2ID: 2, Type: models.RelationshipTypeSpouse}))
	for _, child := range []uint{3, 4, 5} {
		require.NoError(t, rels.Create(&models.Relationship{FamilyTreeID: 1, Person1ID: 1, Person2ID: child, Type: models.RelationshipTypeParentChild}))
		require.NoError(t, rels.Create(&models.Relationship{FamilyTreeID: 1, Person1ID: 2, Person2ID: child, Type: models.RelationshipTypeParentChild}))
	}
	require.NoError(t, rels.Create(&models.Relationship{FamilyTreeID: 1, Person1ID: 1, Person2ID: 6, Type: models.RelationshipTypeParentChild}))

	return NewRelationshipService(rels, persons), persons, rels
}

func relatedNames(related []RelatedPerson) []string {
	names := make([]string, 0, len(related))
	for _, r := range related {
		names = append(names, r.FirstName)
	}
	return names
}

func TestFindParents(t *testing.T) {
	svc, _, _ := buildFamily(t)
	parents, err := svc.FindParents(1, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Father", "Mother"}, relatedNames(parents))
	for _, p := range parents {
		assert.Equal(t, models.RelationshipTypeParentChild, p.RelationshipType)
		assert.NotZero(t, p.RelationshipID)
	}
}

func TestFindChildren(t *testing.T) {
	svc, _, _ := buildFamily(t)

	children, err := svc.FindChildren(1, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice", "Bob", "Cara", "Half"}, relatedNames(children))

	children, err = svc.FindChildren(1, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice", "Bob", "Cara"}, relatedNames(children))
}

func TestFindSpouses(t *testing.T) {
	svc, _, _ := buildFamily(t)

	// symmetric regardless of which end is queried
	spouses, err := svc.FindSpouses(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mother"}, relatedNames(spouses))

	spouses, err = svc.FindSpouses(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Father"}, relatedNames(spouses))
}

func TestFindSiblingsDeduplicatesSharedParents(t *testing.T) {
	svc, _, _ := buildFamily(t)

	// Alice shares two parents with Bob and Cara; each must appear once.
	// Half shares only the father and still qualifies.
	siblings, err := svc.FindSiblings(1, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bob", "Cara", "Half"}, relatedNames(siblings))
}

func TestFindSiblingsIsSymmetric(t *testing.T) {
	svc, _, _ := buildFamily(t)

	fromAlice, err := svc.FindSiblings(1, 3)
	require.NoError(t, err)
	fromHalf, err := svc.FindSiblings(1, 6)
	require.NoError(t, err)

	assert.Contains(t, relatedNames(fromAlice), "Half")
	assert.Contains(t, relatedNames(fromHalf), "Alice")
}

func TestFindSiblingsExcludesSelfAndSpouse(t *testing.T) {
	svc, _, _ := buildFamily(t)
	siblings, err := svc.FindSiblings(1, 3)
	require.NoError(t, err)
	names := relatedNames(siblings)
	assert.NotContains(t, names, "Alice")
	assert.NotContains(t, names, "Father")
	assert.NotContains(t, names, "Mother")
}

func TestFindSiblingsOnlyChild(t *testing.T) {
	persons := newFakePersonRepo()
	rels := newFakeRelationshipRepo()
	require.NoError(t, persons.Create(&models.Person{FamilyTreeID: 1, FirstName: "Solo"}))
	svc := NewRelationshipService(rels, persons)

	siblings, err := svc.FindSiblings(1, 1)
	require.NoError(t, err)
	assert.Empty(t, siblings)
}

func TestProjectionSelectsOtherParticipant(t *testing.T) {
	svc, _, _ := buildFamily(t)

	parents, err := svc.FindParents(1, 3)
	require.NoError(t, err)
	for _, p := range parents {
		assert.NotEqual(t, uint(3), p.PersonID, "projection must never return the queried person")
	}
}
