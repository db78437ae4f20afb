package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOtherParticipant(t *testing.T) {
	rel := &Relationship{ID: 9, Person1ID: 4, Person2ID: 7, Type: RelationshipTypeSpouse}

	other, ok := OtherParticipant(rel, 4)
	assert.True(t, ok)
	assert.Equal(t, uint(7), other)

	other, ok = OtherParticipant(rel, 7)
	assert.True(t, ok)
	assert.Equal(t, uint(4), other)
}

func TestOtherParticipantNotInvolved(t *testing.T) {
	rel := &Relationship{Person1ID: 4, Person2ID: 7}
	other, ok := OtherParticipant(rel, 11)
	assert.False(t, ok)
	assert.Equal(t, uint(0), other)
}

func TestInvolves(t *testing.T) {
	rel := &Relationship{Person1ID: 1, Person2ID: 2}
	assert.True(t, rel.Involves(1))
	assert.True(t, rel.Involves(2))
	assert.False(t, rel.Involves(3))
}
