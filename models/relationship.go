package models

// RelationshipType distinguishes the two kinds of edges stored between people.
type RelationshipType string

const (
	// RelationshipTypeSpouse is symmetric; Person1ID and Person2ID are interchangeable.
	RelationshipTypeSpouse RelationshipType = "spouse"
	// RelationshipTypeParentChild is directed; Person1ID is the parent, Person2ID the child.
	RelationshipTypeParentChild RelationshipType = "parent_child"
)

// Relationship represents an edge between two people in the same family tree.
// It corresponds to the 'relationships' table. Multiple relationships between
// the same pair are permitted; there is no uniqueness constraint.
type Relationship struct {
	ID           uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	FamilyTreeID uint             `gorm:"not null;index" json:"family_tree_id"`
	Person1ID    uint             `gorm:"not null;index" json:"person1_id"`
	Person2ID    uint             `gorm:"not null;index" json:"person2_id"`
	Type         RelationshipType `gorm:"not null" json:"type"`

	// marriage event captured from the source document, spouse edges only
	MarriageDate  *int64  `gorm:"" json:"marriage_date,omitempty"`
	MarriagePlace *string `gorm:"" json:"marriage_place,omitempty"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Relationship) TableName() string {
	return "relationships"
}

// Involves reports whether the given person is on either end of the edge.
func (r *Relationship) Involves(personID uint) bool {
	return r.Person1ID == personID || r.Person2ID == personID
}

// OtherParticipant returns the participant of rel that is not knownPersonID.
// The second return value is false when knownPersonID is on neither end, in
// which case the caller must not trust the first value.
func OtherParticipant(rel *Relationship, knownPersonID uint) (uint, bool) {
	switch knownPersonID {
	case rel.Person1ID:
		return rel.Person2ID, true
	case rel.Person2ID:
		return rel.Person1ID, true
	default:
		return 0, false
	}
}
