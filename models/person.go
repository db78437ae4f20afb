package models

// Gender is the recorded gender of a person. GEDCOM SEX values map onto it
// during import; anything other than M/F becomes GenderUnknown.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Person represents a person inside a single family tree using GORM.
// It corresponds to the 'people' table. A person never moves between trees;
// FamilyTreeID is set on creation and treated as immutable.
type Person struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FamilyTreeID uint   `gorm:"not null;index" json:"family_tree_id"`
	FirstName    string `gorm:"not null" json:"first_name"`
	LastName     string `gorm:"" json:"last_name"`
	Gender       Gender `gorm:"not null;default:unknown" json:"gender"`
	IsLiving     bool   `gorm:"not null;default:true" json:"is_living"`

	BirthDate  *int64  `gorm:"" json:"birth_date,omitempty"` // Unix timestamp, may be negative for pre-1970 births
	BirthPlace *string `gorm:"" json:"birth_place,omitempty"`
	DeathDate  *int64  `gorm:"" json:"death_date,omitempty"`
	DeathPlace *string `gorm:"" json:"death_place,omitempty"`

	// profile photo assets, relative paths within the media store
	PhotoPath          *string `gorm:"" json:"photo_path,omitempty"`
	PhotoThumbnailPath *string `gorm:"" json:"photo_thumbnail_path,omitempty"`
	PhotoTakenAt       *int64  `gorm:"" json:"photo_taken_at,omitempty"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// DisplayName joins first and last name for UI-facing summaries.
func (p *Person) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
