package models

import (
	"time"

	"github.com/google/uuid"
)

// Relationship is the closed vocabulary for family relations.
type Relationship string

const (
	RelationshipSpouse  Relationship = "spouse"
	RelationshipChild   Relationship = "child"
	RelationshipFather  Relationship = "father"
	RelationshipMother  Relationship = "mother"
	RelationshipSibling Relationship = "sibling"
	RelationshipOther   Relationship = "other"
)

// Valid reports whether r is one of the accepted relationship labels.
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipFather,
		RelationshipMother, RelationshipSibling, RelationshipOther:
		return true
	}
	return false
}

// MaritalStatus is an optional profile field. Empty means unspecified.
type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "single"
	MaritalStatusMarried MaritalStatus = "married"
	MaritalStatusOther   MaritalStatus = "other"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case "", MaritalStatusSingle, MaritalStatusMarried, MaritalStatusOther:
		return true
	}
	return false
}

// YesNo is a tri-state profile flag. Empty means unspecified.
type YesNo string

const (
	YesNoYes YesNo = "yes"
	YesNoNo  YesNo = "no"
)

func (y YesNo) Valid() bool {
	switch y {
	case "", YesNoYes, YesNoNo:
		return true
	}
	return false
}

// Person is a directory entry. Birthday is stored as "YYYY-MM-DD" (the
// year may be a placeholder; only month/day matter for proximity ranking).
type Person struct {
	ID            uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid"`
	Name          string        `json:"name" gorm:"not null"`
	Organization  string        `json:"organization"`
	MetAt         string        `json:"met_at"`
	Birthday      string        `json:"birthday" gorm:"type:varchar(10)"`
	Notes         string        `json:"notes" gorm:"type:text"`
	Twitter       string        `json:"twitter"`
	Instagram     string        `json:"instagram"`
	MaritalStatus MaritalStatus `json:"marital_status" gorm:"type:varchar(10)"`
	HasChildren   YesNo         `json:"has_children" gorm:"type:varchar(3)"`
	HasPets       YesNo         `json:"has_pets" gorm:"type:varchar(3)"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null;index"`

	// One-to-Many Relations
	Events []*Event        `json:"events,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Family []*FamilyMember `json:"family,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

// Event is one timeline entry owned by a person. Date is "YYYY-MM-DD";
// the fixed width makes lexicographic ordering equal to chronological.
type Event struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	PersonID uuid.UUID `json:"person_id" gorm:"not null;type:uuid;index:idx_events_person"`
	Date     string    `json:"date" gorm:"not null;type:varchar(10)"`
	Content  string    `json:"content" gorm:"not null;type:text"`
	ImageURL string    `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	// Foreign Key Relations
	Person *Person `json:"person,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

// FamilyMember is a one-directional annotation on its owning person:
// "PersonID has a family member named Name with relationship R".
// LinkedPersonID is a weak reference to a registered Person; nil marks a
// placeholder that a later registration may claim.
type FamilyMember struct {
	ID             uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	PersonID       uuid.UUID    `json:"person_id" gorm:"not null;type:uuid;index:idx_family_person"`
	Name           string       `json:"name" gorm:"not null"`
	Relationship   Relationship `json:"relationship" gorm:"not null;type:varchar(10)"`
	Birthday       string       `json:"birthday" gorm:"type:varchar(10)"`
	LinkedPersonID *uuid.UUID   `json:"linked_person_id,omitempty" gorm:"type:uuid;index:idx_family_linked"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`

	// Foreign Key Relations
	Person *Person `json:"person,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}
