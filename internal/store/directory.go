package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ymurata/peoplewiki/internal/birthday"
	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// Badge marks birthday proximity on listing rows.
type Badge string

const (
	BadgeToday Badge = "today"
	BadgeSoon  Badge = "soon"
	BadgeNone  Badge = ""
)

func badgeFor(days int) Badge {
	switch {
	case days == 0:
		return BadgeToday
	case days >= 1 && days <= 7:
		return BadgeSoon
	}
	return BadgeNone
}

// ListRow is one listing entry decorated with proximity data.
type ListRow struct {
	Person          *models.Person `json:"person"`
	BirthdayDisplay string         `json:"birthday_display,omitempty"`
	DaysUntil       *int           `json:"days_until_birthday,omitempty"`
	Badge           Badge          `json:"badge,omitempty"`
}

// Profile is the full composed view for one person.
type Profile struct {
	Person           *models.Person     `json:"person"`
	BirthdayDisplay  string             `json:"birthday_display,omitempty"`
	Age              *int               `json:"age,omitempty"`
	Events           []*models.Event    `json:"events"`
	Family           []FamilyMemberView `json:"family"`
	ReverseRelations []ReverseRelation  `json:"reverse_relations"`
}

// Directory composes the stores into the views the transport layer
// serves. It owns no state of its own.
type Directory struct {
	people *PersonStore
	events *EventStore
	family *FamilyGraph
	log    *logger.Logger
}

func NewDirectory(people *PersonStore, events *EventStore, family *FamilyGraph, baseLog *logger.Logger) *Directory {
	return &Directory{
		people: people,
		events: events,
		family: family,
		log:    baseLog.With("store", "directory"),
	}
}

// Listing returns the filtered, sorted people decorated with birthday
// display labels and badges.
func (d *Directory) Listing(ctx context.Context, filter string, mode SortMode, today time.Time) ([]ListRow, error) {
	people, err := d.people.List(ctx, filter, mode, today)
	if err != nil {
		return nil, err
	}
	rows := make([]ListRow, 0, len(people))
	for _, p := range people {
		row := ListRow{Person: p}
		if p.Birthday != "" {
			row.BirthdayDisplay = birthday.Display(p.Birthday)
			if days, ok := birthday.DaysUntilNext(p.Birthday, today); ok {
				dd := days
				row.DaysUntil = &dd
				row.Badge = badgeFor(days)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Profile assembles person, timeline, resolved family, and reverse
// relations for a detail view.
func (d *Directory) Profile(ctx context.Context, personID uuid.UUID, today time.Time) (*Profile, error) {
	p, err := d.people.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	events, err := d.events.ListForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	familyRows, err := d.family.ListForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	family := make([]FamilyMemberView, 0, len(familyRows))
	for _, fm := range familyRows {
		view, err := d.family.ResolveDisplay(ctx, fm, today)
		if err != nil {
			return nil, err
		}
		family = append(family, view)
	}
	reverse, err := d.family.ReverseRelations(ctx, personID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{
		Person:           p,
		Events:           events,
		Family:           family,
		ReverseRelations: reverse,
	}
	if p.Birthday != "" {
		profile.BirthdayDisplay = birthday.Display(p.Birthday)
		if age, ok := birthday.Age(p.Birthday, today); ok {
			profile.Age = &age
		}
	}
	return profile, nil
}

// RegisterFromFamilyMember runs the deferred-link protocol: create a
// full person from a placeholder's prefill data, then claim the
// placeholder. A claim that finds the placeholder already linked, or
// gone entirely, does not undo the registration; the new person simply
// stays unlinked.
func (d *Directory) RegisterFromFamilyMember(ctx context.Context, familyMemberID uuid.UUID, in PersonInput) (*models.Person, error) {
	p, err := d.people.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := d.family.Claim(ctx, familyMemberID, p.ID); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			d.log.Warn("placeholder vanished before claim, person left unlinked",
				"family_member_id", familyMemberID, "person_id", p.ID)
			return p, nil
		}
		return nil, err
	}
	return p, nil
}
