package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// EventInput is the field set for appending a timeline entry. ImageURL
// is the locator returned by the asset host; the binary never reaches
// this layer.
type EventInput struct {
	Date     string
	Content  string
	ImageURL string
}

// EventUpdate is a partial replace. Nil fields keep their current value;
// in particular an absent image keeps the existing one.
type EventUpdate struct {
	Date     *string
	Content  *string
	ImageURL *string
}

func validateEventDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a YYYY-MM-DD calendar date"}
	}
	return nil
}

// EventStore manages the per-person timeline.
type EventStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventStore(db *gorm.DB, baseLog *logger.Logger) *EventStore {
	return &EventStore{db: db, log: baseLog.With("store", "event")}
}

// Add appends an event to a person's timeline and bumps the owner's
// updated_at.
func (s *EventStore) Add(ctx context.Context, personID uuid.UUID, in EventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if err := validateEventDate(in.Date); err != nil {
		return nil, err
	}
	ev := &models.Event{
		ID:       uuid.New(),
		PersonID: personID,
		Date:     in.Date,
		Content:  strings.TrimSpace(in.Content),
		ImageURL: in.ImageURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Person{}).Where("id = ?", personID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &NotFoundError{Resource: "person", ID: personID.String()}
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		return touchPerson(tx, personID)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Update partially replaces an event's fields and bumps the owner's
// updated_at.
func (s *EventStore) Update(ctx context.Context, eventID uuid.UUID, in EventUpdate) (*models.Event, error) {
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if in.Date != nil {
		if err := validateEventDate(*in.Date); err != nil {
			return nil, err
		}
	}
	var ev models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ev, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "event", ID: eventID.String()}
			}
			return err
		}
		if in.Date != nil {
			ev.Date = *in.Date
		}
		if in.Content != nil {
			ev.Content = strings.TrimSpace(*in.Content)
		}
		if in.ImageURL != nil {
			ev.ImageURL = *in.ImageURL
		}
		if err := tx.Save(&ev).Error; err != nil {
			return err
		}
		return touchPerson(tx, ev.PersonID)
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Delete removes one event. The owning person and everything else stay
// untouched apart from the updated_at bump.
func (s *EventStore) Delete(ctx context.Context, eventID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "event", ID: eventID.String()}
			}
			return err
		}
		if err := tx.Delete(&ev).Error; err != nil {
			return err
		}
		return touchPerson(tx, ev.PersonID)
	})
}

// ListForPerson returns a person's events newest-date first. Dates are
// fixed-width YYYY-MM-DD strings, so lexicographic descent is
// chronological descent.
func (s *EventStore) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*models.Event, error) {
	var events []*models.Event
	err := s.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("date DESC, created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
