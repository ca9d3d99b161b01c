package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ymurata/peoplewiki/internal/birthday"
	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// SortMode selects the listing order.
type SortMode string

const (
	// SortUpdated orders by updated_at descending (default).
	SortUpdated SortMode = "updated"
	// SortBirthday orders by days until the next birthday, ascending,
	// with unranked entries last.
	SortBirthday SortMode = "birthday"
)

// PersonInput is the flat field set for creating or replacing a person.
type PersonInput struct {
	Name          string
	Organization  string
	MetAt         string
	Birthday      string
	Notes         string
	Twitter       string
	Instagram     string
	MaritalStatus models.MaritalStatus
	HasChildren   models.YesNo
	HasPets       models.YesNo
}

func (in *PersonInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !in.MaritalStatus.Valid() {
		return &ValidationError{Field: "marital_status", Reason: "unknown value"}
	}
	if !in.HasChildren.Valid() {
		return &ValidationError{Field: "has_children", Reason: "unknown value"}
	}
	if !in.HasPets.Valid() {
		return &ValidationError{Field: "has_pets", Reason: "unknown value"}
	}
	return nil
}

func (in *PersonInput) apply(p *models.Person) {
	p.Name = strings.TrimSpace(in.Name)
	p.Organization = strings.TrimSpace(in.Organization)
	p.MetAt = strings.TrimSpace(in.MetAt)
	p.Birthday = strings.TrimSpace(in.Birthday)
	p.Notes = strings.TrimSpace(in.Notes)
	p.Twitter = strings.TrimSpace(in.Twitter)
	p.Instagram = strings.TrimSpace(in.Instagram)
	p.MaritalStatus = in.MaritalStatus
	p.HasChildren = in.HasChildren
	p.HasPets = in.HasPets
}

// PersonStore provides CRUD and search/sort over people.
type PersonStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonStore(db *gorm.DB, baseLog *logger.Logger) *PersonStore {
	return &PersonStore{db: db, log: baseLog.With("store", "person")}
}

// Create validates the input and persists a new person.
func (s *PersonStore) Create(ctx context.Context, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.Person{ID: uuid.New()}
	in.apply(p)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	s.log.Info("person created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Update replaces every profile field of an existing person and bumps
// updated_at.
func (s *PersonStore) Update(ctx context.Context, id uuid.UUID, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the person along with its events and its own family
// rows. Family rows on other people that merely link here are kept; the
// link dangles and display resolution falls back to the stored snapshot.
// Deleting an unknown id is a no-op.
func (s *PersonStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", id).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.FamilyMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Person{}).Error
	})
}

// Get returns one person by id.
func (s *PersonStore) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var p models.Person
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "person", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns people matching the filter in the requested order.
// The filter is a case-insensitive substring OR across name,
// organization, and notes; empty means no filtering. Birthday ordering
// happens in memory so the proximity rule stays out of the SQL layer.
func (s *PersonStore) List(ctx context.Context, filter string, mode SortMode, today time.Time) ([]*models.Person, error) {
	q := s.db.WithContext(ctx).Model(&models.Person{})
	if f := strings.TrimSpace(filter); f != "" {
		like := "%" + strings.ToLower(f) + "%"
		q = q.Where(
			"lower(name) LIKE ? OR lower(organization) LIKE ? OR lower(notes) LIKE ?",
			like, like, like,
		)
	}
	if mode != SortBirthday {
		q = q.Order("updated_at DESC, id")
	}

	var people []*models.Person
	if err := q.Find(&people).Error; err != nil {
		return nil, err
	}

	if mode == SortBirthday {
		type ranked struct {
			days int
			ok   bool
		}
		ranks := make(map[uuid.UUID]ranked, len(people))
		for _, p := range people {
			days, ok := birthday.DaysUntilNext(p.Birthday, today)
			ranks[p.ID] = ranked{days: days, ok: ok}
		}
		sort.SliceStable(people, func(i, j int) bool {
			a, b := ranks[people[i].ID], ranks[people[j].ID]
			if a.ok != b.ok {
				return a.ok
			}
			if !a.ok {
				return false
			}
			return a.days < b.days
		})
	}
	return people, nil
}

// touchPerson bumps the owner's updated_at; owning an event or family
// row makes their mutations count as profile updates.
func touchPerson(tx *gorm.DB, personID uuid.UUID) error {
	return tx.Model(&models.Person{}).
		Where("id = ?", personID).
		Update("updated_at", time.Now()).Error
}
