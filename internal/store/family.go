package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ymurata/peoplewiki/internal/birthday"
	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// FamilyInput is the field set for adding a family member. A nil
// LinkedPersonID creates a placeholder that a later registration may
// claim through the deferred-link protocol.
type FamilyInput struct {
	Name           string
	Relationship   models.Relationship
	Birthday       string
	LinkedPersonID *uuid.UUID
}

// FamilyMemberView is a family row resolved for display. When the row
// links to a registered person, that person's live name and birthday
// take precedence over the snapshot stored at creation time.
type FamilyMemberView struct {
	ID              uuid.UUID           `json:"id"`
	PersonID        uuid.UUID           `json:"person_id"`
	Name            string              `json:"name"`
	Relationship    models.Relationship `json:"relationship"`
	Birthday        string              `json:"birthday,omitempty"`
	BirthdayDisplay string              `json:"birthday_display,omitempty"`
	Age             *int                `json:"age,omitempty"`
	LinkedPersonID  *uuid.UUID          `json:"linked_person_id,omitempty"`
}

// ReverseRelation is a family edge discovered by scanning for rows that
// link to a person, paired with the row's owner for "X lists you as
// their Y" annotations.
type ReverseRelation struct {
	Member *models.FamilyMember `json:"member"`
	Owner  *models.Person       `json:"owner"`
}

// FamilyGraph manages family rows and the linking protocol.
type FamilyGraph struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFamilyGraph(db *gorm.DB, baseLog *logger.Logger) *FamilyGraph {
	return &FamilyGraph{db: db, log: baseLog.With("store", "family")}
}

// Add creates a family row on a person and bumps the owner's updated_at.
// A linked person, when given, must exist and must not be the owner.
func (g *FamilyGraph) Add(ctx context.Context, personID uuid.UUID, in FamilyInput) (*models.FamilyMember, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !in.Relationship.Valid() {
		return nil, &ValidationError{Field: "relationship", Reason: "unknown value"}
	}
	if in.LinkedPersonID != nil && *in.LinkedPersonID == personID {
		return nil, &ValidationError{Field: "linked_person_id", Reason: "a person cannot link to themselves"}
	}
	fm := &models.FamilyMember{
		ID:             uuid.New(),
		PersonID:       personID,
		Name:           strings.TrimSpace(in.Name),
		Relationship:   in.Relationship,
		Birthday:       strings.TrimSpace(in.Birthday),
		LinkedPersonID: in.LinkedPersonID,
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Person{}).Where("id = ?", personID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &NotFoundError{Resource: "person", ID: personID.String()}
		}
		if in.LinkedPersonID != nil {
			if err := tx.Model(&models.Person{}).Where("id = ?", *in.LinkedPersonID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return &ValidationError{Field: "linked_person_id", Reason: "no such person"}
			}
		}
		if err := tx.Create(fm).Error; err != nil {
			return err
		}
		return touchPerson(tx, personID)
	})
	if err != nil {
		return nil, err
	}
	return fm, nil
}

// Get returns one family row, e.g. as prefill data for registering a
// placeholder as a full person.
func (g *FamilyGraph) Get(ctx context.Context, id uuid.UUID) (*models.FamilyMember, error) {
	var fm models.FamilyMember
	err := g.db.WithContext(ctx).First(&fm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "family member", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &fm, nil
}

// Delete removes one family row and bumps the owner's updated_at. The
// linked person, if any, is never touched.
func (g *FamilyGraph) Delete(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fm models.FamilyMember
		if err := tx.First(&fm, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "family member", ID: id.String()}
			}
			return err
		}
		if err := tx.Delete(&fm).Error; err != nil {
			return err
		}
		return touchPerson(tx, fm.PersonID)
	})
}

// Claim back-fills linked_person_id on a placeholder row. The write is
// conditional on the link still being unset, so concurrent claims
// serialize in the store: the first writer wins and every later claim is
// a silent no-op. There is no reverse transition; a link only goes away
// with the row itself.
func (g *FamilyGraph) Claim(ctx context.Context, familyMemberID, personID uuid.UUID) error {
	fm, err := g.Get(ctx, familyMemberID)
	if err != nil {
		return err
	}
	if fm.PersonID == personID {
		return &ValidationError{Field: "linked_person_id", Reason: "a person cannot link to themselves"}
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FamilyMember{}).
			Where("id = ? AND linked_person_id IS NULL", familyMemberID).
			Update("linked_person_id", personID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race (or the row was already linked); not an error.
			g.log.Info("claim skipped, placeholder already linked", "family_member_id", familyMemberID)
			return nil
		}
		return touchPerson(tx, fm.PersonID)
	})
}

// ReverseRelations returns every family row across the store that links
// to the given person, paired with its owner.
func (g *FamilyGraph) ReverseRelations(ctx context.Context, personID uuid.UUID) ([]ReverseRelation, error) {
	var rows []*models.FamilyMember
	err := g.db.WithContext(ctx).
		Where("linked_person_id = ?", personID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	relations := make([]ReverseRelation, 0, len(rows))
	for _, fm := range rows {
		var owner models.Person
		if err := g.db.WithContext(ctx).First(&owner, "id = ?", fm.PersonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		relations = append(relations, ReverseRelation{Member: fm, Owner: &owner})
	}
	return relations, nil
}

// ListForPerson returns a person's own family rows in creation order.
func (g *FamilyGraph) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*models.FamilyMember, error) {
	var rows []*models.FamilyMember
	err := g.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ResolveDisplay builds the display view for one family row. A dangling
// link (the linked person was deleted) falls back to the stored
// snapshot rather than failing.
func (g *FamilyGraph) ResolveDisplay(ctx context.Context, fm *models.FamilyMember, today time.Time) (FamilyMemberView, error) {
	view := FamilyMemberView{
		ID:           fm.ID,
		PersonID:     fm.PersonID,
		Name:         fm.Name,
		Relationship: fm.Relationship,
		Birthday:     fm.Birthday,
	}
	if fm.LinkedPersonID != nil {
		var linked models.Person
		err := g.db.WithContext(ctx).First(&linked, "id = ?", *fm.LinkedPersonID).Error
		switch {
		case err == nil:
			view.LinkedPersonID = fm.LinkedPersonID
			view.Name = linked.Name
			if linked.Birthday != "" {
				view.Birthday = linked.Birthday
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Dangling link; keep the snapshot.
		default:
			return FamilyMemberView{}, err
		}
	}
	if view.Birthday != "" {
		view.BirthdayDisplay = birthday.Display(view.Birthday)
		if age, ok := birthday.Age(view.Birthday, today); ok {
			view.Age = &age
		}
	}
	return view, nil
}
