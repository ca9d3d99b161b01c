package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ymurata/peoplewiki/internal/models"
)

func TestPersonCreateValidation(t *testing.T) {
	s := NewPersonStore(testDB(t), testLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		in    PersonInput
		field string
	}{
		{"empty name", PersonInput{Name: ""}, "name"},
		{"whitespace name", PersonInput{Name: "   "}, "name"},
		{"bad marital status", PersonInput{Name: "Taro", MaritalStatus: "divorced?"}, "marital_status"},
		{"bad has_children", PersonInput{Name: "Taro", HasChildren: "maybe"}, "has_children"},
		{"bad has_pets", PersonInput{Name: "Taro", HasPets: "dog"}, "has_pets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	p, err := s.Create(ctx, PersonInput{
		Name:          "  Taro  ",
		Organization:  "Acme",
		MaritalStatus: models.MaritalStatusMarried,
		HasPets:       models.YesNoYes,
	})
	if err != nil {
		t.Fatalf("Create() valid input: %v", err)
	}
	if p.Name != "Taro" {
		t.Errorf("name not trimmed: %q", p.Name)
	}
	if p.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestPersonUpdate(t *testing.T) {
	db := testDB(t)
	s := NewPersonStore(db, testLogger())
	ctx := context.Background()

	_, err := s.Update(ctx, uuid.New(), PersonInput{Name: "Nobody"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Update() unknown id error = %v, want NotFoundError", err)
	}

	p := mustCreatePerson(t, s, PersonInput{Name: "Taro", Organization: "Acme"})
	backdate(t, db, p.ID, time.Hour)
	before := personUpdatedAt(t, db, p.ID)

	updated, err := s.Update(ctx, p.ID, PersonInput{Name: "Taro Yamada", Birthday: "1990-06-15"})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if updated.Name != "Taro Yamada" || updated.Birthday != "1990-06-15" {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if updated.Organization != "" {
		t.Errorf("update is a full replace, organization should be cleared, got %q", updated.Organization)
	}
	if !personUpdatedAt(t, db, p.ID).After(before) {
		t.Error("updated_at did not advance")
	}
}

func TestPersonListFilter(t *testing.T) {
	s := NewPersonStore(testDB(t), testLogger())
	ctx := context.Background()
	now := time.Now()

	mustCreatePerson(t, s, PersonInput{Name: "Taro Yamada", Organization: "Acme Corp"})
	mustCreatePerson(t, s, PersonInput{Name: "Hanako Sato", Notes: "met at an ACME meetup"})
	mustCreatePerson(t, s, PersonInput{Name: "Jiro Suzuki"})

	all, err := s.List(ctx, "", SortUpdated, now)
	if err != nil {
		t.Fatalf("List(): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("empty filter returned %d people, want 3", len(all))
	}

	matched, err := s.List(ctx, "aCmE", SortUpdated, now)
	if err != nil {
		t.Fatalf("List(filter): %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("filter matched %d people, want 2 (name OR organization OR notes)", len(matched))
	}
	for _, p := range matched {
		if p.Name == "Jiro Suzuki" {
			t.Error("filter matched a person with no occurrence")
		}
	}

	none, err := s.List(ctx, "no such person", SortUpdated, now)
	if err != nil {
		t.Fatalf("List(miss): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("miss filter returned %d people, want 0", len(none))
	}
}

func TestPersonListSortUpdated(t *testing.T) {
	db := testDB(t)
	s := NewPersonStore(db, testLogger())

	oldest := mustCreatePerson(t, s, PersonInput{Name: "Oldest"})
	middle := mustCreatePerson(t, s, PersonInput{Name: "Middle"})
	newest := mustCreatePerson(t, s, PersonInput{Name: "Newest"})
	backdate(t, db, oldest.ID, 3*time.Hour)
	backdate(t, db, middle.ID, 2*time.Hour)
	backdate(t, db, newest.ID, time.Hour)

	people, err := s.List(context.Background(), "", SortUpdated, time.Now())
	if err != nil {
		t.Fatalf("List(): %v", err)
	}
	got := []string{people[0].Name, people[1].Name, people[2].Name}
	want := []string{"Newest", "Middle", "Oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("updated sort order = %v, want %v", got, want)
		}
	}
}

func TestPersonListSortBirthday(t *testing.T) {
	s := NewPersonStore(testDB(t), testLogger())
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	mustCreatePerson(t, s, PersonInput{Name: "NoBirthday"})
	mustCreatePerson(t, s, PersonInput{Name: "NextWeek", Birthday: "1990-06-22"})
	mustCreatePerson(t, s, PersonInput{Name: "Invalid", Birthday: "junk"})
	mustCreatePerson(t, s, PersonInput{Name: "Today", Birthday: "1985-06-15"})
	mustCreatePerson(t, s, PersonInput{Name: "NextMonth", Birthday: "2000-07-15"})

	people, err := s.List(context.Background(), "", SortBirthday, today)
	if err != nil {
		t.Fatalf("List(): %v", err)
	}
	if len(people) != 5 {
		t.Fatalf("got %d people, want 5", len(people))
	}
	wantOrder := []string{"Today", "NextWeek", "NextMonth"}
	for i, want := range wantOrder {
		if people[i].Name != want {
			t.Errorf("position %d = %q, want %q", i, people[i].Name, want)
		}
	}
	// Unranked entries come last, in their stable original order.
	for _, p := range people[3:] {
		if p.Name != "NoBirthday" && p.Name != "Invalid" {
			t.Errorf("ranked person %q sorted after unranked entries", p.Name)
		}
	}
}

func TestPersonDeleteCascade(t *testing.T) {
	db := testDB(t)
	people := NewPersonStore(db, testLogger())
	events := NewEventStore(db, testLogger())
	family := NewFamilyGraph(db, testLogger())
	ctx := context.Background()

	victim := mustCreatePerson(t, people, PersonInput{Name: "Victim"})
	bystander := mustCreatePerson(t, people, PersonInput{Name: "Bystander"})

	if _, err := events.Add(ctx, victim.ID, EventInput{Date: "2023-05-01", Content: "Met for coffee"}); err != nil {
		t.Fatalf("add event: %v", err)
	}
	if _, err := family.Add(ctx, victim.ID, FamilyInput{Name: "Mother", Relationship: models.RelationshipMother}); err != nil {
		t.Fatalf("add family: %v", err)
	}
	// Someone else links to the victim; that row must survive.
	inbound, err := family.Add(ctx, bystander.ID, FamilyInput{
		Name:           "Victim",
		Relationship:   models.RelationshipSibling,
		LinkedPersonID: &victim.ID,
	})
	if err != nil {
		t.Fatalf("add inbound link: %v", err)
	}

	if err := people.Delete(ctx, victim.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}

	if _, err := people.Get(ctx, victim.ID); err == nil {
		t.Fatal("victim still present after delete")
	}
	var eventCount, ownedFamilyCount int64
	db.Model(&models.Event{}).Where("person_id = ?", victim.ID).Count(&eventCount)
	db.Model(&models.FamilyMember{}).Where("person_id = ?", victim.ID).Count(&ownedFamilyCount)
	if eventCount != 0 || ownedFamilyCount != 0 {
		t.Errorf("cascade incomplete: %d events, %d owned family rows remain", eventCount, ownedFamilyCount)
	}

	survivor, err := family.Get(ctx, inbound.ID)
	if err != nil {
		t.Fatalf("inbound family row was deleted with the linked person: %v", err)
	}
	// The dangling link resolves from the snapshot without failing.
	view, err := family.ResolveDisplay(ctx, survivor, time.Now())
	if err != nil {
		t.Fatalf("ResolveDisplay() on dangling link: %v", err)
	}
	if view.Name != "Victim" {
		t.Errorf("dangling link display name = %q, want snapshot %q", view.Name, "Victim")
	}
	if view.LinkedPersonID != nil {
		t.Error("dangling link should not present itself as resolved")
	}

	// ReverseRelations for the deleted id no longer yields an owner pair
	// for rows the victim owned; the inbound row's owner is the bystander.
	relations, err := family.ReverseRelations(ctx, victim.ID)
	if err != nil {
		t.Fatalf("ReverseRelations(): %v", err)
	}
	for _, rel := range relations {
		if rel.Owner.ID != bystander.ID {
			t.Errorf("unexpected reverse relation owner %v", rel.Owner.ID)
		}
	}

	// Deleting an unknown id is a no-op, not an error.
	if err := people.Delete(ctx, uuid.New()); err != nil {
		t.Errorf("Delete(unknown) = %v, want nil", err)
	}
}
