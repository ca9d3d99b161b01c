package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
	"github.com/ymurata/peoplewiki/internal/store"
)

// FamilyHandler serves family rows and the deferred-link prefill.
type FamilyHandler struct {
	family *store.FamilyGraph
	log    *logger.Logger
}

func NewFamilyHandler(family *store.FamilyGraph, baseLog *logger.Logger) *FamilyHandler {
	return &FamilyHandler{family: family, log: baseLog.With("handler", "family")}
}

// CreateFamilyMemberInput DTO for adding a family member.
type CreateFamilyMemberInput struct {
	Name           string `json:"name" binding:"required"`
	Relationship   string `json:"relationship" binding:"required"`
	Birthday       string `json:"birthday"`
	LinkedPersonID string `json:"linked_person_id"`
}

// Create adds a family member to a person, optionally linked to an
// already-registered person.
func (h *FamilyHandler) Create(c *gin.Context) {
	personID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input CreateFamilyMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := store.FamilyInput{
		Name:         input.Name,
		Relationship: models.Relationship(input.Relationship),
		Birthday:     input.Birthday,
	}
	if input.LinkedPersonID != "" {
		linkedID, err := uuid.Parse(input.LinkedPersonID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linked_person_id"})
			return
		}
		in.LinkedPersonID = &linkedID
	}
	member, err := h.family.Add(c.Request.Context(), personID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// Delete removes one family row. The linked person, if any, is kept.
func (h *FamilyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.family.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Family member deleted successfully"})
}

// ListForPerson returns a person's family resolved for display.
func (h *FamilyHandler) ListForPerson(c *gin.Context) {
	personID, ok := parseID(c, "id")
	if !ok {
		return
	}
	rows, err := h.family.ListForPerson(c.Request.Context(), personID)
	if err != nil {
		respondError(c, err)
		return
	}
	today := time.Now()
	views := make([]store.FamilyMemberView, 0, len(rows))
	for _, fm := range rows {
		view, err := h.family.ResolveDisplay(c.Request.Context(), fm, today)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"family": views})
}

// ClaimPrefill returns the data a "register as full person" form is
// seeded with: the placeholder's id, name, and birthday.
func (h *FamilyHandler) ClaimPrefill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fm, err := h.family.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"family_member_id": fm.ID,
		"name":             fm.Name,
		"birthday":         fm.Birthday,
		"already_linked":   fm.LinkedPersonID != nil,
	})
}
