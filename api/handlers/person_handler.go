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

// PersonInput DTO shared by create and update.
type PersonInput struct {
	Name          string `json:"name" binding:"required"`
	Organization  string `json:"organization"`
	MetAt         string `json:"met_at"`
	Birthday      string `json:"birthday"`
	Notes         string `json:"notes"`
	Twitter       string `json:"twitter"`
	Instagram     string `json:"instagram"`
	MaritalStatus string `json:"marital_status"`
	HasChildren   string `json:"has_children"`
	HasPets       string `json:"has_pets"`

	// FamilyMemberID triggers the deferred-link protocol: after the
	// person is created, the referenced placeholder is claimed.
	FamilyMemberID string `json:"family_member_id"`
}

func (in *PersonInput) toStore() store.PersonInput {
	return store.PersonInput{
		Name:          in.Name,
		Organization:  in.Organization,
		MetAt:         in.MetAt,
		Birthday:      in.Birthday,
		Notes:         in.Notes,
		Twitter:       in.Twitter,
		Instagram:     in.Instagram,
		MaritalStatus: models.MaritalStatus(in.MaritalStatus),
		HasChildren:   models.YesNo(in.HasChildren),
		HasPets:       models.YesNo(in.HasPets),
	}
}

// PersonHandler serves the person CRUD and listing/profile reads.
type PersonHandler struct {
	people    *store.PersonStore
	directory *store.Directory
	log       *logger.Logger
}

func NewPersonHandler(people *store.PersonStore, directory *store.Directory, baseLog *logger.Logger) *PersonHandler {
	return &PersonHandler{
		people:    people,
		directory: directory,
		log:       baseLog.With("handler", "person"),
	}
}

// List serves the decorated listing. Query parameters: q (free-text
// filter), sort ("updated" or "birthday").
func (h *PersonHandler) List(c *gin.Context) {
	mode := store.SortMode(c.DefaultQuery("sort", string(store.SortUpdated)))
	if mode != store.SortBirthday {
		mode = store.SortUpdated
	}
	rows, err := h.directory.Listing(c.Request.Context(), c.Query("q"), mode, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": rows, "sort": mode})
}

// Create registers a new person. With family_member_id set it also runs
// the deferred-link claim against that placeholder.
func (h *PersonHandler) Create(c *gin.Context) {
	var input PersonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		person *models.Person
		err    error
	)
	if input.FamilyMemberID != "" {
		fmID, parseErr := uuid.Parse(input.FamilyMemberID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid family_member_id"})
			return
		}
		person, err = h.directory.RegisterFromFamilyMember(c.Request.Context(), fmID, input.toStore())
	} else {
		person, err = h.people.Create(c.Request.Context(), input.toStore())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

// Get returns one person's raw record.
func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	person, err := h.people.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// Update replaces a person's profile fields.
func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input PersonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	person, err := h.people.Update(c.Request.Context(), id, input.toStore())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// Delete removes a person and their owned events and family rows.
func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.people.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Person deleted successfully"})
}

// Profile returns the full composed detail view.
func (h *PersonHandler) Profile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	profile, err := h.directory.Profile(c.Request.Context(), id, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
