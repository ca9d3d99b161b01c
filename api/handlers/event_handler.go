package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ymurata/peoplewiki/internal/pkg/logger"
	"github.com/ymurata/peoplewiki/internal/storage"
	"github.com/ymurata/peoplewiki/internal/store"
)

// EventHandler serves the per-person timeline. Image binaries go to the
// asset host; only the returned locator is stored, and a failed upload
// aborts the whole create/update.
type EventHandler struct {
	events   *store.EventStore
	uploader storage.Uploader
	log      *logger.Logger
}

func NewEventHandler(events *store.EventStore, uploader storage.Uploader, baseLog *logger.Logger) *EventHandler {
	return &EventHandler{
		events:   events,
		uploader: uploader,
		log:      baseLog.With("handler", "event"),
	}
}

// CreateEventInput DTO for the JSON variant of event creation.
type CreateEventInput struct {
	Date    string `json:"date" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// uploadFromForm sends the "image" form file, if any, to the asset host
// and returns its locator. A missing file yields "" with no error.
func (h *EventHandler) uploadFromForm(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", &store.ValidationError{Field: "image", Reason: err.Error()}
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", &store.ValidationError{Field: "image", Reason: err.Error()}
	}
	defer f.Close()
	url, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		return "", &store.UploadError{Err: err}
	}
	return url, nil
}

// Create appends an event. Accepts JSON {date, content} or a multipart
// form with date, content, and an optional image file. Nothing is
// persisted when a requested upload fails.
func (h *EventHandler) Create(c *gin.Context) {
	personID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in store.EventInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in.Date = c.PostForm("date")
		in.Content = c.PostForm("content")
		url, err := h.uploadFromForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		in.ImageURL = url
	} else {
		var input CreateEventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.Date = input.Date
		in.Content = input.Content
	}

	event, err := h.events.Add(c.Request.Context(), personID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEventInput DTO for the JSON variant of event update.
type UpdateEventInput struct {
	Date    *string `json:"date"`
	Content *string `json:"content"`
}

// Update partially replaces an event. A multipart request may carry a
// replacement image; leaving it out keeps the existing one.
func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in store.EventUpdate
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if v, exists := c.GetPostForm("date"); exists {
			in.Date = &v
		}
		if v, exists := c.GetPostForm("content"); exists {
			in.Content = &v
		}
		url, err := h.uploadFromForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if url != "" {
			in.ImageURL = &url
		}
	} else {
		var input UpdateEventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.Date = input.Date
		in.Content = input.Content
	}

	event, err := h.events.Update(c.Request.Context(), eventID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete removes one event.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), eventID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ListForPerson returns a person's timeline newest-first.
func (h *EventHandler) ListForPerson(c *gin.Context) {
	personID, ok := parseID(c, "id")
	if !ok {
		return
	}
	events, err := h.events.ListForPerson(c.Request.Context(), personID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
