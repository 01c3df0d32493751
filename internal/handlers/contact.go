package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatroom-service/internal/contacts"
	"chatroom-service/internal/observability"
	"chatroom-service/internal/telemetry"
)

// ContactHandler manages the contact-messaging endpoints.
type ContactHandler struct {
	registry *contacts.Registry
	audit    *telemetry.AuditEmitter
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(registry *contacts.Registry, audit *telemetry.AuditEmitter) *ContactHandler {
	return &ContactHandler{registry: registry, audit: audit}
}

// ListContacts handles GET /contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.State())
}

// AddContact handles POST /contacts.
func (h *ContactHandler) AddContact(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.registry.Add(req.Name, req.PhoneNumber)
	switch {
	case errors.Is(err, contacts.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter both name and phone number."})
		return
	case errors.Is(err, contacts.ErrDuplicateContact):
		c.JSON(http.StatusConflict, gin.H{"error": "Contact already exists."})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add contact"})
		return
	}

	observability.AddContacts("manual", 1)
	setActor(c, contact.Name)
	h.emitAudit(c, "INFO", "Contact added")
	c.JSON(http.StatusCreated, gin.H{
		"contact":  contact,
		"contacts": h.registry.State().Contacts,
	})
}

// ImportContacts handles POST /contacts/import with a multipart "file" field.
func (h *ContactHandler) ImportContacts(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a CSV file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are accepted"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	result, err := contacts.ImportCSV(file, h.registry)
	observability.AddContacts("csv", len(result.Imported))
	observability.AddCSVRowsSkipped(len(result.Warnings))
	if err != nil {
		if errors.Is(err, contacts.ErrMissingColumns) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV needs columns with 'name' and 'phone' in their names."})
			return
		}
		log.Warn().Err(err).Str("file", header.Filename).Int("imported", len(result.Imported)).Msg("csv import failed")
		h.emitAudit(c, "ERROR", "csv import failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "CSV processing error: " + err.Error(),
			"imported": len(result.Imported),
			"warnings": result.Warnings,
		})
		return
	}

	h.emitAudit(c, "INFO", "Contacts imported")
	c.JSON(http.StatusOK, gin.H{
		"imported": len(result.Imported),
		"skipped":  result.Skipped,
		"warnings": result.Warnings,
		"contacts": h.registry.State().Contacts,
	})
}

// ContactMessages handles GET /contacts/:name/messages.
func (h *ContactHandler) ContactMessages(c *gin.Context) {
	msgs, err := h.registry.Messages(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendContactMessage handles POST /contacts/:name/messages.
func (h *ContactHandler) SendContactMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := c.Param("name")
	if _, err := h.registry.Send(name, req.Content); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, contacts.ErrEmptyMessage):
			status = http.StatusBadRequest
		case errors.Is(err, contacts.ErrUnknownContact):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	msgs, _ := h.registry.Messages(name)
	h.emitAudit(c, "INFO", "Contact message sent")
	c.JSON(http.StatusCreated, gin.H{"messages": msgs})
}

func (h *ContactHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), actorFromContext(c))
}
