package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// maxImportBytes caps the body accepted by the import endpoint
const maxImportBytes = 1 << 20

// ContactHandler handles address book requests
type ContactHandler struct {
	contactService ports.ContactService
	logger         *logger.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService ports.ContactService, logger *logger.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ListContacts godoc
// @Summary List contacts
// @Description Lists contacts in insertion order, optionally filtered by a case-insensitive name or phone substring
// @Tags contacts
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} entities.Contact
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c echo.Context) error {
	filter := ports.ContactFilter{Search: c.QueryParam("q")}

	contacts, err := h.contactService.ListContacts(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contacts)
}

// CreateContact godoc
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body ports.CreateContactRequest true "Contact data"
// @Success 201 {object} entities.Contact
// @Failure 400 {object} ports.ErrorResponse
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req ports.CreateContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	contact, err := h.contactService.CreateContact(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, contact)
}

// GetContact returns the contact matching the :id selector
func (h *ContactHandler) GetContact(c echo.Context) error {
	contact, err := h.contactService.GetContact(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contact)
}

// UpdateContact replaces all fields of the selected contact
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	var req ports.UpdateContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	contact, err := h.contactService.UpdateContact(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contact)
}

// DeleteContact removes the selected contact
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	contact, err := h.contactService.DeleteContact(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Deleted contact " + contact.Name})
}

// ExportContacts streams the whole address book as JSON or, with
// ?format=yaml, as YAML.
func (h *ContactHandler) ExportContacts(c echo.Context) error {
	format := c.QueryParam("format")
	contentType := echo.MIMEApplicationJSONCharsetUTF8
	if format == "yaml" || format == "yml" {
		format = "yaml"
		contentType = "application/yaml"
	}

	data, _, err := h.contactService.ExportData(c.Request().Context(), format)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, contentType, data)
}

// ImportContacts appends the contacts in a JSON array body
func (h *ContactHandler) ImportContacts(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(body) > maxImportBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Import body too large")
	}

	n, err := h.contactService.ImportContactsData(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.CountResponse{Count: n})
}
