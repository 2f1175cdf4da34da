package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/jsonfile"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// ContactService handles address book operations
type ContactService struct {
	contactRepo ports.ContactRepository
	logger      *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(contactRepo ports.ContactRepository, logger *logger.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger.WithComponent("contacts"),
	}
}

// CreateContact validates the form and appends a new contact
func (s *ContactService) CreateContact(ctx context.Context, req ports.CreateContactRequest) (*entities.Contact, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	contact := &entities.Contact{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.LogRecordChange("contacts", "create", contact.ID, map[string]interface{}{"name": contact.Name})

	return contact, nil
}

// GetContact resolves a selector to a contact
func (s *ContactService) GetContact(ctx context.Context, selector string) (*entities.Contact, error) {
	list, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	idx, err := resolveSelector(contactIDs(list), selector, entities.ErrContactNotFound)
	if err != nil {
		return nil, err
	}

	return &list[idx], nil
}

// UpdateContact replaces every field of the selected contact
func (s *ContactService) UpdateContact(ctx context.Context, selector string, req ports.UpdateContactRequest) (*entities.Contact, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.GetContact(ctx, selector)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.Notes = req.Notes

	if err := s.contactRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	s.logger.LogRecordChange("contacts", "update", existing.ID, nil)

	return existing, nil
}

// DeleteContact removes the selected contact and returns it
func (s *ContactService) DeleteContact(ctx context.Context, selector string) (*entities.Contact, error) {
	existing, err := s.GetContact(ctx, selector)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.Delete(ctx, existing.ID); err != nil {
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	s.logger.LogRecordChange("contacts", "delete", existing.ID, nil)

	return existing, nil
}

// ListContacts returns all contacts matching the filter
func (s *ContactService) ListContacts(ctx context.Context, filter ports.ContactFilter) ([]entities.Contact, error) {
	list, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return FilterContacts(list, filter.Search), nil
}

// ExportContacts writes the whole address book to path. The format follows
// the extension: .yaml/.yml for YAML, anything else for JSON.
func (s *ContactService) ExportContacts(ctx context.Context, path string) (int, error) {
	data, n, err := s.ExportData(ctx, formatFor(path))
	if err != nil {
		return 0, err
	}

	if err := jsonfile.WriteAtomic(path, data); err != nil {
		return 0, fmt.Errorf("failed to export contacts: %w", err)
	}

	s.logger.Infow("Contacts exported", "path", path, "count", n)

	return n, nil
}

// ExportData renders the address book in the given format ("json" or "yaml")
func (s *ContactService) ExportData(ctx context.Context, format string) ([]byte, int, error) {
	list, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	var data []byte
	switch format {
	case "yaml":
		data, err = yaml.Marshal(list)
	default:
		data, err = jsonfile.EncodeList(list)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode contacts: %w", err)
	}

	return data, len(list), nil
}

// ImportContacts appends every contact found in the file at path
func (s *ContactService) ImportContacts(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to import contacts: %w", err)
	}

	contacts, err := decodeContacts(data, formatFor(path))
	if err != nil {
		return 0, err
	}

	return s.importContacts(ctx, contacts, path)
}

// ImportContactsData appends every contact found in a JSON document
func (s *ContactService) ImportContactsData(ctx context.Context, data []byte) (int, error) {
	contacts, err := decodeContacts(data, "json")
	if err != nil {
		return 0, err
	}

	return s.importContacts(ctx, contacts, "request")
}

func (s *ContactService) importContacts(ctx context.Context, contacts []entities.Contact, source string) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	n, err := s.contactRepo.CreateMany(ctx, contacts)
	if err != nil {
		return 0, fmt.Errorf("failed to import contacts: %w", err)
	}

	s.logger.Infow("Contacts imported", "source", source, "count", n)

	return n, nil
}

// decodeContacts accepts only a list document; anything else is
// ErrInvalidFormat and nothing is imported.
func decodeContacts(data []byte, format string) ([]entities.Contact, error) {
	if format == "yaml" {
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrInvalidFormat, err)
		}
		if len(node.Content) == 0 {
			return []entities.Contact{}, nil
		}
		if node.Content[0].Kind != yaml.SequenceNode {
			return nil, entities.ErrInvalidFormat
		}
		var contacts []entities.Contact
		if err := node.Content[0].Decode(&contacts); err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrInvalidFormat, err)
		}
		return contacts, nil
	}

	contacts, err := jsonfile.DecodeList[entities.Contact](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidFormat, err)
	}
	return contacts, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// IsNotFound reports whether err means the selected record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrContactNotFound) || errors.Is(err, entities.ErrTaskNotFound)
}
