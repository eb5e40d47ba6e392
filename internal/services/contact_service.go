package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/registry-backend/internal/apperr"
	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/repos"
	"github.com/carebridge/registry-backend/internal/types"
)

// ResolveCache is an optional accelerator mapping email to an already
// resolved contact identity. A nil cache is valid; cache errors are treated
// as misses and never fail a resolve.
type ResolveCache interface {
	GetContactUUID(ctx context.Context, email string) (uuid.UUID, bool)
	SetContactUUID(ctx context.Context, email string, contactUUID uuid.UUID)
	InvalidateContact(ctx context.Context, email string)
}

type ContactService interface {
	// ResolveOrCreate returns the canonical identity for the email: the
	// existing contact's UUID when one is stored, otherwise the UUID of the
	// row it just created.
	ResolveOrCreate(ctx context.Context, data types.ContactData) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*types.Contact, error)
	GetByID(ctx context.Context, contactUUID uuid.UUID) (*types.Contact, error)
	Update(ctx context.Context, contactUUID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, contactUUID uuid.UUID) error
}

type contactService struct {
	contactRepo repos.ContactRepo
	cache       ResolveCache
	log         *logger.Logger
}

func NewContactService(contactRepo repos.ContactRepo, cache ResolveCache, baseLog *logger.Logger) ContactService {
	serviceLog := baseLog.With("service", "ContactService")
	return &contactService{contactRepo: contactRepo, cache: cache, log: serviceLog}
}

func (cs *contactService) ResolveOrCreate(ctx context.Context, data types.ContactData) (uuid.UUID, error) {
	if cs.cache != nil && data.Email != "" {
		if cached, ok := cs.cache.GetContactUUID(ctx, data.Email); ok {
			cs.log.Debug("Contact resolved from cache", "email", data.Email)
			return cached, nil
		}
	}

	existing, err := cs.contactRepo.GetByEmail(ctx, nil, data.Email)
	if err != nil {
		return uuid.Nil, apperr.Storage(fmt.Errorf("contact lookup by email: %w", err))
	}
	if existing != nil {
		cs.log.Info("Duplicate contact found, reusing identity",
			"email", data.Email,
			"contact_uuid", existing.ContactUUID.String(),
		)
		if cs.cache != nil {
			cs.cache.SetContactUUID(ctx, data.Email, existing.ContactUUID)
		}
		return existing.ContactUUID, nil
	}

	if data.GuardianName == "" {
		return uuid.Nil, apperr.Validation("contact field guardian_name is missing or empty")
	}
	if data.Email == "" {
		return uuid.Nil, apperr.Validation("contact field email is missing or empty")
	}

	contact := &types.Contact{
		ContactUUID:            uuid.New(),
		GuardianName:           data.GuardianName,
		Email:                  data.Email,
		ResidesInTargetCountry: data.ResidesInTargetCountry,
		Country:                data.Country,
		CreationDate:           data.CreationDate,
		RegionID:               data.RegionID,
	}
	if err := cs.contactRepo.Create(ctx, nil, contact); err != nil {
		return uuid.Nil, apperr.Storage(fmt.Errorf("contact insert: %w", err))
	}

	cs.log.Info("New contact added",
		"guardian_name", data.GuardianName,
		"email", data.Email,
		"contact_uuid", contact.ContactUUID.String(),
	)
	if cs.cache != nil {
		cs.cache.SetContactUUID(ctx, data.Email, contact.ContactUUID)
	}
	return contact.ContactUUID, nil
}

func (cs *contactService) GetByEmail(ctx context.Context, email string) (*types.Contact, error) {
	contact, err := cs.contactRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("contact lookup by email: %w", err))
	}
	if contact == nil {
		cs.log.Info("No contact found for email", "email", email)
	}
	return contact, nil
}

func (cs *contactService) GetByID(ctx context.Context, contactUUID uuid.UUID) (*types.Contact, error) {
	contact, err := cs.contactRepo.GetByID(ctx, nil, contactUUID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("contact lookup by uuid: %w", err))
	}
	if contact == nil {
		cs.log.Info("No contact found for uuid", "contact_uuid", contactUUID.String())
	}
	return contact, nil
}

// Update applies a partial update by identity. An unknown UUID silently
// updates zero rows; callers must check existence when they need to.
func (cs *contactService) Update(ctx context.Context, contactUUID uuid.UUID, fields map[string]interface{}) error {
	if err := cs.contactRepo.Update(ctx, nil, contactUUID, fields); err != nil {
		return apperr.Storage(fmt.Errorf("contact update: %w", err))
	}
	cs.log.Info("Contact updated", "contact_uuid", contactUUID.String())
	return nil
}

// Delete removes the contact row only. Links referencing the contact stay in
// place; orphaned links are an accepted consequence.
func (cs *contactService) Delete(ctx context.Context, contactUUID uuid.UUID) error {
	if cs.cache != nil {
		if existing, err := cs.contactRepo.GetByID(ctx, nil, contactUUID); err == nil && existing != nil {
			cs.cache.InvalidateContact(ctx, existing.Email)
		}
	}
	if err := cs.contactRepo.Delete(ctx, nil, contactUUID); err != nil {
		return apperr.Storage(fmt.Errorf("contact delete: %w", err))
	}
	cs.log.Info("Contact deleted", "contact_uuid", contactUUID.String())
	return nil
}
