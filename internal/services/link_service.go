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

type LinkService interface {
	// CreateLink appends a typed edge between the two identities and returns
	// the new link UUID. Neither identity is existence-checked here:
	// referential integrity is the caller's job.
	CreateLink(ctx context.Context, contactUUID, patientUUID uuid.UUID, relationship string) (uuid.UUID, error)
}

type linkService struct {
	linkRepo repos.LinkRepo
	log      *logger.Logger
}

func NewLinkService(linkRepo repos.LinkRepo, baseLog *logger.Logger) LinkService {
	serviceLog := baseLog.With("service", "LinkService")
	return &linkService{linkRepo: linkRepo, log: serviceLog}
}

func (ls *linkService) CreateLink(ctx context.Context, contactUUID, patientUUID uuid.UUID, relationship string) (uuid.UUID, error) {
	link := &types.RelationshipLink{
		LinkUUID:     uuid.New(),
		Relationship: relationship,
		ContactUUID:  contactUUID,
		PatientUUID:  patientUUID,
	}
	if err := ls.linkRepo.Create(ctx, nil, link); err != nil {
		return uuid.Nil, apperr.Storage(fmt.Errorf("link insert: %w", err))
	}

	ls.log.Info("Linked contact to patient",
		"contact_uuid", contactUUID.String(),
		"patient_uuid", patientUUID.String(),
		"relationship", relationship,
		"link_uuid", link.LinkUUID.String(),
	)
	return link.LinkUUID, nil
}
