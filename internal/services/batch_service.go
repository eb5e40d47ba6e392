package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridge/registry-backend/internal/apperr"
	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

type BatchService interface {
	ProcessRow(ctx context.Context, row types.BatchRow) types.RowOutcome
	ProcessBatch(ctx context.Context, rows []types.BatchRow) []types.RowOutcome
}

type batchService struct {
	contacts ContactService
	patients PatientService
	links    LinkService
	log      *logger.Logger
}

func NewBatchService(contacts ContactService, patients PatientService, links LinkService, baseLog *logger.Logger) BatchService {
	serviceLog := baseLog.With("service", "BatchService")
	return &batchService{contacts: contacts, patients: patients, links: links, log: serviceLog}
}

// ProcessRow drives one row through resolve-contact, resolve-patient and
// create-link. Every failure terminates the row, never the batch; the three
// stages commit independently, so a failure mid-row can leave an unlinked
// contact behind (accepted, not rolled back).
func (bs *batchService) ProcessRow(ctx context.Context, row types.BatchRow) types.RowOutcome {
	outcome := types.RowOutcome{}

	contactUUID, err := bs.contacts.ResolveOrCreate(ctx, row.Contact)
	if err != nil {
		bs.log.Error("Contact resolution failed", "email", row.Contact.Email, "error", err)
		outcome.Status = types.RowFailed
		outcome.Err = err
		return outcome
	}
	outcome.ContactUUID = contactUUID

	patientUUID, err := bs.patients.ResolveOrCreate(ctx, row.Patient)
	if err != nil {
		bs.log.Error("Patient resolution failed",
			"given_name", row.Patient.GivenName,
			"error", err,
		)
		outcome.Status = types.RowFailed
		outcome.Err = err
		return outcome
	}
	if patientUUID == uuid.Nil {
		// Duplicate: re-run the scan to recover the existing identity.
		patientUUID, err = bs.patients.FindMatch(ctx, row.Patient)
		if err != nil {
			outcome.Status = types.RowFailed
			outcome.Err = err
			return outcome
		}
		if patientUUID == uuid.Nil {
			// The store reported a duplicate but the re-scan cannot relocate
			// it. Soft-skip the row; it is never retried.
			bs.log.Warn("Duplicate reported but no patient relocated, skipping link",
				"email", row.Contact.Email,
				"given_name", row.Patient.GivenName,
			)
			outcome.Status = types.RowSkippedNoPatient
			outcome.Err = apperr.New(apperr.CodeInconsistentMatch, nil)
			return outcome
		}
		bs.log.Info("Using existing patient identity", "patient_uuid", patientUUID.String())
	}
	outcome.PatientUUID = patientUUID

	linkUUID, err := bs.links.CreateLink(ctx, contactUUID, patientUUID, row.Relationship)
	if err != nil {
		bs.log.Error("Link creation failed",
			"contact_uuid", contactUUID.String(),
			"patient_uuid", patientUUID.String(),
			"error", err,
		)
		outcome.Status = types.RowFailed
		outcome.Err = err
		return outcome
	}
	outcome.LinkUUID = linkUUID
	outcome.Status = types.RowLinked
	return outcome
}

// ProcessBatch walks the rows strictly in input order, one at a time, and
// returns one outcome per row. A bad row is recorded and the batch moves on.
func (bs *batchService) ProcessBatch(ctx context.Context, rows []types.BatchRow) []types.RowOutcome {
	bs.log.Info("Starting batch processing of contacts and patients", "rows", len(rows))

	outcomes := make([]types.RowOutcome, 0, len(rows))
	for i, row := range rows {
		bs.log.Info("Processing row",
			"row", i+1,
			"email", row.Contact.Email,
			"given_name", row.Patient.GivenName,
		)
		outcome := bs.ProcessRow(ctx, row)
		outcome.Row = i + 1
		outcomes = append(outcomes, outcome)
	}

	summary := types.Summarize(outcomes)
	bs.log.Info("Batch processing completed",
		"total", summary.Total,
		"linked", summary.Linked,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return outcomes
}
