package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/registry-backend/internal/apperr"
	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/match"
	"github.com/carebridge/registry-backend/internal/repos"
	"github.com/carebridge/registry-backend/internal/types"
)

type PatientService interface {
	// ResolveOrCreate inserts the patient and returns its new identity, or
	// returns uuid.Nil (and no error) when the duplicate scan found an
	// existing patient. The caller re-runs FindMatch to obtain the existing
	// identity for linking.
	ResolveOrCreate(ctx context.Context, data types.PatientData) (uuid.UUID, error)
	FindMatch(ctx context.Context, data types.PatientData) (uuid.UUID, error)
	GetByID(ctx context.Context, patientUUID uuid.UUID) (*types.Patient, error)
}

type patientService struct {
	patientRepo repos.PatientRepo
	matcher     *match.Matcher
	log         *logger.Logger
}

func NewPatientService(patientRepo repos.PatientRepo, matcher *match.Matcher, baseLog *logger.Logger) PatientService {
	serviceLog := baseLog.With("service", "PatientService")
	return &patientService{patientRepo: patientRepo, matcher: matcher, log: serviceLog}
}

func (ps *patientService) ResolveOrCreate(ctx context.Context, data types.PatientData) (uuid.UUID, error) {
	existingUUID, err := ps.FindMatch(ctx, data)
	if err != nil {
		return uuid.Nil, err
	}
	if existingUUID != uuid.Nil {
		ps.log.Warn("Potential duplicate found, skipping patient creation",
			"given_name", data.GivenName,
			"family_name", data.FamilyName,
			"patient_uuid", existingUUID.String(),
		)
		return uuid.Nil, nil
	}

	patient := &types.Patient{
		PatientUUID:   uuid.New(),
		GivenName:     data.GivenName,
		FamilyName:    data.FamilyName,
		DateOfBirth:   data.DateOfBirth,
		Gender:        data.Gender,
		DiagnosisType: data.DiagnosisType,
		CreationDate:  data.CreationDate,
		Age:           data.Age,
		AgeGroup:      data.AgeGroup,
		RegionID:      data.RegionID,
	}
	if err := ps.patientRepo.Create(ctx, nil, patient); err != nil {
		return uuid.Nil, apperr.Storage(fmt.Errorf("patient insert: %w", err))
	}

	ps.log.Info("New patient added",
		"given_name", data.GivenName,
		"family_name", data.FamilyName,
		"patient_uuid", patient.PatientUUID.String(),
	)
	return patient.PatientUUID, nil
}

// FindMatch runs the fuzzy duplicate scan against the entire stored
// population and returns the first qualifying patient's identity, or
// uuid.Nil when nothing qualifies.
func (ps *patientService) FindMatch(ctx context.Context, data types.PatientData) (uuid.UUID, error) {
	population, err := ps.patientRepo.ListAll(ctx, nil)
	if err != nil {
		return uuid.Nil, apperr.Storage(fmt.Errorf("patient population scan: %w", err))
	}
	if matched := ps.matcher.FindMatch(data, population); matched != nil {
		return matched.PatientUUID, nil
	}
	return uuid.Nil, nil
}

func (ps *patientService) GetByID(ctx context.Context, patientUUID uuid.UUID) (*types.Patient, error) {
	patient, err := ps.patientRepo.GetByID(ctx, nil, patientUUID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("patient lookup by uuid: %w", err))
	}
	if patient == nil {
		ps.log.Info("No patient found for uuid", "patient_uuid", patientUUID.String())
	}
	return patient, nil
}
