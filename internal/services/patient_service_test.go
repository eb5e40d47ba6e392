package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/match"
	"github.com/carebridge/registry-backend/internal/types"
)

func patientAData() types.PatientData {
	return types.PatientData{
		GivenName:     "PatientA",
		FamilyName:    "Garcia Lopez",
		DateOfBirth:   "2015-01-01",
		Gender:        "F",
		DiagnosisType: "classic",
		CreationDate:  "2024-03-01",
		Age:           9,
		AgeGroup:      "5-10",
		RegionID:      "ES51",
	}
}

func newPatientService(repo *fakePatientRepo) PatientService {
	return NewPatientService(repo, match.NewMatcher(logger.NewNop()), logger.NewNop())
}

func TestPatientResolveOrCreate_NewPatient(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)

	id, err := svc.ResolveOrCreate(context.Background(), patientAData())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("expected a new identity for an empty store")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one stored row, got %d", len(repo.rows))
	}
}

func TestPatientResolveOrCreate_DuplicateReturnsNilIdentity(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)
	ctx := context.Background()

	first, err := svc.ResolveOrCreate(ctx, patientAData())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Near-identical name, same DOB and gender: the scan must flag it and
	// the store must signal "duplicate, not created" with a nil identity.
	near := patientAData()
	near.GivenName = "PatientA2"
	id, err := svc.ResolveOrCreate(ctx, near)
	if err != nil {
		t.Fatalf("duplicate resolve failed: %v", err)
	}
	if id != uuid.Nil {
		t.Fatalf("expected nil identity for a duplicate, got %s", id)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("duplicate must not create a second row, got %d", len(repo.rows))
	}

	matched, err := svc.FindMatch(ctx, near)
	if err != nil {
		t.Fatalf("re-match failed: %v", err)
	}
	if matched != first {
		t.Fatalf("re-match must relocate the original identity, got %s want %s", matched, first)
	}
}

func TestPatientResolveOrCreate_DifferentDOBCreatesNewRow(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)
	ctx := context.Background()

	if _, err := svc.ResolveOrCreate(ctx, patientAData()); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	sibling := patientAData()
	sibling.DateOfBirth = "2017-06-30"
	id, err := svc.ResolveOrCreate(ctx, sibling)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("same name with different DOB must not be treated as a duplicate")
	}
	if len(repo.rows) != 2 {
		t.Fatalf("expected two stored rows, got %d", len(repo.rows))
	}
}

func TestPatientGetByID_MissIsNotAnError(t *testing.T) {
	svc := newPatientService(&fakePatientRepo{})

	patient, err := svc.GetByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("lookup miss must not error: %v", err)
	}
	if patient != nil {
		t.Fatalf("expected empty result, got %+v", patient)
	}
}
