package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/match"
	"github.com/carebridge/registry-backend/internal/types"
)

type batchFixture struct {
	contactRepo *fakeContactRepo
	patientRepo *fakePatientRepo
	linkRepo    *fakeLinkRepo
	contacts    ContactService
	batch       BatchService
}

func newBatchFixture() *batchFixture {
	log := logger.NewNop()
	f := &batchFixture{
		contactRepo: &fakeContactRepo{},
		patientRepo: &fakePatientRepo{},
		linkRepo:    &fakeLinkRepo{},
	}
	f.contacts = NewContactService(f.contactRepo, nil, log)
	patients := NewPatientService(f.patientRepo, match.NewMatcher(log), log)
	links := NewLinkService(f.linkRepo, log)
	f.batch = NewBatchService(f.contacts, patients, links, log)
	return f
}

func rowAna(guardian, given string) types.BatchRow {
	return types.BatchRow{
		Contact: types.ContactData{
			GuardianName: guardian,
			Email:        "ana@x.com",
			Country:      "ES",
			CreationDate: "2024-03-01",
			RegionID:     "ES51",
		},
		Patient: types.PatientData{
			GivenName:    given,
			FamilyName:   "Garcia",
			DateOfBirth:  "2015-01-01",
			Gender:       "F",
			CreationDate: "2024-03-01",
			RegionID:     "ES51",
		},
		Relationship: "Mother",
	}
}

func TestProcessBatch_SharedContactAndFuzzyDuplicatePatient(t *testing.T) {
	f := newBatchFixture()

	rows := []types.BatchRow{rowAna("Ana", "PatientA"), rowAna("Ana2", "PatientA2")}
	outcomes := f.batch.ProcessBatch(context.Background(), rows)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	first, second := outcomes[0], outcomes[1]

	if first.Status != types.RowLinked || second.Status != types.RowLinked {
		t.Fatalf("expected both rows linked, got %s and %s", first.Status, second.Status)
	}
	if first.ContactUUID == uuid.Nil || first.PatientUUID == uuid.Nil || first.LinkUUID == uuid.Nil {
		t.Fatalf("expected full identities on row 1: %+v", first)
	}
	if second.ContactUUID != first.ContactUUID {
		t.Fatalf("row 2 must reuse the contact identity (same email)")
	}
	if second.PatientUUID != first.PatientUUID {
		t.Fatalf("row 2 must reuse the patient identity (fuzzy duplicate)")
	}
	if second.LinkUUID == first.LinkUUID {
		t.Fatalf("each row must create its own link")
	}

	if len(f.contactRepo.rows) != 1 {
		t.Fatalf("expected 1 contact row, got %d", len(f.contactRepo.rows))
	}
	if len(f.patientRepo.rows) != 1 {
		t.Fatalf("expected 1 patient row, got %d", len(f.patientRepo.rows))
	}
	if len(f.linkRepo.rows) != 2 {
		t.Fatalf("expected 2 link rows, got %d", len(f.linkRepo.rows))
	}
}

func TestProcessBatch_BadRowDoesNotAbortTheBatch(t *testing.T) {
	f := newBatchFixture()

	bad := rowAna("Ana", "PatientA")
	bad.Contact.Email = ""
	good := rowAna("Berta", "PatientB")
	good.Contact.Email = "berta@x.com"
	good.Patient.FamilyName = "Ruiz"

	outcomes := f.batch.ProcessBatch(context.Background(), []types.BatchRow{bad, good})

	if len(outcomes) != 2 {
		t.Fatalf("expected outcomes for every row, got %d", len(outcomes))
	}
	if outcomes[0].Status != types.RowFailed {
		t.Fatalf("expected row 1 failed, got %s", outcomes[0].Status)
	}
	if outcomes[0].Err == nil {
		t.Fatalf("failed row must carry its error")
	}
	if outcomes[1].Status != types.RowLinked {
		t.Fatalf("expected row 2 linked, got %s", outcomes[1].Status)
	}

	summary := types.Summarize(outcomes)
	if summary.Failed != 1 || summary.Linked != 1 || summary.Total != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestProcessRow_SkippedWhenDuplicateCannotBeRelocated(t *testing.T) {
	log := logger.NewNop()
	contactRepo := &fakeContactRepo{}
	contacts := NewContactService(contactRepo, nil, log)
	links := NewLinkService(&fakeLinkRepo{}, log)
	// The store reports a duplicate (nil identity) but the re-scan cannot
	// relocate it: the inconsistent-but-possible case.
	patients := &stubPatientService{resolveUUID: uuid.Nil, matchUUID: uuid.Nil}
	batch := NewBatchService(contacts, patients, links, log)

	outcome := batch.ProcessRow(context.Background(), rowAna("Ana", "PatientA"))
	if outcome.Status != types.RowSkippedNoPatient {
		t.Fatalf("expected skipped_no_patient, got %s", outcome.Status)
	}
	if outcome.ContactUUID == uuid.Nil {
		t.Fatalf("the contact stage committed and its identity must be reported")
	}
	if outcome.LinkUUID != uuid.Nil {
		t.Fatalf("no link may be created without a patient identity")
	}
}

func TestProcessRow_PartialFailureLeavesContactBehind(t *testing.T) {
	log := logger.NewNop()
	contactRepo := &fakeContactRepo{}
	linkRepo := &fakeLinkRepo{createErr: contextCanceledErr{}}
	contacts := NewContactService(contactRepo, nil, log)
	patients := NewPatientService(&fakePatientRepo{}, match.NewMatcher(log), log)
	batch := NewBatchService(contacts, patients, NewLinkService(linkRepo, log), log)

	outcome := batch.ProcessRow(context.Background(), rowAna("Ana", "PatientA"))
	if outcome.Status != types.RowFailed {
		t.Fatalf("expected failed row, got %s", outcome.Status)
	}
	// The earlier stages are not rolled back.
	if len(contactRepo.rows) != 1 {
		t.Fatalf("contact created before the failing link stage must remain")
	}
}

func TestLinkIndependence_DeletingContactKeepsLink(t *testing.T) {
	f := newBatchFixture()
	ctx := context.Background()

	outcome := f.batch.ProcessRow(ctx, rowAna("Ana", "PatientA"))
	if outcome.Status != types.RowLinked {
		t.Fatalf("expected linked row, got %s", outcome.Status)
	}

	if err := f.contacts.Delete(ctx, outcome.ContactUUID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.contactRepo.rows) != 0 {
		t.Fatalf("expected contact row removed")
	}
	if len(f.linkRepo.rows) != 1 {
		t.Fatalf("link referencing the deleted contact must survive, got %d links", len(f.linkRepo.rows))
	}
	if f.linkRepo.rows[0].ContactUUID != outcome.ContactUUID {
		t.Fatalf("surviving link must still reference the deleted contact identity")
	}
}
