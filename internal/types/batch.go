package types

import (
	"github.com/google/uuid"
)

// BatchRow is one already-parsed input record: the guardian fields, the
// patient fields and the relationship label between them.
type BatchRow struct {
	Contact      ContactData
	Patient      PatientData
	Relationship string
}

type RowStatus string

const (
	RowLinked           RowStatus = "linked"
	RowSkippedNoPatient RowStatus = "skipped_no_patient"
	RowFailed           RowStatus = "failed"
)

// RowOutcome is the terminal state of one processed row. Err is set for
// RowFailed and, as a soft marker, for RowSkippedNoPatient; the UUIDs are
// filled as far as the row got before stopping.
type RowOutcome struct {
	Row         int       `json:"row"`
	Status      RowStatus `json:"status"`
	ContactUUID uuid.UUID `json:"contact_uuid,omitempty"`
	PatientUUID uuid.UUID `json:"patient_uuid,omitempty"`
	LinkUUID    uuid.UUID `json:"link_uuid,omitempty"`
	Err         error     `json:"-"`
}

// BatchSummary aggregates the outcome list for the end-of-run log line and
// the optional notification email.
type BatchSummary struct {
	Total   int `json:"total"`
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func Summarize(outcomes []RowOutcome) BatchSummary {
	s := BatchSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case RowLinked:
			s.Linked++
		case RowSkippedNoPatient:
			s.Skipped++
		case RowFailed:
			s.Failed++
		}
	}
	return s
}
