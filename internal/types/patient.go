package types

import (
	"github.com/google/uuid"
)

// Patient has no natural key. Uniqueness is approximated by the fuzzy
// duplicate scan in internal/match; near-duplicates below the threshold can
// still produce separate rows.
//
// DateOfBirth and CreationDate stay strings: the duplicate scan compares
// birth dates by exact string equality, so no parsing may happen on the way
// in or out of storage.
type Patient struct {
	PatientUUID   uuid.UUID `gorm:"type:uuid;primaryKey;column:patient_uuid" json:"patient_uuid"`
	GivenName     string    `gorm:"column:given_name" json:"given_name"`
	FamilyName    string    `gorm:"column:family_name" json:"family_name"`
	DateOfBirth   string    `gorm:"column:date_of_birth" json:"date_of_birth"`
	Gender        string    `gorm:"column:gender" json:"gender"`
	DiagnosisType string    `gorm:"column:diagnosis_type" json:"diagnosis_type"`
	CreationDate  string    `gorm:"column:creation_date" json:"creation_date"`
	Age           int       `gorm:"column:age" json:"age"`
	AgeGroup      string    `gorm:"column:age_group" json:"age_group"`
	RegionID      string    `gorm:"column:region_id" json:"region_id"`
}

func (Patient) TableName() string {
	return "patients"
}

// PatientData carries the incoming row fields before an identity exists.
type PatientData struct {
	GivenName     string
	FamilyName    string
	DateOfBirth   string
	Gender        string
	DiagnosisType string
	CreationDate  string
	Age           int
	AgeGroup      string
	RegionID      string
}
