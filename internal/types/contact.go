package types

import (
	"github.com/google/uuid"
)

// Contact is a guardian/caregiver record. Email is the natural key: the
// registry keeps at most one contact per email value.
type Contact struct {
	ContactUUID            uuid.UUID `gorm:"type:uuid;primaryKey;column:contact_uuid" json:"contact_uuid"`
	GuardianName           string    `gorm:"not null;column:guardian_name" json:"guardian_name"`
	Email                  string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	ResidesInTargetCountry bool      `gorm:"column:resides_in_target_country" json:"resides_in_target_country"`
	Country                string    `gorm:"column:country" json:"country"`
	CreationDate           string    `gorm:"column:creation_date" json:"creation_date"`
	RegionID               string    `gorm:"column:region_id" json:"region_id"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ContactData carries the incoming row fields before an identity exists.
type ContactData struct {
	GuardianName           string
	Email                  string
	ResidesInTargetCountry bool
	Country                string
	CreationDate           string
	RegionID               string
}
