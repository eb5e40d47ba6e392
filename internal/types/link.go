package types

import (
	"github.com/google/uuid"
)

// RelationshipLink is an append-only typed edge between a contact and a
// patient. The referenced UUIDs are not FK-enforced: deleting a contact
// leaves its links in place, and a contact/patient pair may carry several
// links with different relationship labels.
type RelationshipLink struct {
	LinkUUID     uuid.UUID `gorm:"type:uuid;primaryKey;column:link_uuid" json:"link_uuid"`
	Relationship string    `gorm:"column:relationship" json:"relationship"`
	ContactUUID  uuid.UUID `gorm:"type:uuid;index;column:contact_uuid" json:"contact_uuid"`
	PatientUUID  uuid.UUID `gorm:"type:uuid;index;column:patient_uuid" json:"patient_uuid"`
}

func (RelationshipLink) TableName() string {
	return "link_table"
}
