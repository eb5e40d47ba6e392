package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/registry-backend/internal/types"
)

// In-memory repo fakes. They preserve insertion order, which the patient
// duplicate scan depends on.

type fakeContactRepo struct {
	rows      []*types.Contact
	createErr error
	lookupErr error
}

func (f *fakeContactRepo) Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
	if f.createErr != nil {
		return f.createErr
	}
	c := *contact
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeContactRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Contact, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, c := range f.rows {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) (*types.Contact, error) {
	for _, c := range f.rows {
		if c.ContactUUID == contactUUID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) Update(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID, fields map[string]interface{}) error {
	for _, c := range f.rows {
		if c.ContactUUID == contactUUID {
			if v, ok := fields["guardian_name"].(string); ok {
				c.GuardianName = v
			}
			if v, ok := fields["country"].(string); ok {
				c.Country = v
			}
		}
	}
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) error {
	kept := f.rows[:0]
	for _, c := range f.rows {
		if c.ContactUUID != contactUUID {
			kept = append(kept, c)
		}
	}
	f.rows = kept
	return nil
}

type fakePatientRepo struct {
	rows      []*types.Patient
	createErr error
}

func (f *fakePatientRepo) Create(ctx context.Context, tx *gorm.DB, patient *types.Patient) error {
	if f.createErr != nil {
		return f.createErr
	}
	p := *patient
	f.rows = append(f.rows, &p)
	return nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, tx *gorm.DB, patientUUID uuid.UUID) (*types.Patient, error) {
	for _, p := range f.rows {
		if p.PatientUUID == patientUUID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Patient, error) {
	out := make([]*types.Patient, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

type fakeLinkRepo struct {
	rows      []*types.RelationshipLink
	createErr error
}

func (f *fakeLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.RelationshipLink) error {
	if f.createErr != nil {
		return f.createErr
	}
	l := *link
	f.rows = append(f.rows, &l)
	return nil
}

type fakeCache struct {
	entries map[string]uuid.UUID
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]uuid.UUID{}}
}

func (f *fakeCache) GetContactUUID(ctx context.Context, email string) (uuid.UUID, bool) {
	f.gets++
	id, ok := f.entries[email]
	if ok {
		f.hits++
	}
	return id, ok
}

func (f *fakeCache) SetContactUUID(ctx context.Context, email string, contactUUID uuid.UUID) {
	f.entries[email] = contactUUID
}

func (f *fakeCache) InvalidateContact(ctx context.Context, email string) {
	delete(f.entries, email)
}

// stubPatientService scripts the duplicate path for orchestrator tests.
type stubPatientService struct {
	resolveUUID uuid.UUID
	resolveErr  error
	matchUUID   uuid.UUID
	matchErr    error
}

func (s *stubPatientService) ResolveOrCreate(ctx context.Context, data types.PatientData) (uuid.UUID, error) {
	return s.resolveUUID, s.resolveErr
}

func (s *stubPatientService) FindMatch(ctx context.Context, data types.PatientData) (uuid.UUID, error) {
	return s.matchUUID, s.matchErr
}

func (s *stubPatientService) GetByID(ctx context.Context, patientUUID uuid.UUID) (*types.Patient, error) {
	return nil, nil
}
