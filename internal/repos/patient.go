package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

type PatientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, patient *types.Patient) error
	GetByID(ctx context.Context, tx *gorm.DB, patientUUID uuid.UUID) (*types.Patient, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Patient, error)
}

type patientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	repoLog := baseLog.With("repo", "PatientRepo")
	return &patientRepo{db: db, log: repoLog}
}

func (pr *patientRepo) Create(ctx context.Context, tx *gorm.DB, patient *types.Patient) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Create(patient).Error
}

func (pr *patientRepo) GetByID(ctx context.Context, tx *gorm.DB, patientUUID uuid.UUID) (*types.Patient, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Patient
	err := transaction.WithContext(ctx).
		Where("patient_uuid = ?", patientUUID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ListAll returns the whole patient population in storage order. The
// duplicate scan walks this list front to back and stops at the first hit,
// so the ordering is part of the matching contract.
func (pr *patientRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Patient, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Patient
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
