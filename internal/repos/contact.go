package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Contact, error)
	GetByID(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) (*types.Contact, error)
	Update(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	repoLog := baseLog.With("repo", "ContactRepo")
	return &contactRepo{db: db, log: repoLog}
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Create(contact).Error
}

// GetByEmail returns (nil, nil) on a miss: an unknown email is a normal
// lookup result, not an error.
func (cr *contactRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contact
	err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *contactRepo) GetByID(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contact
	err := transaction.WithContext(ctx).
		Where("contact_uuid = ?", contactUUID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Update applies a partial field update by identity. An unknown UUID updates
// zero rows without error; callers that care must check existence first.
func (cr *contactRepo) Update(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Contact{}).
		Where("contact_uuid = ?", contactUUID).
		Updates(fields).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, contactUUID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("contact_uuid = ?", contactUUID).
		Delete(&types.Contact{}).Error
}
