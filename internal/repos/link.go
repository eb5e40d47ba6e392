package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

type LinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.RelationshipLink) error
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	repoLog := baseLog.With("repo", "LinkRepo")
	return &linkRepo{db: db, log: repoLog}
}

func (lr *linkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.RelationshipLink) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).Create(link).Error
}
