package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
	"github.com/carebridge/registry-backend/internal/utils"
)

// Service owns the single database handle for a batch run. It is opened once
// in the entrypoint and shared by every repo; there is no per-row connection
// management.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService connects according to DB_DRIVER: "sqlite" (the default, matching
// the file-backed registry this tool grew up on) or "postgres".
func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := utils.GetEnv("DB_DRIVER", "sqlite", log)

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "registry", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "registry.db", log)
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	log.Info("Connecting to database...", "driver", driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll creates the three registry tables. No FK constraints are
// added on link_table: links must survive deletion of the contact they
// reference, so referential integrity stays with the callers.
func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating registry tables...")
	err := s.db.AutoMigrate(
		&types.Contact{},
		&types.Patient{},
		&types.RelationshipLink{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for registry tables", "error", err)
		return err
	}
	return nil
}

// DropAll removes the three registry tables, link table first. Used by the
// create_tables tool to reset a registry file before a full reload.
func (s *Service) DropAll() error {
	s.log.Warn("Dropping registry tables...")
	return s.db.Migrator().DropTable(
		&types.RelationshipLink{},
		&types.Contact{},
		&types.Patient{},
	)
}

// Close releases the underlying connection at the end of a batch run.
func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
