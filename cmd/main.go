package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carebridge/registry-backend/internal/clients/redis"
	"github.com/carebridge/registry-backend/internal/db"
	"github.com/carebridge/registry-backend/internal/ingestion"
	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/match"
	"github.com/carebridge/registry-backend/internal/platform/sendgrid"
	"github.com/carebridge/registry-backend/internal/repos"
	"github.com/carebridge/registry-backend/internal/services"
	"github.com/carebridge/registry-backend/internal/types"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Println("usage: registry-batch <input_file.csv|.xlsx>")
		os.Exit(1)
	}
	inputFile := os.Args[1]

	// Database: opened once, held for the run, released at the end. A
	// connection-level failure here is fatal to the whole batch.
	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	defer func() {
		if err := dbService.Close(); err != nil {
			log.Warn("Database close failed", "error", err)
		} else {
			log.Info("Database connection closed")
		}
	}()
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database migration failed", "error", err)
	}
	gdb := dbService.DB()

	// Optional resolve cache
	var resolveCache services.ResolveCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		cache, err := redis.NewResolveCache(log)
		if err != nil {
			log.Warn("Resolve cache unavailable, continuing without it", "error", err)
		} else {
			defer cache.Close()
			resolveCache = cache
		}
	}

	// Repos
	log.Info("Setting up repos...")
	contactRepo := repos.NewContactRepo(gdb, log)
	patientRepo := repos.NewPatientRepo(gdb, log)
	linkRepo := repos.NewLinkRepo(gdb, log)

	// Services
	log.Info("Setting up services...")
	matcher := match.NewMatcher(log)
	contactService := services.NewContactService(contactRepo, resolveCache, log)
	patientService := services.NewPatientService(patientRepo, matcher, log)
	linkService := services.NewLinkService(linkRepo, log)
	batchService := services.NewBatchService(contactService, patientService, linkService, log)

	// Ingest
	reader := ingestion.NewReader(log)
	rows, err := reader.ReadRows(inputFile)
	if err != nil {
		log.Fatal("Failed to read input file", "path", inputFile, "error", err)
	}

	// Process
	ctx := context.Background()
	outcomes := batchService.ProcessBatch(ctx, rows)
	summary := types.Summarize(outcomes)

	for _, o := range outcomes {
		if o.Status == types.RowFailed {
			log.Warn("Row failed", "row", o.Row, "error", o.Err)
		}
	}

	// Optional summary notification
	notifySummary(ctx, log, inputFile, summary)

	if summary.Failed > 0 {
		os.Exit(2)
	}
}

func notifySummary(ctx context.Context, log *logger.Logger, inputFile string, summary types.BatchSummary) {
	to := strings.TrimSpace(os.Getenv("SUMMARY_EMAIL_TO"))
	if to == "" || strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")) == "" {
		log.Debug("Summary email not configured, skipping")
		return
	}

	mailer, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("Summary mailer unavailable", "error", err)
		return
	}

	body := fmt.Sprintf(
		"Batch load of %s finished.\n\nTotal rows: %d\nLinked: %d\nSkipped (no patient): %d\nFailed: %d\n",
		inputFile, summary.Total, summary.Linked, summary.Skipped, summary.Failed,
	)
	res, err := mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: to}},
		Subject: "Registry batch load summary",
		Text:    body,
	})
	if err != nil {
		log.Warn("Summary email failed", "error", err)
		return
	}
	log.Info("Summary email sent", "status_code", res.StatusCode)
}
