// Package storage persists analysis results so completed reports can be
// fetched again by ID. Two backends exist: a local disk store with TTL-based
// cleanup and an S3-compatible object store.
package storage

import (
	"context"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// ReportStore persists analysis results keyed by their ID.
type ReportStore interface {
	// Save persists a result. An existing report with the same ID is
	// overwritten.
	Save(ctx context.Context, result *analysis.Result) error

	// Load fetches a report by ID; missing reports yield CodeNotFound.
	Load(ctx context.Context, id string) (*analysis.Result, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources and stops background cleanup.
	Close() error
}

// NewReportStore builds the store selected by config.
func NewReportStore(ctx context.Context, cfg config.StorageConfig, logger logging.Logger) (ReportStore, error) {
	switch cfg.Backend {
	case "disk":
		return NewDiskStore(cfg.Dir, cfg.TTL, logger)
	case "minio":
		return NewMinIOStore(ctx, cfg.MinIO, logger)
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidParam,
			"unknown storage backend %q; expected disk or minio", cfg.Backend)
	}
}
