package storage

import (
	"context"
	"errors"

	"github.com/reddyfit/bodyscan/internal/models"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Store defines the storage interface. Scans are insert-only and keyed
// by (user_id, scan_id); a correction means a new scan, never an
// update.
type Store interface {
	// Scan operations
	SaveScan(ctx context.Context, scan *models.ScanResult) error
	GetScan(ctx context.Context, userID, scanID string) (*models.ScanResult, error)
	GetScanHistory(ctx context.Context, userID string, limit int) ([]*models.ScanResult, error)
	GetLatestScan(ctx context.Context, userID string) (*models.ScanResult, error)
	FindScansByHash(ctx context.Context, compositionHash string) ([]*models.ScanResult, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)

	// Close connection
	Close() error
}
