package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/models"
)

// SQLiteStore implements storage using SQLite (for local/development)
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// Enable foreign keys and WAL mode for better concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	// Initialize schema
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		uid TEXT PRIMARY KEY,
		email TEXT,
		age INTEGER,
		gender TEXT,
		height_cm REAL,
		weight_kg REAL,
		activity_level TEXT,
		fitness_goal TEXT,
		total_scans INTEGER DEFAULT 0,
		last_scan_at DATETIME,
		whoop_connected INTEGER DEFAULT 0,
		whoop_user_id TEXT
	);

	CREATE TABLE IF NOT EXISTS scans (
		scan_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		body_signature_id TEXT NOT NULL,
		composition_hash TEXT NOT NULL,
		body_type TEXT,
		body_fat_percent REAL,
		aesthetic_score REAL,
		timestamp DATETIME NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (user_id, scan_id)
	);

	CREATE INDEX IF NOT EXISTS idx_scans_user_time ON scans(user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_scans_hash ON scans(composition_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Scan operations

func (s *SQLiteStore) SaveScan(ctx context.Context, scan *models.ScanResult) error {
	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("marshal scan: %w", err)
	}

	query := `
		INSERT INTO scans
		(scan_id, user_id, body_signature_id, composition_hash,
		 body_type, body_fat_percent, aesthetic_score, timestamp, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		scan.ScanID, scan.UserID, scan.BodySignatureID, scan.CompositionHash,
		scan.AestheticScore.BodyType, scan.Measurements.BodyFatPercent,
		scan.AestheticScore.OverallScore, scan.Timestamp, string(payload))
	if err != nil {
		return fmt.Errorf("save scan: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"scan_id": scan.ScanID,
		"user_id": scan.UserID,
	}).Debug("Scan persisted")

	return nil
}

func (s *SQLiteStore) GetScan(ctx context.Context, userID, scanID string) (*models.ScanResult, error) {
	var payload string
	query := `SELECT payload FROM scans WHERE user_id = ? AND scan_id = ?`

	err := s.db.GetContext(ctx, &payload, query, userID, scanID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return unmarshalScan(payload)
}

func (s *SQLiteStore) GetScanHistory(ctx context.Context, userID string, limit int) ([]*models.ScanResult, error) {
	if limit <= 0 {
		limit = 50
	}

	var payloads []string
	query := `SELECT payload FROM scans WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`

	err := s.db.SelectContext(ctx, &payloads, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return unmarshalScans(payloads)
}

func (s *SQLiteStore) GetLatestScan(ctx context.Context, userID string) (*models.ScanResult, error) {
	var payload string
	query := `SELECT payload FROM scans WHERE user_id = ? ORDER BY timestamp DESC LIMIT 1`

	err := s.db.GetContext(ctx, &payload, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return unmarshalScan(payload)
}

func (s *SQLiteStore) FindScansByHash(ctx context.Context, compositionHash string) ([]*models.ScanResult, error) {
	var payloads []string
	query := `SELECT payload FROM scans WHERE composition_hash = ?`

	err := s.db.SelectContext(ctx, &payloads, query, compositionHash)
	if err != nil {
		return nil, err
	}

	return unmarshalScans(payloads)
}

// Profile operations

func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT OR REPLACE INTO profiles
		(uid, email, age, gender, height_cm, weight_kg, activity_level,
		 fitness_goal, total_scans, last_scan_at, whoop_connected, whoop_user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.UID, profile.Email, profile.Age, profile.Gender,
		profile.HeightCm, profile.WeightKg, profile.ActivityLevel,
		profile.FitnessGoal, profile.TotalScans, profile.LastScanAt,
		profile.WhoopConnected, profile.WhoopUserID)

	return err
}

func (s *SQLiteStore) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	query := `SELECT * FROM profiles WHERE uid = ?`

	err := s.db.GetContext(ctx, &profile, query, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func unmarshalScan(payload string) (*models.ScanResult, error) {
	var scan models.ScanResult
	if err := json.Unmarshal([]byte(payload), &scan); err != nil {
		return nil, fmt.Errorf("unmarshal scan: %w", err)
	}
	return &scan, nil
}

func unmarshalScans(payloads []string) ([]*models.ScanResult, error) {
	scans := make([]*models.ScanResult, 0, len(payloads))
	for _, p := range payloads {
		scan, err := unmarshalScan(p)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, nil
}
