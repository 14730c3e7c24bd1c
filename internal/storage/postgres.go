package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/models"
)

// PostgresStore implements storage using PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		uid TEXT PRIMARY KEY,
		email TEXT,
		age INTEGER,
		gender TEXT,
		height_cm DOUBLE PRECISION,
		weight_kg DOUBLE PRECISION,
		activity_level TEXT,
		fitness_goal TEXT,
		total_scans INTEGER DEFAULT 0,
		last_scan_at TIMESTAMPTZ,
		whoop_connected BOOLEAN DEFAULT FALSE,
		whoop_user_id TEXT
	);

	CREATE TABLE IF NOT EXISTS scans (
		scan_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		body_signature_id TEXT NOT NULL,
		composition_hash TEXT NOT NULL,
		body_type TEXT,
		body_fat_percent DOUBLE PRECISION,
		aesthetic_score DOUBLE PRECISION,
		timestamp TIMESTAMPTZ NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (user_id, scan_id)
	);

	CREATE INDEX IF NOT EXISTS idx_scans_user_time ON scans(user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_scans_hash ON scans(composition_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Scan operations

func (s *PostgresStore) SaveScan(ctx context.Context, scan *models.ScanResult) error {
	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("marshal scan: %w", err)
	}

	query := `
		INSERT INTO scans
		(scan_id, user_id, body_signature_id, composition_hash,
		 body_type, body_fat_percent, aesthetic_score, timestamp, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		scan.ScanID, scan.UserID, scan.BodySignatureID, scan.CompositionHash,
		scan.AestheticScore.BodyType, scan.Measurements.BodyFatPercent,
		scan.AestheticScore.OverallScore, scan.Timestamp, payload)
	if err != nil {
		return fmt.Errorf("save scan: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetScan(ctx context.Context, userID, scanID string) (*models.ScanResult, error) {
	var payload string
	query := `SELECT payload FROM scans WHERE user_id = $1 AND scan_id = $2`

	err := s.db.GetContext(ctx, &payload, query, userID, scanID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}

	return unmarshalScan(payload)
}

func (s *PostgresStore) GetScanHistory(ctx context.Context, userID string, limit int) ([]*models.ScanResult, error) {
	if limit <= 0 {
		limit = 50
	}

	var payloads []string
	query := `SELECT payload FROM scans WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`

	err := s.db.SelectContext(ctx, &payloads, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get scan history: %w", err)
	}

	return unmarshalScans(payloads)
}

func (s *PostgresStore) GetLatestScan(ctx context.Context, userID string) (*models.ScanResult, error) {
	var payload string
	query := `SELECT payload FROM scans WHERE user_id = $1 ORDER BY timestamp DESC LIMIT 1`

	err := s.db.GetContext(ctx, &payload, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest scan: %w", err)
	}

	return unmarshalScan(payload)
}

func (s *PostgresStore) FindScansByHash(ctx context.Context, compositionHash string) ([]*models.ScanResult, error) {
	var payloads []string
	query := `SELECT payload FROM scans WHERE composition_hash = $1`

	err := s.db.SelectContext(ctx, &payloads, query, compositionHash)
	if err != nil {
		return nil, fmt.Errorf("find scans by hash: %w", err)
	}

	return unmarshalScans(payloads)
}

// Profile operations

func (s *PostgresStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO profiles (uid, email, age, gender, height_cm, weight_kg,
			activity_level, fitness_goal, total_scans, last_scan_at,
			whoop_connected, whoop_user_id)
		VALUES (:uid, :email, :age, :gender, :height_cm, :weight_kg,
			:activity_level, :fitness_goal, :total_scans, :last_scan_at,
			:whoop_connected, :whoop_user_id)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			fitness_goal = EXCLUDED.fitness_goal,
			total_scans = EXCLUDED.total_scans,
			last_scan_at = EXCLUDED.last_scan_at,
			whoop_connected = EXCLUDED.whoop_connected,
			whoop_user_id = EXCLUDED.whoop_user_id
	`

	_, err := s.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	query := `SELECT * FROM profiles WHERE uid = $1`

	err := s.db.GetContext(ctx, &profile, query, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}
