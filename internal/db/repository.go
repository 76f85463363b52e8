package db

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Cxsmxnaut/Gradely/internal/model"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

// Repository is the remote persistence surface: per-user cached grade
// snapshots, the process-wide GPA settings row, and upstream
// credentials.
type Repository interface {
	GetCachedGrades(ctx context.Context, userID string) (model.CachedGrades, error)
	PutCachedGrades(ctx context.Context, cached model.CachedGrades) error
	DeleteCachedGrades(ctx context.Context, userID string) error

	GetSettings(ctx context.Context) (model.GPASettings, error)
	PutSettings(ctx context.Context, settings model.GPASettings) error

	GetCredentials(ctx context.Context, userID string) (model.Credentials, error)
	PutCredentials(ctx context.Context, creds model.Credentials) error
	DeleteCredentials(ctx context.Context, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCachedGrades(ctx context.Context, userID string) (model.CachedGrades, error) {
	query := `SELECT user_id, cached_grades, last_sync FROM grade_cache WHERE user_id = ?`

	var cached model.CachedGrades
	var coursesJSON []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&cached.UserID, &coursesJSON, &cached.LastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CachedGrades{}, pkgerrors.ErrNoCache
	}
	if err != nil {
		return model.CachedGrades{}, fmt.Errorf("failed to query grade cache: %w", err)
	}

	if err := json.Unmarshal(coursesJSON, &cached.Courses); err != nil {
		return model.CachedGrades{}, fmt.Errorf("failed to decode cached courses: %w", err)
	}
	return cached, nil
}

func (r *repository) PutCachedGrades(ctx context.Context, cached model.CachedGrades) error {
	coursesJSON, err := json.Marshal(cached.Courses)
	if err != nil {
		return fmt.Errorf("failed to encode cached courses: %w", err)
	}
	if cached.LastSync.IsZero() {
		cached.LastSync = time.Now().UTC()
	}

	query := `INSERT INTO grade_cache (user_id, cached_grades, last_sync)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE cached_grades = VALUES(cached_grades), last_sync = VALUES(last_sync)`
	_, err = r.db.ExecContext(ctx, query, cached.UserID, coursesJSON, cached.LastSync)
	if err != nil {
		return fmt.Errorf("failed to upsert grade cache: %w", err)
	}
	return nil
}

func (r *repository) DeleteCachedGrades(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM grade_cache WHERE user_id = ?`, userID)
	return err
}

// Settings are a single process-wide row; the interface does not
// partition them per user.
func (r *repository) GetSettings(ctx context.Context) (model.GPASettings, error) {
	query := `SELECT settings FROM gpa_settings WHERE id = 1`

	var settingsJSON []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&settingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultGPASettings(), nil
	}
	if err != nil {
		return model.GPASettings{}, fmt.Errorf("failed to query GPA settings: %w", err)
	}

	var settings model.GPASettings
	if err := json.Unmarshal(settingsJSON, &settings); err != nil {
		// Corrupt settings are replaced with defaults rather than
		// blocking every aggregation run.
		return model.DefaultGPASettings(), nil
	}
	return settings, nil
}

func (r *repository) PutSettings(ctx context.Context, settings model.GPASettings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode GPA settings: %w", err)
	}

	query := `INSERT INTO gpa_settings (id, settings) VALUES (1, ?)
			  ON DUPLICATE KEY UPDATE settings = VALUES(settings)`
	_, err = r.db.ExecContext(ctx, query, settingsJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert GPA settings: %w", err)
	}
	return nil
}

func (r *repository) GetCredentials(ctx context.Context, userID string) (model.Credentials, error) {
	query := `SELECT user_id, district_url, username, password FROM studentvue_credentials WHERE user_id = ?`

	var creds model.Credentials
	var encoded string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&creds.UserID, &creds.DistrictURL, &creds.Username, &encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credentials{}, pkgerrors.ErrNoCredentials
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("failed to query credentials: %w", err)
	}

	creds.Password = decodePassword(encoded)
	return creds, nil
}

func (r *repository) PutCredentials(ctx context.Context, creds model.Credentials) error {
	query := `INSERT INTO studentvue_credentials (user_id, district_url, username, password)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE district_url = VALUES(district_url),
			  username = VALUES(username), password = VALUES(password)`
	_, err := r.db.ExecContext(ctx, query, creds.UserID, creds.DistrictURL, creds.Username, encodePassword(creds.Password))
	if err != nil {
		return fmt.Errorf("failed to upsert credentials: %w", err)
	}
	return nil
}

func (r *repository) DeleteCredentials(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM studentvue_credentials WHERE user_id = ?`, userID)
	return err
}

// Reversible obfuscation only. Real credential encryption sits behind
// the external trust boundary.
func encodePassword(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}

func decodePassword(encoded string) string {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return encoded
	}
	return string(decoded)
}
