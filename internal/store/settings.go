package store

import (
	"database/sql"
	"errors"
)

// Well-known settings keys.
const (
	// KeyCameraPermission persists the last observed camera permission
	// state ("granted" or "denied"). A recorded denial is sticky until
	// explicitly cleared.
	KeyCameraPermission = "camera_permission"
	// KeyBackendURL overrides the inference backend base URL.
	KeyBackendURL = "backend_url"
	// KeyCaptureInterval is the detect loop interval in seconds.
	KeyCaptureInterval = "capture_interval"
	// KeyMotionGate enables motion gating of detect submissions ("on").
	// Off by default: a held sign is a static scene.
	KeyMotionGate = "motion_gate"
)

// SettingsRepository provides access to the key-value settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves the value for a key. Returns ErrNotFound if the key is not set.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a value for a key, replacing any existing value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}
