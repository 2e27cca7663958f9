package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - application settings as key-value pairs.
		// Holds the persisted camera permission state, the backend URL
		// override, and the capture interval.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Detections table - log of confirmed top-1 sign detections
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
