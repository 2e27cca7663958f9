package store

import (
	"database/sql"
	"time"
)

// Detection represents one confirmed top-1 detection recorded by the
// capture loop.
type Detection struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// DetectionRepository provides access to the detection log.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts a new detection into the log.
func (r *DetectionRepository) Create(d *Detection) error {
	d.CreatedAt = time.Now()
	_, err := r.db.Exec(
		`INSERT INTO detections (id, label, confidence, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Label, d.Confidence, d.CreatedAt,
	)
	return err
}

// Recent retrieves the most recent detections, newest first.
func (r *DetectionRepository) Recent(limit int) ([]Detection, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, label, confidence, created_at
		 FROM detections ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []Detection
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.ID, &d.Label, &d.Confidence, &d.CreatedAt); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// Clear removes all detections from the log.
func (r *DetectionRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM detections`)
	return err
}
