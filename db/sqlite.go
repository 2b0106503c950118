package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        input TEXT NOT NULL,
        predicted_label INTEGER NOT NULL,
        confidence REAL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS training_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_type VARCHAR(50),
        model_path TEXT,
        accuracy REAL,
        data_points INTEGER,
        trained_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `

	_, err = database.Exec(query)
	return err
}

// Close closes the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// PredictionRecord is one row of the prediction audit trail.
type PredictionRecord struct {
	ID         int64     `json:"id"`
	Input      []float64 `json:"input"`
	Label      int       `json:"predicted_label"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// SavePrediction appends one served prediction to the audit trail.
func SavePrediction(input []float64, label int, confidence float64) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	encoded, err := json.Marshal(input)
	if err != nil {
		return err
	}
	_, err = database.Exec(
		`INSERT INTO predictions (input, predicted_label, confidence) VALUES (?, ?, ?)`,
		string(encoded), label, confidence,
	)
	return err
}

// QueryPredictions returns the most recent predictions, newest first.
func QueryPredictions(limit int) ([]PredictionRecord, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := database.Query(
		`SELECT id, input, predicted_label, confidence, created_at
         FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		var encoded string
		if err := rows.Scan(&rec.ID, &encoded, &rec.Label, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(encoded), &rec.Input); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveTrainingRun records one trainer invocation.
func SaveTrainingRun(modelType, modelPath string, accuracy float64, dataPoints int) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(
		`INSERT INTO training_runs (model_type, model_path, accuracy, data_points) VALUES (?, ?, ?, ?)`,
		modelType, modelPath, accuracy, dataPoints,
	)
	return err
}
