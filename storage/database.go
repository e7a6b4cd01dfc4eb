// storage/database.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // MariaDB driver

	"chartpulse/config"
	"chartpulse/models"
)

// OpenDB initializes the database connection pool.
func OpenDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	// DSN: username:password@protocol(address)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return db, nil
}

const createChartRecordsTable = `
	CREATE TABLE IF NOT EXISTS chart_records (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		source VARCHAR(50) NOT NULL,
		song_name VARCHAR(500) NOT NULL,
		artist_name VARCHAR(500) NOT NULL,
		metric_name VARCHAR(50) NOT NULL,
		metric_value BIGINT NOT NULL,
		chart_position INT NULL,
		collection_date DATE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_observation (source, song_name(180), artist_name(180), metric_name, collection_date)
	)`

// DBSink upserts normalized records into MySQL. One row per
// (record, metric); reruns for the same date update in place, matching
// the file sink's idempotency contract.
type DBSink struct {
	DB *sql.DB
}

// NewDBSink wraps an open pool and makes sure the records table exists.
func NewDBSink(db *sql.DB) (*DBSink, error) {
	if _, err := db.Exec(createChartRecordsTable); err != nil {
		return nil, fmt.Errorf("failed to create chart_records table: %w", err)
	}
	return &DBSink{DB: db}, nil
}

func (s *DBSink) Write(cfg models.SourceConfig, day time.Time, records []models.ChartRecord) error {
	query := `
		INSERT INTO chart_records (
			source, song_name, artist_name, metric_name, metric_value,
			chart_position, collection_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			metric_value = VALUES(metric_value),
			chart_position = VALUES(chart_position),
			updated_at = NOW()
	`

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, record := range records {
		var position sql.NullInt64
		if record.Rank != nil {
			position = sql.NullInt64{Int64: int64(*record.Rank), Valid: true}
		}
		for metric, value := range record.Metrics {
			if _, err := stmt.Exec(
				cfg.Name, record.SongName, record.ArtistName,
				metric, value, position, day.Format(dateLayout),
			); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to upsert %s record for %q: %w", cfg.Name, record.SongName, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s batch: %w", cfg.Name, err)
	}

	log.Printf("Database: upserted %d %s row(s) for %s", inserted, cfg.Name, day.Format(dateLayout))
	return nil
}
