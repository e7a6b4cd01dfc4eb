// storage/sink.go
package storage

import (
	"time"

	"chartpulse/config"
	"chartpulse/models"
)

// Sink persists one day's normalized records for one source. There are
// two implementations, file-based and MySQL-backed, selected once at
// configuration time — never by a runtime type check.
//
// Write must be idempotent: rewriting the same (source, date) with
// identical input replaces prior content with identical output.
type Sink interface {
	Write(cfg models.SourceConfig, day time.Time, records []models.ChartRecord) error
}

// FromConfig builds the configured sink. The returned cleanup closes
// any underlying resources and is safe to call unconditionally.
func FromConfig(cfg *config.Config) (Sink, func(), error) {
	if cfg.Storage.Backend == "mysql" {
		db, err := OpenDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sink, err := NewDBSink(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return sink, func() { db.Close() }, nil
	}
	return NewFileSink(cfg.Storage.DataDir), func() {}, nil
}
