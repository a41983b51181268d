package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FundLens/internal/domain/models"
	"FundLens/internal/domain/repository"
)

const insertChunkSize = 2000

// NavHistorySchema returns the idempotent DDL for the NAV history table.
// ReplacingMergeTree keeps the latest fetch of each (scheme_code, date).
func NavHistorySchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    scheme_code UInt32,
    scheme_name String,
    date Date,
    nav Float64,
    fetched_at DateTime
) ENGINE = ReplacingMergeTree(fetched_at)
ORDER BY (scheme_code, date)`, database, table),
	}
}

// ClickHouseNavArchive implements NavArchive for ClickHouse.
type ClickHouseNavArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseNavArchive creates the ClickHouse archive. table is fully qualified.
func NewClickHouseNavArchive(db *sql.DB, table string) repository.NavArchive {
	return &ClickHouseNavArchive{db: db, table: table}
}

func (s *ClickHouseNavArchive) Name() string { return "clickhouse" }

func (s *ClickHouseNavArchive) Archive(ctx context.Context, snap *models.NavSnapshot) error {
	for start := 0; start < len(snap.Records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(snap.Records) {
			end = len(snap.Records)
		}
		q, args := buildNavInsert(s.table, snap, snap.Records[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert nav history: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *ClickHouseNavArchive) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func buildNavInsert(table string, snap *models.NavSnapshot, records []models.NavRecord) (string, []interface{}) {
	fetchedAt := time.Unix(snap.FetchedAt, 0).UTC()
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*5)
	for _, r := range records {
		if r.SchemeCode <= 0 || r.Date == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, uint32(r.SchemeCode), snap.Meta.SchemeName, r.Date, r.NAV, fetchedAt)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (scheme_code, scheme_name, date, nav, fetched_at) VALUES %s", table, strings.Join(values, ","))
	return q, args
}

// MessagePublisher is the subset of pkg/kafka.Producer used here.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaNavPublisher implements NavArchive by publishing one message per
// snapshot, keyed by scheme code so a scheme's history stays ordered.
type KafkaNavPublisher struct {
	producer MessagePublisher
	topic    string
}

// NewKafkaNavPublisher creates the Kafka archive.
func NewKafkaNavPublisher(producer MessagePublisher, topic string) repository.NavArchive {
	return &KafkaNavPublisher{producer: producer, topic: topic}
}

func (p *KafkaNavPublisher) Name() string { return "kafka" }

func (p *KafkaNavPublisher) Archive(ctx context.Context, snap *models.NavSnapshot) error {
	key := []byte(strconv.Itoa(snap.Meta.SchemeCode))
	if err := p.producer.Publish(ctx, p.topic, key, snap); err != nil {
		return fmt.Errorf("publish nav snapshot: %w", err)
	}
	return nil
}

func (p *KafkaNavPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
