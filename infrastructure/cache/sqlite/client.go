// ABOUTME: SQLite-based durable record store and lookup event recorder
// ABOUTME: Keeps search records column by column in a file that survives restarts

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gbbinfo-knowledge-api/core/domain"
	coreerrors "gbbinfo-knowledge-api/core/errors"
)

// Client implements the RecordStore and EventRecorder interfaces using SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   Logger
	queries  *RecordQueryBuilder

	stop     chan struct{}
	stopOnce sync.Once
}

// storedRecord assembles the column values into the record document
type storedRecord struct {
	SearchResults      json.RawMessage `json:"searchResults,omitempty"`
	Answer             json.RawMessage `json:"answer,omitempty"`
	AnswerTranslations json.RawMessage `json:"answerTranslations,omitempty"`
}

// NewClient opens (or creates) the database at filePath. logger may be nil.
func NewClient(filePath string, logger Logger) (*Client, error) {
	if filePath == "" {
		filePath = "knowledge_cache.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
		queries:  NewRecordQueryBuilder(),
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

// initSchema creates the tables if they don't exist
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS search_records (
			key TEXT PRIMARY KEY,
			search_results TEXT,
			answer TEXT,
			answer_translations TEXT,
			expiry INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_search_records_expiry ON search_records(expiry);
		CREATE TABLE IF NOT EXISTS lookup_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_name TEXT NOT NULL,
			mode TEXT NOT NULL,
			kind TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_lookup_events_subject ON lookup_events(subject_name);
	`

	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a whole record
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key, c.logger); err != nil {
		return nil, err
	}

	query, params := c.queries.GetRecordQuery(key, time.Now().Unix())

	var results, answer, translations sql.NullString
	err := c.db.QueryRowContext(ctx, query, params...).Scan(&results, &answer, &translations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coreerrors.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return json.Marshal(storedRecord{
		SearchResults:      rawOrNil(results),
		Answer:             rawOrNil(answer),
		AnswerTranslations: rawOrNil(translations),
	})
}

// Set replaces a whole record. A ttl of 0 means no expiry.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return fmt.Errorf("record must be a JSON object: %w", err)
	}

	columns := make(map[string][]byte, len(fields))
	for field, raw := range fields {
		if _, err := c.queries.SQLColumn(field); err == nil {
			columns[field] = raw
		}
	}

	query, params := c.queries.SetRecordQuery(key, columns, expiryFor(ttl))
	if _, err := c.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// GetColumn retrieves one field of a record
func (c *Client) GetColumn(ctx context.Context, key, column string) ([]byte, error) {
	if err := ValidateKey(key, c.logger); err != nil {
		return nil, err
	}

	query, params, err := c.queries.GetColumnQuery(key, column, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	var value sql.NullString
	err = c.db.QueryRowContext(ctx, query, params...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return nil, coreerrors.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}

	return []byte(value.String), nil
}

// SetColumn writes one field, creating the record when needed
func (c *Client) SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}
	if !json.Valid(value) {
		return errors.New("column value must be valid JSON")
	}

	query, params, err := c.queries.SetColumnQuery(key, column, value, expiryFor(ttl))
	if err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to set column: %w", err)
	}
	return nil
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}

	query, params := c.queries.DeleteQuery(key)
	if _, err := c.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Record stores a lookup event
func (c *Client) Record(ctx context.Context, event domain.LookupEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, params := c.queries.InsertEventQuery(
		event.SubjectName,
		string(event.Mode),
		string(event.Kind),
		event.Language,
		createdAt.Unix(),
	)
	if _, err := c.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to record lookup event: %w", err)
	}
	return nil
}

// cleanupRoutine periodically removes expired records
func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired records
func (c *Client) cleanup() {
	query, params := c.queries.CleanupQuery(time.Now().Unix())
	_, _ = c.db.Exec(query, params...)
}

// Close stops the cleanup routine and closes the database connection
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.db.Close()
}

// Stats returns store statistics
func (c *Client) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM search_records").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_records"] = count

	var translated int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM search_records WHERE answer_translations IS NOT NULL").Scan(&translated); err != nil {
		return nil, err
	}
	stats["translated_records"] = translated

	var events int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM lookup_events").Scan(&events); err != nil {
		return nil, err
	}
	stats["lookup_events"] = events

	var pageCount, pageSize int
	if err := c.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := c.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}

	stats["file_path"] = c.filePath

	return stats, nil
}

func expiryFor(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).Unix()
}

func rawOrNil(value sql.NullString) json.RawMessage {
	if !value.Valid || value.String == "" {
		return nil
	}
	return json.RawMessage(value.String)
}
