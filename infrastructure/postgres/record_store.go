package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gbbinfo-knowledge-api/core/domain"
	coreerrors "gbbinfo-knowledge-api/core/errors"
)

// recordColumns maps record fields to jsonb columns
var recordColumns = map[string]string{
	domain.ColumnSearchResults:      "search_results",
	domain.ColumnAnswer:             "answer",
	domain.ColumnAnswerTranslations: "answer_translations",
}

// RecordStore is the durable record tier on PostgreSQL
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a record store. The schema must already be
// migrated, see Migrate.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

type storedRecord struct {
	SearchResults      json.RawMessage `json:"searchResults,omitempty"`
	Answer             json.RawMessage `json:"answer,omitempty"`
	AnswerTranslations json.RawMessage `json:"answerTranslations,omitempty"`
}

// Get returns the whole record as JSON
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT search_results::text, answer::text, answer_translations::text
		FROM search_records
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`

	var results, answer, translations sql.NullString
	err := s.db.QueryRowContext(ctx, query, key).Scan(&results, &answer, &translations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coreerrors.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return json.Marshal(storedRecord{
		SearchResults:      raw(results),
		Answer:             raw(answer),
		AnswerTranslations: raw(translations),
	})
}

// Set replaces the whole record. A ttl of 0 means no expiry.
func (s *RecordStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return fmt.Errorf("record must be a JSON object: %w", err)
	}

	query := `
		INSERT INTO search_records (key, search_results, answer, answer_translations, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5, NOW())
		ON CONFLICT (key) DO UPDATE SET
			search_results = EXCLUDED.search_results,
			answer = EXCLUDED.answer,
			answer_translations = EXCLUDED.answer_translations,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		key,
		nullable(fields[domain.ColumnSearchResults]),
		nullable(fields[domain.ColumnAnswer]),
		nullable(fields[domain.ColumnAnswerTranslations]),
		expiresAt(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// GetColumn returns one column of the record as JSON
func (s *RecordStore) GetColumn(ctx context.Context, key, column string) ([]byte, error) {
	col, ok := recordColumns[column]
	if !ok {
		return nil, fmt.Errorf("unknown record column: %s", column)
	}

	// col comes from the fixed column map
	query := fmt.Sprintf(`
		SELECT %s::text
		FROM search_records
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`, col)

	var value sql.NullString
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return nil, coreerrors.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}

	return []byte(value.String), nil
}

// SetColumn writes one column, creating the record when needed. A ttl of 0
// keeps the record's current expiry.
func (s *RecordStore) SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error {
	col, ok := recordColumns[column]
	if !ok {
		return fmt.Errorf("unknown record column: %s", column)
	}
	if !json.Valid(value) {
		return errors.New("column value must be valid JSON")
	}

	update := fmt.Sprintf("%s = EXCLUDED.%s, updated_at = NOW()", col, col)
	if ttl > 0 {
		update += ", expires_at = EXCLUDED.expires_at"
	}

	query := fmt.Sprintf(`
		INSERT INTO search_records (key, %s, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (key) DO UPDATE SET %s`, col, update)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), expiresAt(ttl)); err != nil {
		return fmt.Errorf("failed to set column: %w", err)
	}
	return nil
}

// Stats returns store statistics
func (s *RecordStore) Stats() (map[string]interface{}, error) {
	var total, translated int
	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(answer_translations)
		FROM search_records`).Scan(&total, &translated)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_records":      total,
		"translated_records": translated,
	}, nil
}

func expiresAt(ttl time.Duration) interface{} {
	if ttl <= 0 {
		return nil
	}
	return time.Now().Add(ttl)
}

func nullable(value json.RawMessage) interface{} {
	if len(value) == 0 || string(value) == "null" {
		return nil
	}
	return string(value)
}

func raw(value sql.NullString) json.RawMessage {
	if !value.Valid || value.String == "" {
		return nil
	}
	return json.RawMessage(value.String)
}
