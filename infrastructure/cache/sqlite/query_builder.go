// ABOUTME: Safe SQL query builder for the SQLite record and event tables
// ABOUTME: Enforces parameterization and validated identifiers to prevent SQL injection

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Logger interface - minimal interface to avoid circular dependencies
type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

// QueryBuilder provides a safe way to build SQL queries with automatic parameterization
type QueryBuilder struct {
	query  string
	params []interface{}
}

// Table and column name validation - only alphanumeric, underscore allowed
var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	// Maximum lengths to prevent DoS
	maxKeyLength   = 255
	maxValueLength = 4 * 1024 * 1024
)

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		params: make([]interface{}, 0),
	}
}

// validateName validates table/column names to prevent SQL injection
func validateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}

	if !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name: %s (only alphanumeric and underscore allowed)", name)
	}

	if len(name) > 64 {
		return fmt.Errorf("name too long: %s (max 64 characters)", name)
	}

	return nil
}

// Select builds a SELECT query. Invalid column names fall back to *.
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		if err := validateName(col); err != nil {
			qb.query = "SELECT * "
			return qb
		}
	}

	if len(columns) == 0 {
		qb.query = "SELECT * "
	} else {
		qb.query = "SELECT " + strings.Join(columns, ", ") + " "
	}

	return qb
}

// From adds FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	if err := validateName(table); err != nil {
		return qb
	}

	qb.query += "FROM " + table + " "
	return qb
}

// Where adds WHERE clause with parameterized conditions
func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	if err := validateName(column); err != nil {
		return qb
	}

	allowedOperators := map[string]bool{
		"=":  true,
		"!=": true,
		">":  true,
		"<":  true,
		">=": true,
		"<=": true,
	}

	if !allowedOperators[operator] {
		operator = "=" // Default to equals for safety
	}

	if strings.Contains(qb.query, "WHERE") {
		qb.query += "AND "
	} else {
		qb.query += "WHERE "
	}

	qb.query += column + " " + operator + " ? "
	qb.params = append(qb.params, value)

	return qb
}

// WhereNotExpired adds the live-row condition: expiry of 0 never expires
func (qb *QueryBuilder) WhereNotExpired(now int64) *QueryBuilder {
	if strings.Contains(qb.query, "WHERE") {
		qb.query += "AND "
	} else {
		qb.query += "WHERE "
	}

	qb.query += "(expiry = 0 OR expiry > ?) "
	qb.params = append(qb.params, now)
	return qb
}

// Insert builds an INSERT query
func (qb *QueryBuilder) Insert(table string) *QueryBuilder {
	if err := validateName(table); err != nil {
		return qb
	}

	qb.query = "INSERT INTO " + table + " "
	return qb
}

// Values adds VALUES clause. Invalid column names are dropped together
// with their values.
func (qb *QueryBuilder) Values(columns []string, values []interface{}) *QueryBuilder {
	if len(columns) != len(values) {
		return qb
	}

	validColumns := make([]string, 0, len(columns))
	validValues := make([]interface{}, 0, len(values))

	for i, col := range columns {
		if err := validateName(col); err == nil {
			validColumns = append(validColumns, col)
			validValues = append(validValues, values[i])
		}
	}

	if len(validColumns) == 0 {
		return qb
	}

	placeholders := make([]string, len(validColumns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	qb.query += "(" + strings.Join(validColumns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ") "
	qb.params = append(qb.params, validValues...)

	return qb
}

// OnConflictUpdate turns an INSERT into an upsert that overwrites only the
// listed columns when conflictColumn already exists.
func (qb *QueryBuilder) OnConflictUpdate(conflictColumn string, columns ...string) *QueryBuilder {
	if err := validateName(conflictColumn); err != nil {
		return qb
	}

	assignments := make([]string, 0, len(columns))
	for _, col := range columns {
		if err := validateName(col); err != nil {
			continue
		}
		assignments = append(assignments, col+" = excluded."+col)
	}
	if len(assignments) == 0 {
		return qb
	}

	qb.query += "ON CONFLICT(" + conflictColumn + ") DO UPDATE SET " + strings.Join(assignments, ", ") + " "
	return qb
}

// Delete builds a DELETE query
func (qb *QueryBuilder) Delete(table string) *QueryBuilder {
	if err := validateName(table); err != nil {
		return qb
	}

	qb.query = "DELETE FROM " + table + " "
	return qb
}

// Build returns the built query and parameters
func (qb *QueryBuilder) Build() (string, []interface{}) {
	return strings.TrimSpace(qb.query), qb.params
}

// ValidateKey validates a record key. Suspicious patterns are logged but
// accepted since every query is parameterized.
func ValidateKey(key string, logger Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}

	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	suspiciousPatterns := []string{"--", "/*", "*/", ";", "'", "\"", "\\", "\n", "\r", "\t"}

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(key, pattern) && logger != nil {
			logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
				"pattern":     pattern,
				"key_length":  len(key),
				"key_preview": truncateKey(key),
			})
		}
	}

	return nil
}

// truncateKey returns a safe preview of the key for logging
func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue validates a stored JSON value
func ValidateValue(value []byte) error {
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}

	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}

	return nil
}

// recordColumns maps record fields to their SQL columns
var recordColumns = map[string]string{
	"searchResults":      "search_results",
	"answer":             "answer",
	"answerTranslations": "answer_translations",
}

// recordFieldOrder fixes the field order of assembled records
var recordFieldOrder = []string{"searchResults", "answer", "answerTranslations"}

// RecordQueryBuilder provides pre-built queries for record and event operations
type RecordQueryBuilder struct{}

// NewRecordQueryBuilder creates a record-specific query builder
func NewRecordQueryBuilder() *RecordQueryBuilder {
	return &RecordQueryBuilder{}
}

// SQLColumn returns the SQL column of a record field
func (rq *RecordQueryBuilder) SQLColumn(field string) (string, error) {
	col, ok := recordColumns[field]
	if !ok {
		return "", fmt.Errorf("unknown record column: %s", field)
	}
	return col, nil
}

// GetRecordQuery selects every field column of a live record
func (rq *RecordQueryBuilder) GetRecordQuery(key string, now int64) (string, []interface{}) {
	columns := make([]string, 0, len(recordFieldOrder))
	for _, field := range recordFieldOrder {
		columns = append(columns, recordColumns[field])
	}

	qb := NewQueryBuilder()
	qb.Select(columns...).
		From("search_records").
		Where("key", "=", key).
		WhereNotExpired(now)
	return qb.Build()
}

// GetColumnQuery selects one field column of a live record
func (rq *RecordQueryBuilder) GetColumnQuery(key, field string, now int64) (string, []interface{}, error) {
	col, err := rq.SQLColumn(field)
	if err != nil {
		return "", nil, err
	}

	qb := NewQueryBuilder()
	qb.Select(col).
		From("search_records").
		Where("key", "=", key).
		WhereNotExpired(now)
	query, params := qb.Build()
	return query, params, nil
}

// SetRecordQuery replaces every field column of a record
func (rq *RecordQueryBuilder) SetRecordQuery(key string, fields map[string][]byte, expiry int64) (string, []interface{}) {
	columns := []string{"key"}
	values := []interface{}{key}
	updated := make([]string, 0, len(recordFieldOrder)+1)
	for _, field := range recordFieldOrder {
		col := recordColumns[field]
		columns = append(columns, col)
		updated = append(updated, col)
		if raw, ok := fields[field]; ok {
			values = append(values, string(raw))
		} else {
			values = append(values, nil)
		}
	}
	columns = append(columns, "expiry")
	values = append(values, expiry)
	updated = append(updated, "expiry")

	qb := NewQueryBuilder()
	qb.Insert("search_records").
		Values(columns, values).
		OnConflictUpdate("key", updated...)
	return qb.Build()
}

// SetColumnQuery writes one field column, creating the record when needed
func (rq *RecordQueryBuilder) SetColumnQuery(key, field string, value []byte, expiry int64) (string, []interface{}, error) {
	col, err := rq.SQLColumn(field)
	if err != nil {
		return "", nil, err
	}

	// A zero expiry keeps whatever expiry the record already has
	updated := []string{col}
	if expiry != 0 {
		updated = append(updated, "expiry")
	}

	qb := NewQueryBuilder()
	qb.Insert("search_records").
		Values([]string{"key", col, "expiry"}, []interface{}{key, string(value), expiry}).
		OnConflictUpdate("key", updated...)
	query, params := qb.Build()
	return query, params, nil
}

// DeleteQuery builds a parameterized DELETE query
func (rq *RecordQueryBuilder) DeleteQuery(key string) (string, []interface{}) {
	qb := NewQueryBuilder()
	qb.Delete("search_records").Where("key", "=", key)
	return qb.Build()
}

// CleanupQuery deletes records whose expiry has passed
func (rq *RecordQueryBuilder) CleanupQuery(now int64) (string, []interface{}) {
	qb := NewQueryBuilder()
	qb.Delete("search_records").
		Where("expiry", ">", 0).
		Where("expiry", "<=", now)
	return qb.Build()
}

// InsertEventQuery records one lookup event
func (rq *RecordQueryBuilder) InsertEventQuery(subject, mode, kind, language string, createdAt int64) (string, []interface{}) {
	qb := NewQueryBuilder()
	qb.Insert("lookup_events").
		Values(
			[]string{"subject_name", "mode", "kind", "language", "created_at"},
			[]interface{}{subject, mode, kind, language, createdAt},
		)
	return qb.Build()
}
