// ABOUTME: Subject domain model identifies the beatboxer or team being looked up
// ABOUTME: Provides lookup modes and validation of the caller-supplied reference

package domain

import (
	"strings"
	"time"
)

// Mode selects which directory table a subject id refers to
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeTeam       Mode = "team"
	ModeTeamMember Mode = "team_member"
)

// ParseMode converts a raw mode string, defaulting to ModeSingle
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeTeam:
		return ModeTeam
	case ModeTeamMember:
		return ModeTeamMember
	default:
		return ModeSingle
	}
}

// SubjectRef identifies a subject either by directory id or by name.
// An ID of 0 means no id was supplied.
type SubjectRef struct {
	ID   int64
	Name string
	Mode Mode
}

// HasInput reports whether the reference carries an id or a name
func (r SubjectRef) HasInput() bool {
	return r.ID != 0 || strings.TrimSpace(r.Name) != ""
}

// LookupKind distinguishes the lookups recorded for analytics
type LookupKind string

const (
	LookupLinks  LookupKind = "links"
	LookupAnswer LookupKind = "answer"
)

// LookupEvent is recorded for every resolved lookup
type LookupEvent struct {
	SubjectName string
	Mode        Mode
	Kind        LookupKind
	Language    string
	CreatedAt   time.Time
}
