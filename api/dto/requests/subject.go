// ABOUTME: Request DTOs for subject lookup endpoints
// ABOUTME: Carries the subject reference and target language of a lookup

package requests

import (
	"strings"

	"gbbinfo-knowledge-api/core/domain"
)

// SubjectLookupRequest identifies the beatboxer or team to look up
type SubjectLookupRequest struct {
	// BeatboxerID is the directory id, 0 when only a name is given
	BeatboxerID int64 `json:"beatboxer_id,omitempty" minimum:"0" doc:"Directory id of the beatboxer or team"`

	// BeatboxerName overrides the directory lookup when set
	BeatboxerName string `json:"beatboxer_name,omitempty" maxLength:"200" doc:"Display name; takes precedence over beatboxer_id"`

	// Mode selects the directory table
	Mode string `json:"mode,omitempty" enum:"single,team,team_member" default:"single" doc:"Lookup mode"`
}

// SubjectRef converts the request into a domain reference
func (r *SubjectLookupRequest) SubjectRef() domain.SubjectRef {
	return domain.SubjectRef{
		ID:   r.BeatboxerID,
		Name: strings.TrimSpace(r.BeatboxerName),
		Mode: domain.ParseMode(r.Mode),
	}
}

// AnswerTranslationRequest asks for the subject's answer in a language
type AnswerTranslationRequest struct {
	SubjectLookupRequest

	// Language is the target language code, falls back to Japanese
	Language string `json:"language,omitempty" maxLength:"16" doc:"Target language code such as ja, ko or zh-Hant"`
}
