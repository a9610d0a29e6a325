// ABOUTME: Subject lookup handlers for the Huma API
// ABOUTME: Serves curated links and translated answers for a beatboxer or team

package handlers

import (
	"context"
	"net/http"
	"strings"

	"gbbinfo-knowledge-api/api/dto/mappers"
	"gbbinfo-knowledge-api/api/dto/requests"
	"gbbinfo-knowledge-api/api/dto/responses"
	"gbbinfo-knowledge-api/core/domain"
	"gbbinfo-knowledge-api/core/translation"
	"github.com/danielgtaylor/huma/v2"
)

// LookupService defines the methods needed from the lookup service
type LookupService interface {
	GetLinks(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error)
	GetTranslatedAnswer(ctx context.Context, ref domain.SubjectRef, language string) (string, error)
}

// SubjectHandler handles subject lookup requests
type SubjectHandler struct {
	lookup LookupService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(lookup LookupService) *SubjectHandler {
	return &SubjectHandler{lookup: lookup}
}

// RegisterRoutes registers all subject lookup routes
func (h *SubjectHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchSubjectLinks",
		Method:      http.MethodPost,
		Path:        "/beatboxer_tavily_search",
		Summary:     "Curated links for a beatboxer",
		Description: "Searches the web for a beatboxer or team and returns account links, informational links and a teaser video",
		Tags:        []string{"Lookup"},
	}, h.SearchLinks)

	huma.Register(api, huma.Operation{
		OperationID: "translateAnswer",
		Method:      http.MethodPost,
		Path:        "/answer_translation",
		Summary:     "Translated answer for a beatboxer",
		Description: "Returns the search provider's summary of a beatboxer translated into the requested language",
		Tags:        []string{"Lookup"},
	}, h.TranslateAnswer)
}

// SearchLinksInput defines the input for the SearchLinks operation
type SearchLinksInput struct {
	Body requests.SubjectLookupRequest `json:"body"`
}

// SearchLinksOutput defines the output for the SearchLinks operation
type SearchLinksOutput struct {
	Body responses.SubjectLinksResponse
}

// SearchLinks handles POST /beatboxer_tavily_search
func (h *SubjectHandler) SearchLinks(ctx context.Context, input *SearchLinksInput) (*SearchLinksOutput, error) {
	result, err := h.lookup.GetLinks(ctx, input.Body.SubjectRef())
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchLinksOutput{Body: *mappers.ToSubjectLinksResponse(result)}, nil
}

// TranslateAnswerInput defines the input for the TranslateAnswer operation
type TranslateAnswerInput struct {
	AcceptLanguage string `header:"Accept-Language" doc:"Used when the body carries no language"`
	Body           requests.AnswerTranslationRequest `json:"body"`
}

// TranslateAnswerOutput defines the output for the TranslateAnswer operation
type TranslateAnswerOutput struct {
	Body responses.AnswerTranslationResponse
}

// TranslateAnswer handles POST /answer_translation
func (h *SubjectHandler) TranslateAnswer(ctx context.Context, input *TranslateAnswerInput) (*TranslateAnswerOutput, error) {
	language := input.Body.Language
	if strings.TrimSpace(language) == "" {
		language = primaryLanguageTag(input.AcceptLanguage)
	}

	answer, err := h.lookup.GetTranslatedAnswer(ctx, input.Body.SubjectRef(), translation.NormalizeLanguage(language))
	if err != nil {
		return nil, toHumaError(err)
	}

	return &TranslateAnswerOutput{Body: responses.AnswerTranslationResponse{Answer: answer}}, nil
}

// primaryLanguageTag returns the first tag of an Accept-Language header
func primaryLanguageTag(header string) string {
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}
