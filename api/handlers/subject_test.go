package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"gbbinfo-knowledge-api/core/domain"
	"gbbinfo-knowledge-api/core/errors"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestSubjectHandler_RegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	NewSubjectHandler(&mockLookupService{}).RegisterRoutes(api)

	openapi := api.OpenAPI()
	require.NotNil(t, openapi.Paths["/beatboxer_tavily_search"])
	assert.NotNil(t, openapi.Paths["/beatboxer_tavily_search"].Post)
	require.NotNil(t, openapi.Paths["/answer_translation"])
	assert.NotNil(t, openapi.Paths["/answer_translation"].Post)
}

func TestSubjectHandler_SearchLinks(t *testing.T) {
	var captured domain.SubjectRef
	lookup := &mockLookupService{
		getLinksFunc: func(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error) {
			captured = ref
			return &domain.CurationResult{
				AccountURLs: []domain.ResultItem{
					domain.NewResultItem("Wing (@wing)", "https://www.instagram.com/wing", "profile"),
				},
				FinalURLs:       []domain.ResultItem{},
				YoutubeEmbedURL: "https://www.youtube.com/embed/abcdefghijk?controls=0&hd=1&vq=hd720",
			}, nil
		},
	}

	_, api := humatest.New(t)
	NewSubjectHandler(lookup).RegisterRoutes(api)

	resp := api.Post("/beatboxer_tavily_search", map[string]interface{}{
		"beatboxer_id": 12,
		"mode":         "team",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, int64(12), captured.ID)
	assert.Equal(t, domain.ModeTeam, captured.Mode)

	body := decodeBody(t, resp.Body.Bytes())
	accounts := body["account_urls"].([]interface{})
	require.Len(t, accounts, 1)
	assert.Equal(t, "instagram.com", accounts[0].(map[string]interface{})["primary_domain"])
	assert.Equal(t, []interface{}{}, body["final_urls"])
	assert.Contains(t, body["youtube_embed_url"], "/embed/abcdefghijk")
}

func TestSubjectHandler_SearchLinksDefaultsMode(t *testing.T) {
	var captured domain.SubjectRef
	lookup := &mockLookupService{
		getLinksFunc: func(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error) {
			captured = ref
			return domain.EmptyCurationResult(), nil
		},
	}

	_, api := humatest.New(t)
	NewSubjectHandler(lookup).RegisterRoutes(api)

	resp := api.Post("/beatboxer_tavily_search", map[string]interface{}{
		"beatboxer_name": "  so-so ",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, domain.ModeSingle, captured.Mode)
	assert.Equal(t, "so-so", captured.Name)
}

func TestSubjectHandler_SearchLinksRejectsUnknownMode(t *testing.T) {
	_, api := humatest.New(t)
	NewSubjectHandler(&mockLookupService{}).RegisterRoutes(api)

	resp := api.Post("/beatboxer_tavily_search", map[string]interface{}{
		"beatboxer_id": 1,
		"mode":         "crew",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSubjectHandler_SearchLinksMissingInput(t *testing.T) {
	lookup := &mockLookupService{
		getLinksFunc: func(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error) {
			return nil, &errors.ValidationError{Field: "beatboxer_id", Message: "beatboxer_id or beatboxer_name is required"}
		},
	}

	_, api := humatest.New(t)
	NewSubjectHandler(lookup).RegisterRoutes(api)

	resp := api.Post("/beatboxer_tavily_search", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "beatboxer_id")
}

func TestSubjectHandler_TranslateAnswer(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]interface{}
		headers      []interface{}
		wantLanguage string
	}{
		{
			name:         "explicit language",
			body:         map[string]interface{}{"beatboxer_id": 1, "language": "ko"},
			wantLanguage: "ko",
		},
		{
			name:         "regional variant normalized",
			body:         map[string]interface{}{"beatboxer_id": 1, "language": "zh-hant"},
			wantLanguage: "zh_Hant",
		},
		{
			name:         "unsupported language falls back",
			body:         map[string]interface{}{"beatboxer_id": 1, "language": "xx"},
			wantLanguage: "ja",
		},
		{
			name:         "empty language falls back",
			body:         map[string]interface{}{"beatboxer_id": 1},
			wantLanguage: "ja",
		},
		{
			name:         "Accept-Language used when body has none",
			body:         map[string]interface{}{"beatboxer_id": 1},
			headers:      []interface{}{"Accept-Language: fr-FR,fr;q=0.9"},
			wantLanguage: "fr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var language string
			lookup := &mockLookupService{
				getAnswerFunc: func(ctx context.Context, ref domain.SubjectRef, lang string) (string, error) {
					language = lang
					return "translated", nil
				},
			}

			_, api := humatest.New(t)
			NewSubjectHandler(lookup).RegisterRoutes(api)

			args := append(tt.headers, tt.body)
			resp := api.Post("/answer_translation", args...)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			assert.Equal(t, tt.wantLanguage, language)
			assert.Equal(t, "translated", decodeBody(t, resp.Body.Bytes())["answer"])
		})
	}
}

func TestSubjectHandler_TranslateAnswerEmpty(t *testing.T) {
	_, api := humatest.New(t)
	NewSubjectHandler(&mockLookupService{}).RegisterRoutes(api)

	resp := api.Post("/answer_translation", map[string]interface{}{"beatboxer_id": 404})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "", decodeBody(t, resp.Body.Bytes())["answer"])
}

func TestPrimaryLanguageTag(t *testing.T) {
	assert.Equal(t, "en-US", primaryLanguageTag("en-US,en;q=0.9"))
	assert.Equal(t, "ko", primaryLanguageTag(" ko;q=0.8"))
	assert.Equal(t, "", primaryLanguageTag(""))
}
