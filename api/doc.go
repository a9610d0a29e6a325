// Package api provides the HTTP API layer for the knowledge service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
//   - POST /beatboxer_tavily_search: curated links for a subject
//   - POST /answer_translation: the subject's answer in a requested language
//   - GET /api/cache-stats, POST /api/cache-stats/reset: cache counters
//   - GET /health: liveness
//
// The OpenAPI spec is served at /openapi.json and Swagger UI at /docs.
//
// # Request Validation
//
// Huma validates requests from struct tags:
//
//	type SubjectLookupRequest struct {
//	    BeatboxerID   int64  `json:"beatboxer_id,omitempty" minimum:"0"`
//	    BeatboxerName string `json:"beatboxer_name,omitempty" maxLength:"200"`
//	    Mode          string `json:"mode,omitempty" enum:"single,team,team_member" default:"single"`
//	}
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:             logger,
//	    RateLimitPerMinute: 60,
//	    Flags:              flags,
//	})
//	handlers.NewSubjectHandler(lookupService).RegisterRoutes(humaAPI)
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Validation errors map to 400 and
// upstream provider failures to 503, 429 or 400 depending on their status.
package api
