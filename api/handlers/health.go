package handlers

import (
	"context"
	"net/http"

	"gbbinfo-knowledge-api/api/dto/responses"
	"github.com/danielgtaylor/huma/v2"
)

// HealthOutput defines the output of the health check
type HealthOutput struct {
	Body responses.HealthResponse
}

// RegisterHealth registers GET /health
func RegisterHealth(api huma.API, version string) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: responses.HealthResponse{Status: "ok", Version: version}}, nil
	})
}
