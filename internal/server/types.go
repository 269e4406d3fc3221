// Package server provides the HTTP boundary for the social video API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "github.com/solerv/socialvid-api/internal/pipeline"

// DownloadRequest is the HTTP request body for processing a social video URL.
type DownloadRequest struct {
	// URL is the social-media post URL to process.
	URL string `json:"url" validate:"required,url"`
}

// DownloadResponse is the HTTP response for a successful pipeline run.
type DownloadResponse struct {
	// Success is true when the pipeline completed.
	Success bool `json:"success"`
	// Data carries the pipeline result.
	Data *pipeline.Result `json:"data"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Success is always false for errors.
	Success bool `json:"success"`
	// Message is the human-readable error message.
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
