package api

import (
	"net/http"

	"github.com/bookquest/bookquest-server/internal/http/response"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// handleHealthCheck returns server health status. The engine reports
// "degraded" while its initial build is still running; requests that need
// it get 503 until then.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	if s.recommendations != nil && s.recommendations.Ready() {
		components["engine"] = ComponentHealth{Status: "healthy"}
	} else {
		components["engine"] = ComponentHealth{Status: "degraded", Message: "engine still building"}
		overall = "degraded"
	}

	if s.searchIndex != nil {
		docCount, err := s.searchIndex.DocumentCount()
		switch {
		case err != nil:
			components["search"] = ComponentHealth{Status: "unhealthy", Message: "search index unreachable"}
			overall = "unhealthy"
		case docCount == 0:
			components["search"] = ComponentHealth{Status: "degraded", Message: "search index empty"}
			if overall == "healthy" {
				overall = "degraded"
			}
		default:
			components["search"] = ComponentHealth{Status: "healthy"}
		}
	}

	response.Success(w, HealthResponse{Status: overall, Components: components}, s.logger)
}
