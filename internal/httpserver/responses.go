package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/orgball2608/mozimo-site/internal/domain"
)

const (
	feedFailureMessage      = "Failed to fetch Instagram posts"
	tokenExpiredMessage     = "Instagram access token has expired"
	tokenRemediationMessage = "The access token needs to be refreshed. Please generate a new token from Instagram Developer Console."
)

type PostsResponse struct {
	Posts []domain.Post `json:"posts"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
