package api

import (
	"os"
	"strings"
)

const (
	// Hosts containing this marker serve the static frontend only.
	StaticHostMarker = "github.io"

	LocalBaseURL      = "http://127.0.0.1:5000"
	ProductionBaseURL = "https://guideme-api.onrender.com"
)

// ResolveBaseURL maps a host name to the backend it should talk to.
// The boolean is false for static deployments, where the API is disabled.
func ResolveBaseURL(host string) (string, bool) {
	if strings.Contains(host, StaticHostMarker) {
		return "", false
	}

	if host == "localhost" || host == "127.0.0.1" {
		return LocalBaseURL, true
	}

	return ProductionBaseURL, true
}

func joinURL(baseURL, endpoint string) string {
	if strings.HasPrefix(endpoint, "/") {
		return baseURL + endpoint
	}
	return baseURL + "/" + endpoint
}

func osHostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}
