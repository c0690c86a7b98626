package config

import (
	"os"

	"github.com/crucial707/userlist/internal/client"
)

// APIURL returns the base URL for the users API.
// It can be overridden with the USERS_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("USERS_API_URL"); v != "" {
		return v
	}
	return client.DefaultBaseURL
}
