package env

import (
	"os"
	"strings"
)

const prefix = "WMB_"

// Get returns the value of WMB_<key>, then <key>, or the fallback.
func Get(key, fallback string) string {
	key = strings.TrimPrefix(key, prefix)
	if val := strings.TrimSpace(os.Getenv(prefix + key)); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
