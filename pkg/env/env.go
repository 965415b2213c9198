// Package env reads raw environment variables for the few knobs that sit
// outside the envconfig-managed configuration, such as LOG_FORMAT.
package env

import "os"

// Get returns the named variable, falling back when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
