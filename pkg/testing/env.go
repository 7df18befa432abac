package testing

import "os"

// EnvOr returns the env var value, or def when it is not set
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
