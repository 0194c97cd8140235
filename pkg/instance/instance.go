package instance

import "os"

// GetID returns the serving instance identifier or a default value.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if id := os.Getenv("HOSTNAME"); id != "" {
		return id
	}
	return "local"
}
