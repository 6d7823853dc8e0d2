// Package instance names the running process in logs.
package instance

import "os"

// GetID prefers the platform dyno name, then the host name, then "local".
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
