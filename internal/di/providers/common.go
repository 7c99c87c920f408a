package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// buildTimeout bounds the background engine build.
	buildTimeout = 10 * time.Minute
)
