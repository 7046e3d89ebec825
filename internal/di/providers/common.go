package providers

import "time"

// shutdownTimeout bounds graceful shutdown of handles that wrap
// long-lived resources (HTTP server, upstream clients).
const shutdownTimeout = 30 * time.Second
