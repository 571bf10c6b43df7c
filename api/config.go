package api

// Config holds the API server settings.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string
}
