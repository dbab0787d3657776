package orchestrator

// Coordination service used when no server URL is configured.
const DefaultServerURL = "http://devmason.com/pony_server"

// Options for one build invocation. Built once at the command-line boundary
// and never modified afterwards.
type Config struct {
	ForceBuild     bool   // Skip the staleness check and always build.
	Report         bool   // Send the result to the coordination service instead of printing it.
	Cleanup        bool   // Destroy the execution context after the build.
	ServerURL      string // Coordination service address.
	Verbose        bool   // Advisory. The log level already carries it; nothing here reads it.
	SystemPackages bool   // Make system-wide packages visible inside the execution context.
}

// Returns the configured server URL, or [DefaultServerURL] when unset.
func (c Config) Server() string {
	if c.ServerURL == "" {
		return DefaultServerURL
	}
	return c.ServerURL
}
