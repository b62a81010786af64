package types

const ContextUserKey = "user"

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOrigins returns the development origins plus the configured client
// URL and any extra origins.
func AllowedOrigins(clientURL string, extra []string) []string {
	origins := make([]string, len(defaultOrigins), len(defaultOrigins)+len(extra)+1)
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	return append(origins, extra...)
}
