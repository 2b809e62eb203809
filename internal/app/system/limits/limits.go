// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON endpoints.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxProfileBody is the maximum size of a PUT /profile body.
	MaxProfileBody = 64 << 10 // 64 KB

	// MaxSessionBody is the maximum size of a POST /session body.
	MaxSessionBody = 4 << 10 // 4 KB
)
