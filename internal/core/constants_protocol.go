package core

// Default config constants
const (
	DefaultPort    = "3001"
	DefaultGinMode = "release"
	CORSMaxAge     = "86400"
)

// Content type and header constants
const (
	ContentTypeJSON   = "application/json"
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
)

// Role constants
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Content part type constants
const (
	ContentBlockTypeText = "text"
)

// Log status strings accepted by the collector
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusTimeout     = "timeout"
	StatusRateLimited = "rate_limited"
)
