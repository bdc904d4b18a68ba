package http

// CodeResponse is the body of GET /generate_id.
type CodeResponse struct {
	Status string `json:"status"` // "authenticated", "success" or "failed"
	Code   string `json:"code,omitempty"`
}

// StatusResponse is the body of GET /check_auth.
type StatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse is the body of the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
