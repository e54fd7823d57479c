package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: malformed channel key
	Error string `json:"error" example:"malformed channel key"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ChannelsResponse wraps the channels returned by GET /channels.
type ChannelsResponse struct {
	// Registry namespace the channels belong to.
	// example: default
	Namespace string `json:"namespace" example:"default"`
	// Channels that currently have at least one receiver.
	Channels []Channel `json:"channels"`
}

// FilesResponse is returned by GET /files.
type FilesResponse struct {
	// Absolute base directory of the file manager.
	// example: /data/project
	BaseDir string `json:"base_dir" example:"/data/project"`
	// Unit used for Size fields.
	// example: MB
	Units string `json:"units" example:"MB"`
	// One entry per group, in the order groups were added.
	Groups []GroupReport `json:"groups"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}
