package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldWorkspaceID   = "workspace_id"

	// Call fields
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldStatus    = "status"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
)
