package log

// Canonical field names for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldBytes     = "bytes"
	FieldDuration  = "duration"
	FieldCount     = "count"
	FieldPlayerID  = "player_id"
)
