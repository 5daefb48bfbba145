package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor, also the echo context key set by the JWT middleware
	FieldUserID = "user_id"

	FieldService = "service"

	// Store
	FieldCollection = "collection"

	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
