package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldStore      = "store"
	FieldOp         = "op"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldLeague     = "league"
	FieldGame       = "game_number"
	FieldVenue      = "venue"
	FieldActor      = "actor"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
