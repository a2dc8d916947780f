package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldKey        = "key"
	FieldCollection = "collection"
	FieldCount      = "count"
	FieldRecordID   = "record_id"
	FieldBytes      = "bytes"
	FieldBackend    = "backend"
	FieldPeriod     = "period"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldExchange   = "exchange"
	FieldQueue      = "queue"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentStorage    = "storage"
	ComponentGateway    = "gateway"
	ComponentManager    = "manager"
	ComponentAnalytics  = "analytics"
	ComponentOnboarding = "onboarding"
	ComponentAMQP       = "amqp"
	ComponentBackend    = "backend"
	ComponentCLI        = "cli"
	ComponentCache      = "cache"
	ComponentWorker     = "worker"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpSave    = "save"
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReplace = "replace"
	OpClear   = "clear"
	OpPublish = "publish"
	OpExport  = "export"
	OpMirror  = "mirror"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithCollection adds the persisted key and the number of records involved.
func (f LogFields) WithCollection(key string, count int) LogFields {
	f[FieldCollection] = key
	f[FieldCount] = count
	return f
}

// WithRecord adds a record identity.
func (f LogFields) WithRecord(id string) LogFields {
	f[FieldRecordID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog, sorted by key so output is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
