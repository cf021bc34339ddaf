package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldSuccess       = "success"
	FieldDuration      = "duration_ms"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldPeriod        = "period"
	FieldWindowStart   = "window_start"
	FieldWindowEnd     = "window_end"
	FieldCurrency      = "currency"
	FieldCount         = "count"
	FieldPath          = "path"
	FieldFormat        = "format"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentSettings = "settings"
	ComponentExport   = "export"
	ComponentBackend  = "backend"
	ComponentConfig   = "config"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSummary  = "summary"
	OpTrend    = "trend"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds one of the ErrorType* categories
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id, kind string, amount float64, category string) LogFields {
	f[FieldTransactionID] = id
	f[FieldKind] = kind
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// WithWindow adds the reporting period and its resolved bounds
func (f LogFields) WithWindow(period string, start, end int64) LogFields {
	f[FieldPeriod] = period
	f[FieldWindowStart] = start
	f[FieldWindowEnd] = end
	return f
}

// WithCurrency adds currency field
func (f LogFields) WithCurrency(code string) LogFields {
	f[FieldCurrency] = code
	return f
}

// WithCount adds a result count
func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
