package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldBookID     = "book_id"
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldPages      = "pages"
	FieldGenre      = "genre"
	FieldCategories = "categories"
	FieldQuery      = "query"
	FieldBackend    = "backend"
	FieldPath       = "path"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldCacheHit   = "cache_hit"
	FieldOutputDir  = "output_dir"
	FieldRunID      = "run_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentRecords = "records"
	ComponentStorage = "storage"
	ComponentGoogle  = "google_books"
	ComponentEnrich  = "enrich"
	ComponentSite    = "site"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpLookup   = "lookup"
	OpEnrich   = "enrich"
	OpRender   = "render"
	OpValidate = "validate"
	OpMigrate  = "migrate"
	OpImport   = "import"
	OpExport   = "export"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeData          = "data_quality_error"
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

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithBook adds the identifying fields of a book
func (f LogFields) WithBook(id, title, author string) LogFields {
	f[FieldBookID] = id
	f[FieldTitle] = title
	f[FieldAuthor] = author
	return f
}

// WithYear adds the reading year
func (f LogFields) WithYear(year int) LogFields {
	f[FieldYear] = year
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
