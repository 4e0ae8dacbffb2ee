package sql_translator

import "errors"

// SQLTranslator defines the interface for SQL dialect translation
type SQLTranslator interface {
	// Translate converts SQL from source dialect to target dialect.
	// pretty only changes whitespace and line breaks of the output.
	Translate(sql, sourceDialect, targetDialect string, pretty bool) (string, error)

	// SupportedDialects returns the dialects this translator understands
	SupportedDialects() []string
}

// Dialect represents different SQL dialects
type Dialect string

const (
	MySQL  Dialect = "mysql"
	Oracle Dialect = "oracle"
)

// ValidationError represents an error when the input is rejected before translation
type ValidationError struct {
	Dialect string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error for dialect " + e.Dialect + ": " + e.Message
}

// TranslationError represents an error when SQL translation fails
type TranslationError struct {
	SourceDialect string
	TargetDialect string
	Message       string
	Cause         error
}

func (e *TranslationError) Error() string {
	msg := "translation error from " + e.SourceDialect + " to " + e.TargetDialect + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTranslationError checks if an error is a translation error
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
