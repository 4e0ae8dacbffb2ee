package sql_translator

import (
	"errors"
	"strings"
)

// SQLTranslationManager manages SQL dialect translation
type SQLTranslationManager struct {
	translator SQLTranslator
}

// NewSQLTranslationManager creates a new SQL translation manager
func NewSQLTranslationManager(translator SQLTranslator) *SQLTranslationManager {
	return &SQLTranslationManager{
		translator: translator,
	}
}

// TranslateQuery translates a SQL query from a source dialect to the target database dialect
func (stm *SQLTranslationManager) TranslateQuery(sql string, sourceDialect, targetDialect string, pretty bool) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", &ValidationError{Dialect: sourceDialect, Message: "empty SQL query"}
	}
	if sourceDialect == "" {
		return "", &ValidationError{Message: "empty source dialect"}
	}
	if targetDialect == "" {
		return "", &ValidationError{Dialect: sourceDialect, Message: "empty target dialect"}
	}

	sourceDialect = strings.ToLower(sourceDialect)
	targetDialect = strings.ToLower(targetDialect)

	if !stm.supports(sourceDialect) {
		return "", &TranslationError{
			SourceDialect: sourceDialect,
			TargetDialect: targetDialect,
			Message:       "unsupported source dialect: " + sourceDialect,
		}
	}
	if !stm.supports(targetDialect) {
		return "", &TranslationError{
			SourceDialect: sourceDialect,
			TargetDialect: targetDialect,
			Message:       "unsupported target dialect: " + targetDialect,
		}
	}

	// If source and target are the same, return original SQL
	if sourceDialect == targetDialect {
		return sql, nil
	}

	translatedSQL, err := stm.translator.Translate(sql, sourceDialect, targetDialect, pretty)
	if err != nil {
		var ve *ValidationError
		var te *TranslationError
		if errors.As(err, &ve) || errors.As(err, &te) {
			return "", err
		}
		return "", &TranslationError{
			SourceDialect: sourceDialect,
			TargetDialect: targetDialect,
			Message:       "translator failed",
			Cause:         err,
		}
	}

	return translatedSQL, nil
}

// TranslateMySQLToOracle translates MySQL SQL to Oracle SQL
func (stm *SQLTranslationManager) TranslateMySQLToOracle(sql string, pretty bool) (string, error) {
	return stm.TranslateQuery(sql, string(MySQL), string(Oracle), pretty)
}

func (stm *SQLTranslationManager) supports(dialect string) bool {
	for _, d := range stm.translator.SupportedDialects() {
		if d == dialect {
			return true
		}
	}
	return false
}
