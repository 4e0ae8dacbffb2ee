package sql_translator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(sql, sourceDialect, targetDialect string, pretty bool) (string, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubTranslator) SupportedDialects() []string {
	return []string{string(MySQL), string(Oracle)}
}

func TestSQLTranslationManager_Validation(t *testing.T) {
	stub := &stubTranslator{out: "SELECT 1 FROM DUAL"}
	stm := NewSQLTranslationManager(stub)

	tests := []struct {
		name   string
		sql    string
		source string
		target string
	}{
		{name: "empty sql", sql: "", source: "mysql", target: "oracle"},
		{name: "blank sql", sql: "  \n\t", source: "mysql", target: "oracle"},
		{name: "empty source", sql: "SELECT 1", source: "", target: "oracle"},
		{name: "empty target", sql: "SELECT 1", source: "mysql", target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stm.TranslateQuery(tt.sql, tt.source, tt.target, true)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
	assert.Zero(t, stub.calls)
}

func TestSQLTranslationManager_UnsupportedDialect(t *testing.T) {
	stm := NewSQLTranslationManager(&stubTranslator{})

	_, err := stm.TranslateQuery("SELECT 1", "mysql", "snowflake", true)
	require.Error(t, err)
	assert.True(t, IsTranslationError(err))
	assert.Contains(t, err.Error(), "unsupported target dialect: snowflake")
}

func TestSQLTranslationManager_SameDialectShortCircuits(t *testing.T) {
	stub := &stubTranslator{}
	stm := NewSQLTranslationManager(stub)

	out, err := stm.TranslateQuery("SELECT 1", "MySQL", "mysql", true)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)
	assert.Zero(t, stub.calls)
}

func TestSQLTranslationManager_WrapsForeignErrors(t *testing.T) {
	cause := errors.New("boom")
	stm := NewSQLTranslationManager(&stubTranslator{err: cause})

	_, err := stm.TranslateMySQLToOracle("SELECT 1", false)
	require.Error(t, err)
	assert.True(t, IsTranslationError(err))
	assert.ErrorIs(t, err, cause)
}

func TestSQLTranslationManager_KeepsTypedErrors(t *testing.T) {
	typed := &TranslationError{SourceDialect: "mysql", TargetDialect: "oracle", Message: "bad"}
	stm := NewSQLTranslationManager(&stubTranslator{err: typed})

	_, err := stm.TranslateMySQLToOracle("SELECT 1", false)
	assert.Same(t, typed, err)
}

func TestSQLTranslationManager_WithOracleTranslator(t *testing.T) {
	stm := NewSQLTranslationManager(NewOracleTranslator())

	out, err := stm.TranslateMySQLToOracle("SELECT name FROM users LIMIT 1", false)
	require.NoError(t, err)
	assert.Contains(t, out, "FETCH FIRST 1 ROWS ONLY")
}
