package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sql-converter/internal/utils/sql_translator"
)

func TestConversionRequest_PrettyOr(t *testing.T) {
	var req ConversionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"mysql_sql":"SELECT 1"}`), &req))
	assert.True(t, req.PrettyOr(true))
	assert.False(t, req.PrettyOr(false))

	require.NoError(t, json.Unmarshal([]byte(`{"mysql_sql":"SELECT 1","pretty":false}`), &req))
	assert.False(t, req.PrettyOr(true))
}

func TestConversionResponse_JSON(t *testing.T) {
	ok, err := json.Marshal(NewConversionSuccess("SELECT 1", "SELECT 1 FROM DUAL"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mysql_sql":"SELECT 1","oracle_sql":"SELECT 1 FROM DUAL","success":true,"error_message":null}`, string(ok))

	failed, err := json.Marshal(NewConversionFailure("", "empty SQL query"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mysql_sql":"","oracle_sql":null,"success":false,"error_message":"empty SQL query"}`, string(failed))
}

func TestParseResponse_JSON(t *testing.T) {
	parsed := &sql_translator.ParsedStructure{
		StatementCount: 1,
		Statements: []sql_translator.StatementInfo{
			{Type: "Select", SQL: "select 1 from dual", Tables: []string{"dual"}, Columns: []string{}},
		},
	}
	ok, err := json.Marshal(NewParseSuccess("SELECT 1 FROM dual", parsed))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"mysql_sql": "SELECT 1 FROM dual",
		"parsed_structure": {
			"statement_count": 1,
			"statements": [{"type": "Select", "sql": "select 1 from dual", "tables": ["dual"], "columns": []}]
		},
		"success": true,
		"error_message": null
	}`, string(ok))

	failed, err := json.Marshal(NewParseFailure("x", "bad"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mysql_sql":"x","parsed_structure":null,"success":false,"error_message":"bad"}`, string(failed))
}
