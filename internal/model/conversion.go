package model

import "sql-converter/internal/utils/sql_translator"

// ConversionRequest asks for a MySQL statement to be rendered as Oracle SQL.
// Pretty is optional; nil means the configured default.
type ConversionRequest struct {
	MySQLSQL string `json:"mysql_sql" validate:"required,notblank"`
	Pretty   *bool  `json:"pretty,omitempty"`
}

// PrettyOr returns the requested pretty flag or def when it was omitted
func (r ConversionRequest) PrettyOr(def bool) bool {
	if r.Pretty == nil {
		return def
	}
	return *r.Pretty
}

// ConversionResponse holds either OracleSQL (Success true) or ErrorMessage
// (Success false), never both.
type ConversionResponse struct {
	MySQLSQL     string  `json:"mysql_sql"`
	OracleSQL    *string `json:"oracle_sql"`
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message"`
}

func NewConversionSuccess(mysqlSQL, oracleSQL string) ConversionResponse {
	return ConversionResponse{MySQLSQL: mysqlSQL, OracleSQL: &oracleSQL, Success: true}
}

func NewConversionFailure(mysqlSQL, message string) ConversionResponse {
	return ConversionResponse{MySQLSQL: mysqlSQL, Success: false, ErrorMessage: &message}
}

type ParseRequest struct {
	MySQLSQL string `json:"mysql_sql" validate:"required,notblank"`
}

// ParseResponse mirrors ConversionResponse with ParsedStructure in place of OracleSQL
type ParseResponse struct {
	MySQLSQL        string                          `json:"mysql_sql"`
	ParsedStructure *sql_translator.ParsedStructure `json:"parsed_structure"`
	Success         bool                            `json:"success"`
	ErrorMessage    *string                         `json:"error_message"`
}

func NewParseSuccess(mysqlSQL string, parsed *sql_translator.ParsedStructure) ParseResponse {
	return ParseResponse{MySQLSQL: mysqlSQL, ParsedStructure: parsed, Success: true}
}

func NewParseFailure(mysqlSQL, message string) ParseResponse {
	return ParseResponse{MySQLSQL: mysqlSQL, Success: false, ErrorMessage: &message}
}

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ServiceInfo is served at the API root
type ServiceInfo struct {
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
}
