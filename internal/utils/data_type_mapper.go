package utils

import "strings"

// OracleColumnType is the Oracle rendering of a MySQL column type. When
// KeepLength is false the MySQL length and scale are dropped because Name
// already carries the precision.
type OracleColumnType struct {
	Name       string
	KeepLength bool
}

var mysqlToOracleTypes = map[string]OracleColumnType{
	"tinyint":    {Name: "NUMBER(3)"},
	"smallint":   {Name: "NUMBER(5)"},
	"mediumint":  {Name: "NUMBER(7)"},
	"int":        {Name: "NUMBER(10)"},
	"integer":    {Name: "NUMBER(10)"},
	"bigint":     {Name: "NUMBER(19)"},
	"year":       {Name: "NUMBER(4)"},
	"bit":        {Name: "NUMBER(1)"},
	"bool":       {Name: "NUMBER(1)"},
	"boolean":    {Name: "NUMBER(1)"},
	"decimal":    {Name: "NUMBER", KeepLength: true},
	"numeric":    {Name: "NUMBER", KeepLength: true},
	"float":      {Name: "BINARY_FLOAT"},
	"double":     {Name: "BINARY_DOUBLE"},
	"real":       {Name: "BINARY_DOUBLE"},
	"char":       {Name: "CHAR", KeepLength: true},
	"varchar":    {Name: "VARCHAR2", KeepLength: true},
	"tinytext":   {Name: "VARCHAR2(255)"},
	"text":       {Name: "CLOB"},
	"mediumtext": {Name: "CLOB"},
	"longtext":   {Name: "CLOB"},
	"json":       {Name: "CLOB"},
	"binary":     {Name: "RAW", KeepLength: true},
	"varbinary":  {Name: "RAW", KeepLength: true},
	"tinyblob":   {Name: "BLOB"},
	"blob":       {Name: "BLOB"},
	"mediumblob": {Name: "BLOB"},
	"longblob":   {Name: "BLOB"},
	"date":       {Name: "DATE"},
	"datetime":   {Name: "TIMESTAMP", KeepLength: true},
	"timestamp":  {Name: "TIMESTAMP", KeepLength: true},
}

// MapMySQLTypeToOracle returns the Oracle type for a MySQL column type name
// such as "varchar" or "BIGINT". ok is false for types without a mapping.
func MapMySQLTypeToOracle(mysqlType string) (OracleColumnType, bool) {
	t, ok := mysqlToOracleTypes[normalizeColumnType(mysqlType)]
	return t, ok
}

// normalizeColumnType lower-cases the type and strips size constraints
func normalizeColumnType(columnType string) string {
	normalized := strings.ToLower(strings.TrimSpace(columnType))

	if start := strings.Index(normalized, "("); start != -1 {
		if end := strings.Index(normalized[start:], ")"); end != -1 {
			normalized = normalized[:start] + normalized[start+end+1:]
		}
	}

	return strings.Join(strings.Fields(normalized), " ")
}
