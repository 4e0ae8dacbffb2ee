package sql_translator

import (
	"regexp"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"

	"sql-converter/internal/utils"
)

// MySQL functions that only differ from Oracle by name
var oracleFunctionNames = map[string]string{
	"ifnull":           "NVL",
	"lcase":            "LOWER",
	"ucase":            "UPPER",
	"char_length":      "LENGTH",
	"character_length": "LENGTH",
}

// Argument-less MySQL time functions and the Oracle keyword they become
var oracleTimeKeywords = map[string]string{
	"now":               "CURRENT_TIMESTAMP",
	"current_timestamp": "CURRENT_TIMESTAMP",
	"localtime":         "CURRENT_TIMESTAMP",
	"localtimestamp":    "CURRENT_TIMESTAMP",
	"sysdate":           "CURRENT_TIMESTAMP",
	"curdate":           "CURRENT_DATE",
	"current_date":      "CURRENT_DATE",
}

var oracleReservedWords = toSet(
	"ACCESS", "ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "AUDIT", "BETWEEN", "BY",
	"CHAR", "CHECK", "CLUSTER", "COLUMN", "COMMENT", "COMPRESS", "CONNECT", "CREATE",
	"CURRENT", "DATE", "DECIMAL", "DEFAULT", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE",
	"EXCLUSIVE", "EXISTS", "FILE", "FLOAT", "FOR", "FROM", "GRANT", "GROUP", "HAVING",
	"IDENTIFIED", "IMMEDIATE", "IN", "INCREMENT", "INDEX", "INITIAL", "INSERT", "INTEGER",
	"INTERSECT", "INTO", "IS", "LEVEL", "LIKE", "LOCK", "LONG", "MAXEXTENTS", "MINUS",
	"MLSLABEL", "MODE", "MODIFY", "NOAUDIT", "NOCOMPRESS", "NOT", "NOWAIT", "NULL", "NUMBER",
	"OF", "OFFLINE", "ON", "ONLINE", "OPTION", "OR", "ORDER", "PCTFREE", "PRIOR", "PUBLIC",
	"RAW", "RENAME", "RESOURCE", "REVOKE", "ROW", "ROWID", "ROWNUM", "ROWS", "SELECT",
	"SESSION", "SET", "SHARE", "SIZE", "SMALLINT", "START", "SUCCESSFUL", "SYNONYM",
	"SYSDATE", "TABLE", "THEN", "TO", "TRIGGER", "UID", "UNION", "UNIQUE", "UPDATE", "USER",
	"VALIDATE", "VALUES", "VARCHAR", "VARCHAR2", "VIEW", "WHENEVER", "WHERE", "WITH",
)

// Words the pretty printer breaks lines on. Bare identifiers spelled like
// one of them are quoted so the layout never splits on a column name.
var layoutKeywords = toSet(
	"OFFSET", "FETCH", "JOIN", "STRAIGHT_JOIN", "LEFT", "RIGHT", "FULL", "INNER",
	"CROSS", "NATURAL", "OUTER", "EXCEPT",
)

var plainIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*$`)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// formatOracleNode is a sqlparser.NodeFormatter. Nodes it does not know are
// rendered by vitess itself; their children still come back through here.
func formatOracleNode(buf *sqlparser.TrackedBuffer, node sqlparser.SQLNode) {
	switch n := node.(type) {
	case sqlparser.IdentifierCI:
		buf.WriteString(OracleIdentifier(n.String()))
	case sqlparser.IdentifierCS:
		buf.WriteString(OracleIdentifier(n.String()))
	case sqlparser.TableName:
		formatTableName(buf, n)
	case *sqlparser.TableName:
		if n != nil {
			formatTableName(buf, *n)
		}
	case *sqlparser.ColName:
		if n == nil {
			return
		}
		if !n.Qualifier.IsEmpty() {
			formatTableName(buf, n.Qualifier)
			buf.WriteString(".")
		}
		buf.WriteString(OracleIdentifier(n.Name.String()))
	case *sqlparser.Literal:
		if n == nil {
			return
		}
		if n.Type == sqlparser.StrVal {
			buf.WriteString(OracleString(n.Val))
			return
		}
		n.Format(buf)
	case sqlparser.BoolVal:
		if n {
			buf.WriteString("1")
		} else {
			buf.WriteString("0")
		}
	case *sqlparser.Limit:
		formatLimit(buf, n)
	case *sqlparser.AliasedTableExpr:
		if n == nil {
			return
		}
		// index hints only steer the MySQL optimizer and are dropped
		buf.Myprintf("%v%v", n.Expr, n.Partitions)
		if !n.As.IsEmpty() {
			buf.WriteString(" ")
			buf.WriteString(OracleIdentifier(n.As.String()))
		}
	case *sqlparser.GroupBy:
		formatGroupBy(buf, n)
	case *sqlparser.AliasedExpr:
		if n == nil {
			return
		}
		buf.Myprintf("%v", n.Expr)
		if !n.As.IsEmpty() {
			buf.WriteString(" AS ")
			buf.WriteString(OracleIdentifier(n.As.String()))
		}
	case *sqlparser.FuncExpr:
		if n != nil {
			formatFuncExpr(buf, n)
		}
	case *sqlparser.ColumnType:
		if n != nil {
			formatColumnType(buf, n)
		}
	case *sqlparser.CurTimeFuncExpr:
		if n == nil {
			return
		}
		if kw, ok := oracleTimeKeywords[n.Name.Lowered()]; ok {
			buf.WriteString(kw)
			return
		}
		n.Format(buf)
	default:
		node.Format(buf)
	}
}

func formatColumnType(buf *sqlparser.TrackedBuffer, ct *sqlparser.ColumnType) {
	mapped, ok := utils.MapMySQLTypeToOracle(ct.Type)
	if !ok {
		ct.Format(buf)
		return
	}
	oracle := *ct
	oracle.Type = mapped.Name
	oracle.Unsigned = false
	oracle.Zerofill = false
	if !mapped.KeepLength {
		oracle.Length = nil
		oracle.Scale = nil
	}
	oracle.Format(buf)
}

func formatTableName(buf *sqlparser.TrackedBuffer, name sqlparser.TableName) {
	if name.Name.IsEmpty() {
		return
	}
	// the parser fills FROM-less selects with dual
	if name.Qualifier.IsEmpty() && strings.EqualFold(name.Name.String(), "dual") {
		buf.WriteString("DUAL")
		return
	}
	if !name.Qualifier.IsEmpty() {
		buf.WriteString(OracleIdentifier(name.Qualifier.String()))
		buf.WriteString(".")
	}
	buf.WriteString(OracleIdentifier(name.Name.String()))
}

// formatGroupBy renders WITH ROLLUP as the ROLLUP grouping function.
func formatGroupBy(buf *sqlparser.TrackedBuffer, gb *sqlparser.GroupBy) {
	if gb == nil || len(gb.Exprs) == 0 {
		return
	}
	buf.WriteString(" GROUP BY ")
	if gb.WithRollup {
		buf.WriteString("ROLLUP (")
	}
	for i, expr := range gb.Exprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.Myprintf("%v", expr)
	}
	if gb.WithRollup {
		buf.WriteString(")")
	}
}

// formatLimit renders LIMIT as the row limiting clause.
func formatLimit(buf *sqlparser.TrackedBuffer, limit *sqlparser.Limit) {
	if limit == nil {
		return
	}
	if limit.Offset != nil {
		buf.Myprintf(" OFFSET %v ROWS", limit.Offset)
		if limit.Rowcount != nil {
			buf.Myprintf(" FETCH NEXT %v ROWS ONLY", limit.Rowcount)
		}
		return
	}
	if limit.Rowcount != nil {
		buf.Myprintf(" FETCH FIRST %v ROWS ONLY", limit.Rowcount)
	}
}

func formatFuncExpr(buf *sqlparser.TrackedBuffer, fn *sqlparser.FuncExpr) {
	if !fn.Qualifier.IsEmpty() {
		fn.Format(buf)
		return
	}

	name := fn.Name.Lowered()
	args := directExprs(fn)

	switch {
	case name == "concat" && len(args) > 1:
		buf.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				buf.WriteString(" || ")
			}
			if isAtom(arg) {
				buf.Myprintf("%v", arg)
			} else {
				buf.Myprintf("(%v)", arg)
			}
		}
		buf.WriteString(")")
		return
	case name == "rand" && len(args) == 0:
		buf.WriteString("DBMS_RANDOM.VALUE")
		return
	case len(args) == 0 && oracleTimeKeywords[name] != "":
		buf.WriteString(oracleTimeKeywords[name])
		return
	}

	if renamed, ok := oracleFunctionNames[name]; ok {
		clone := *fn
		clone.Name = sqlparser.NewIdentifierCI(renamed)
		clone.Format(buf)
		return
	}
	fn.Format(buf)
}

// directExprs returns the expressions directly below parent, in order.
func directExprs(parent sqlparser.SQLNode) []sqlparser.Expr {
	var exprs []sqlparser.Expr
	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if node == parent {
			return true, nil
		}
		if expr, ok := node.(sqlparser.Expr); ok {
			exprs = append(exprs, expr)
			return false, nil
		}
		return true, nil
	}, parent)
	return exprs
}

func isAtom(expr sqlparser.Expr) bool {
	switch expr.(type) {
	case *sqlparser.ColName, *sqlparser.Literal, *sqlparser.FuncExpr, *sqlparser.NullVal:
		return true
	}
	return false
}

// OracleIdentifier returns name unquoted when Oracle accepts it bare, and
// double-quoted otherwise.
func OracleIdentifier(name string) string {
	if name == "" {
		return ""
	}
	upper := strings.ToUpper(name)
	if plainIdentifier.MatchString(name) && !oracleReservedWords[upper] && !layoutKeywords[upper] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// OracleString quotes a string literal the Oracle way.
func OracleString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
