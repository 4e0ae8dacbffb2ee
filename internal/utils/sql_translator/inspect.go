package sql_translator

import (
	"fmt"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

// StatementInfo describes one parsed MySQL statement
type StatementInfo struct {
	Type    string   `json:"type"`
	SQL     string   `json:"sql"`
	Tables  []string `json:"tables"`
	Columns []string `json:"columns"`
}

// ParsedStructure is the parse result of a MySQL input that may hold several statements
type ParsedStructure struct {
	StatementCount int             `json:"statement_count"`
	Statements     []StatementInfo `json:"statements"`
}

// Inspect parses MySQL SQL and reports, per statement, its kind, canonical
// text and the tables and columns it references.
func (t *OracleTranslator) Inspect(sql string) (*ParsedStructure, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, &ValidationError{Dialect: string(MySQL), Message: "empty SQL query"}
	}

	stmts, err := t.ParseStatements(sql)
	if err != nil {
		return nil, err
	}

	result := &ParsedStructure{
		StatementCount: len(stmts),
		Statements:     make([]StatementInfo, 0, len(stmts)),
	}
	for _, stmt := range stmts {
		result.Statements = append(result.Statements, inspectStatement(stmt))
	}
	return result, nil
}

func inspectStatement(stmt sqlparser.Statement) StatementInfo {
	tables := newOrderedSet()
	columns := newOrderedSet()

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.ColName:
			if n != nil {
				columns.add(qualified(n.Qualifier, n.Name.String()))
			}
			// the qualifier of a column is an alias, not a table reference
			return false, nil
		case *sqlparser.StarExpr:
			return false, nil
		case sqlparser.TableName:
			tables.add(tableName(n))
		case *sqlparser.TableName:
			if n != nil {
				tables.add(tableName(*n))
			}
		}
		return true, nil
	}, stmt)

	return StatementInfo{
		Type:    statementType(stmt),
		SQL:     sqlparser.String(stmt),
		Tables:  tables.items,
		Columns: columns.items,
	}
}

func statementType(stmt sqlparser.Statement) string {
	name := fmt.Sprintf("%T", stmt)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func tableName(name sqlparser.TableName) string {
	if name.Name.IsEmpty() {
		return ""
	}
	if name.Qualifier.IsEmpty() {
		return name.Name.String()
	}
	return name.Qualifier.String() + "." + name.Name.String()
}

func qualified(qualifier sqlparser.TableName, column string) string {
	if prefix := tableName(qualifier); prefix != "" {
		return prefix + "." + column
	}
	return column
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(item string) {
	if item == "" || s.seen[item] {
		return
	}
	s.seen[item] = true
	s.items = append(s.items, item)
}
