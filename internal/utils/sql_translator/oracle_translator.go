package sql_translator

import (
	"errors"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

// OracleTranslator translates MySQL statements into Oracle SQL.
// Parsing is done by the vitess MySQL grammar; the Oracle text is produced by
// running the vitess formatter with an Oracle node formatter.
type OracleTranslator struct {
	parser *sqlparser.Parser
}

// NewOracleTranslator creates a new MySQL to Oracle translator
func NewOracleTranslator() *OracleTranslator {
	return &OracleTranslator{
		parser: sqlparser.NewTestParser(),
	}
}

// SupportedDialects returns a list of supported SQL dialects
func (t *OracleTranslator) SupportedDialects() []string {
	return []string{string(MySQL), string(Oracle)}
}

// Translate converts MySQL SQL into Oracle SQL. Multiple statements are
// translated one by one and joined with ";\n".
func (t *OracleTranslator) Translate(sql, sourceDialect, targetDialect string, pretty bool) (string, error) {
	if sourceDialect != string(MySQL) || targetDialect != string(Oracle) {
		return "", &TranslationError{
			SourceDialect: sourceDialect,
			TargetDialect: targetDialect,
			Message:       "only mysql to oracle translation is supported",
		}
	}

	stmts, err := t.ParseStatements(sql)
	if err != nil {
		return "", err
	}

	translated := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		rendered, err := renderOracle(stmt)
		if err != nil {
			return "", err
		}
		if pretty {
			rendered = Prettify(rendered)
		}
		translated = append(translated, rendered)
	}

	return strings.Join(translated, ";\n"), nil
}

// ParseStatements splits sql into statements and parses each one with the
// MySQL grammar. Comment-only pieces are skipped.
func (t *OracleTranslator) ParseStatements(sql string) ([]sqlparser.Statement, error) {
	pieces, err := t.parser.SplitStatementToPieces(sql)
	if err != nil {
		return nil, &TranslationError{
			SourceDialect: string(MySQL),
			TargetDialect: string(Oracle),
			Message:       "failed to split statements",
			Cause:         err,
		}
	}

	var stmts []sqlparser.Statement
	for _, piece := range pieces {
		piece = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(piece), ";"))
		if piece == "" {
			continue
		}
		stmt, err := t.parser.Parse(piece)
		if err != nil {
			if errors.Is(err, sqlparser.ErrEmpty) {
				continue
			}
			return nil, &TranslationError{
				SourceDialect: string(MySQL),
				TargetDialect: string(Oracle),
				Message:       "failed to parse statement",
				Cause:         err,
			}
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		return nil, &ValidationError{
			Dialect: string(MySQL),
			Message: "no SQL statements found",
		}
	}
	return stmts, nil
}

func renderOracle(stmt sqlparser.Statement) (string, error) {
	if err := checkOracleSupport(stmt); err != nil {
		return "", err
	}

	buf := sqlparser.NewTrackedBuffer(formatOracleNode)
	buf.SetUpperCase(true)
	buf.Myprintf("%v", stmt)
	// DDL comes back laid out over several lines
	return compactLayout(buf.String()), nil
}

// checkOracleSupport rejects constructs that have no Oracle rendering.
func checkOracleSupport(stmt sqlparser.Statement) error {
	return sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.Update:
			if n != nil && n.Limit != nil {
				return false, unsupported("UPDATE with LIMIT")
			}
		case *sqlparser.Delete:
			if n != nil && n.Limit != nil {
				return false, unsupported("DELETE with LIMIT")
			}
		case *sqlparser.Insert:
			if n != nil && len(n.OnDup) > 0 {
				return false, unsupported("INSERT ... ON DUPLICATE KEY UPDATE")
			}
		case *sqlparser.AliasedTableExpr:
			if n != nil && len(n.Columns) > 0 {
				return false, unsupported("derived table column list")
			}
		}
		return true, nil
	}, stmt)
}

func unsupported(construct string) error {
	return &TranslationError{
		SourceDialect: string(MySQL),
		TargetDialect: string(Oracle),
		Message:       construct + " has no Oracle equivalent",
	}
}
