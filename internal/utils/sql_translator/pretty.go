package sql_translator

import (
	"strings"
)

const prettyIndent = "  "

// Clause keywords that start a new line when they appear at the top level
var clauseStarters = toSet(
	"SELECT", "FROM", "WHERE", "HAVING", "OFFSET", "FETCH", "VALUES", "SET",
	"UNION", "MINUS", "INTERSECT", "EXCEPT", "JOIN", "STRAIGHT_JOIN",
)

// Join prefixes only start a clause when a JOIN follows
var joinPrefixes = toSet("LEFT", "RIGHT", "FULL", "INNER", "CROSS", "NATURAL", "OUTER")

type topLevelWord struct {
	start int
	word  string
}

// Prettify lays out a single-line statement with one clause per line and
// multi-item select lists one item per indented line. CREATE TABLE gets one
// column or constraint per indented line. Only whitespace is
// changed; quoted text and parenthesized expressions are left untouched.
func Prettify(sql string) string {
	sql = strings.TrimSpace(sql)
	if laidOut, ok := prettyCreateTable(sql); ok {
		return laidOut
	}
	words := topLevelWords(sql)

	var cuts []int
	for i, w := range words {
		if w.start == 0 {
			continue
		}
		prev, next := "", ""
		if i > 0 {
			prev = words[i-1].word
		}
		if i+1 < len(words) {
			next = words[i+1].word
		}
		if startsClause(prev, w.word, next) {
			cuts = append(cuts, w.start)
		}
	}

	var lines []string
	last := 0
	for _, cut := range cuts {
		lines = appendClause(lines, sql[last:cut])
		last = cut
	}
	lines = appendClause(lines, sql[last:])
	return strings.Join(lines, "\n")
}

// prettyCreateTable puts each column and constraint of a CREATE TABLE on its
// own indented line.
func prettyCreateTable(sql string) (string, bool) {
	open := firstUnquoted(sql, '(')
	if open < 0 {
		return "", false
	}
	head := strings.Fields(strings.ToUpper(sql[:open]))
	if len(head) < 3 || head[0] != "CREATE" {
		return "", false
	}
	isTable := false
	for _, w := range head {
		switch w {
		case "TABLE":
			isTable = true
		case "AS", "SELECT", "LIKE":
			return "", false
		}
	}
	closing := matchingParen(sql, open)
	if !isTable || closing < 0 {
		return "", false
	}

	items := splitTopLevel(sql[open+1:closing], ',')
	lines := make([]string, 0, len(items)+2)
	lines = append(lines, strings.TrimSpace(sql[:open])+" (")
	for i, item := range items {
		line := prettyIndent + strings.TrimSpace(item)
		if i < len(items)-1 {
			line += ","
		}
		lines = append(lines, line)
	}
	lines = append(lines, ")"+strings.TrimRight(sql[closing+1:], " "))
	return strings.Join(lines, "\n"), true
}

func startsClause(prev, word, next string) bool {
	switch word {
	case "GROUP", "ORDER":
		return next == "BY"
	case "FROM":
		// DELETE FROM stays on one line
		return prev != "DELETE"
	case "JOIN":
		return !joinPrefixes[prev]
	case "SELECT":
		// INSERT ... SELECT and set operations; UNION ALL SELECT breaks too
		return true
	}
	if joinPrefixes[word] {
		if joinPrefixes[prev] {
			return false
		}
		return next == "JOIN" || joinPrefixes[next]
	}
	return clauseStarters[word]
}

func appendClause(lines []string, clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return lines
	}
	if !strings.HasPrefix(clause, "SELECT ") {
		return append(lines, clause)
	}

	head := "SELECT"
	body := strings.TrimSpace(strings.TrimPrefix(clause, "SELECT"))
	for _, modifier := range []string{"DISTINCT ", "ALL "} {
		if strings.HasPrefix(body, modifier) {
			head += " " + strings.TrimSpace(modifier)
			body = strings.TrimSpace(strings.TrimPrefix(body, modifier))
		}
	}

	items := splitTopLevel(body, ',')
	if len(items) < 2 {
		return append(lines, clause)
	}
	lines = append(lines, head)
	for i, item := range items {
		line := prettyIndent + strings.TrimSpace(item)
		if i < len(items)-1 {
			line += ","
		}
		lines = append(lines, line)
	}
	return lines
}

// topLevelWords returns the upper-cased words of sql that sit outside quotes
// and parentheses and are preceded by a space or the start of the string.
func topLevelWords(sql string) []topLevelWord {
	var words []topLevelWord
	scanTopLevel(sql, func(i int) int {
		if i > 0 && sql[i-1] != ' ' {
			return i + 1
		}
		end := i
		for end < len(sql) && isWordByte(sql[end]) {
			end++
		}
		if end == i {
			return i + 1
		}
		words = append(words, topLevelWord{start: i, word: strings.ToUpper(sql[i:end])})
		return end
	})
	return words
}

// splitTopLevel splits s at every sep that sits outside quotes and parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	last := 0
	scanTopLevel(s, func(i int) int {
		if s[i] == sep {
			parts = append(parts, s[last:i])
			last = i + 1
		}
		return i + 1
	})
	return append(parts, s[last:])
}

// scanTopLevel calls visit for each byte offset at parenthesis depth 0 that
// is outside single-quoted strings and double-quoted identifiers. visit
// returns the offset to continue from.
func scanTopLevel(s string, visit func(i int) int) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			i++
		case c == '\'' || c == '"':
			quote = c
			i++
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case depth == 0:
			next := visit(i)
			if next <= i {
				next = i + 1
			}
			i = next
		default:
			i++
		}
	}
}

// compactLayout puts sql on a single line. A whitespace run that holds a
// newline or tab becomes one space, or nothing right inside parentheses.
// Quoted text is copied as is.
func compactLayout(sql string) string {
	if !strings.ContainsAny(sql, "\n\t") {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql))
	var quote, last byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case isSpace(c):
			end := i
			for end < len(sql) && isSpace(sql[end]) {
				end++
			}
			run := sql[i:end]
			i = end - 1
			if !strings.ContainsAny(run, "\n\t") {
				b.WriteString(run)
				last = ' '
				continue
			}
			if last != 0 && last != '(' && last != ' ' && (end >= len(sql) || sql[end] != ')') {
				b.WriteByte(' ')
				last = ' '
			}
			continue
		}
		b.WriteByte(c)
		last = c
	}
	return strings.TrimSpace(b.String())
}

// firstUnquoted returns the offset of the first c outside quotes, or -1.
func firstUnquoted(s string, c byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		switch {
		case quote != 0:
			if s[i] == quote {
				quote = 0
			}
		case s[i] == '\'' || s[i] == '"':
			quote = s[i]
		case s[i] == c:
			return i
		}
	}
	return -1
}

// matchingParen returns the offset of the parenthesis closing the one at open.
func matchingParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c == '#' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
