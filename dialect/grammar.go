package dialect

import (
	"strings"

	"github.com/biyonik/fluentdb/internal/validation"
)

/*
 * ----------------------------------------------------------------------------
 * GRAMMAR
 * ----------------------------------------------------------------------------
 *
 * Grammar, tek tablolu CRUD ifadelerini seçili Dialect kurallarıyla derler.
 * Derleme saf bir işlemdir: veritabanına dokunmaz, yalnızca (sql, args) üretir.
 *
 * Parça sırası her zaman aynıdır:
 * SELECT -> FROM -> WHERE -> ORDER BY -> LIMIT
 *
 * Koşul (WHERE) metinleri çağıran tarafından "?" yer tutucularıyla yazılır.
 * Derleme sonunda tüm "?" işaretleri soldan sağa dialect'in yer tutucusuna
 * çevrilir; böylece PostgreSQL'de SET parametreleri $1..$k, koşul parametreleri
 * $k+1.. olarak numaralanır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// Grammar compiles statements for one Dialect. It is stateless and safe for concurrent use.
type Grammar struct {
	d Dialect
}

// NewGrammar returns a Grammar for d. A nil dialect selects SQLite.
func NewGrammar(d Dialect) *Grammar {
	if d == nil {
		d = SQLite()
	}
	return &Grammar{d: d}
}

// Dialect returns the dialect the grammar compiles for.
func (g *Grammar) Dialect() Dialect {
	return g.d
}

// SelectStatement holds the parts of a single-table SELECT.
type SelectStatement struct {
	Table     string
	Columns   []string
	Where     string
	WhereArgs []any
	Order     string
	Offset    int
	Limit     int
}

// CompileSelect renders a SELECT. Empty Where omits the WHERE clause, empty Order omits
// ORDER BY, and a Limit <= 0 omits LIMIT (Offset is then ignored).
func (g *Grammar) CompileSelect(s SelectStatement) (string, []any, error) {
	table, err := g.table(s.Table)
	if err != nil {
		return "", nil, err
	}

	columns, err := g.Columns(s.Columns)
	if err != nil {
		return "", nil, err
	}

	var sql strings.Builder
	args := make([]any, 0, len(s.WhereArgs))

	sql.WriteString("SELECT ")
	sql.WriteString(columns)
	sql.WriteString(" FROM ")
	sql.WriteString(table)

	if s.Where != "" {
		sql.WriteString(" WHERE ")
		sql.WriteString(s.Where)
		args = append(args, s.WhereArgs...)
	}

	if s.Order != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(s.Order)
	}

	if s.Limit > 0 {
		offset := s.Offset
		if offset < 0 {
			offset = 0
		}
		sql.WriteString(" ")
		sql.WriteString(g.d.Limit(offset, s.Limit))
	}

	return g.rebind(sql.String()), args, nil
}

// CompileInsert renders an INSERT of one row. No columns produces the dialect's
// default-values form.
func (g *Grammar) CompileInsert(table string, columns []string, values []any) (string, []any, error) {
	return g.compileInsert("INSERT INTO", table, columns, values, "")
}

// CompileReplace renders an insert-or-replace of one row. keys are the unique columns
// used by dialects that need an explicit conflict target.
func (g *Grammar) CompileReplace(table string, columns []string, values []any, keys []string) (string, []any, error) {
	conflict, err := g.d.ConflictClause(keys, columns)
	if err != nil {
		return "", nil, err
	}
	return g.compileInsert(g.d.ReplaceVerb(), table, columns, values, conflict)
}

func (g *Grammar) compileInsert(verb, table string, columns []string, values []any, tail string) (string, []any, error) {
	wrappedTable, err := g.table(table)
	if err != nil {
		return "", nil, err
	}
	if len(columns) != len(values) {
		return "", nil, ErrColumnCount
	}

	var sql strings.Builder
	sql.WriteString(verb)
	sql.WriteString(" ")
	sql.WriteString(wrappedTable)

	if len(columns) == 0 {
		sql.WriteString(" ")
		sql.WriteString(g.d.DefaultValues())
	} else {
		wrapped, err := g.Columns(columns)
		if err != nil {
			return "", nil, err
		}
		sql.WriteString(" (")
		sql.WriteString(wrapped)
		sql.WriteString(") VALUES (")
		sql.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
		sql.WriteString(")")
	}

	if tail != "" {
		sql.WriteString(" ")
		sql.WriteString(tail)
	}

	args := make([]any, len(values))
	copy(args, values)
	return g.rebind(sql.String()), args, nil
}

// CompileUpdate renders an UPDATE. Arguments are SET values followed by where arguments.
// An empty where becomes AlwaysFalse.
func (g *Grammar) CompileUpdate(table string, columns []string, values []any, where string, whereArgs []any) (string, []any, error) {
	wrappedTable, err := g.table(table)
	if err != nil {
		return "", nil, err
	}
	if len(columns) != len(values) {
		return "", nil, ErrColumnCount
	}
	if len(columns) == 0 {
		return "", nil, &DialectError{Message: "update requires at least one column"}
	}

	sets := make([]string, len(columns))
	for i, col := range columns {
		wrapped, err := g.d.Quote(col)
		if err != nil {
			return "", nil, err
		}
		sets[i] = wrapped + " = ?"
	}

	if where == "" {
		where = AlwaysFalse
		whereArgs = nil
	}

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	sql.WriteString(wrappedTable)
	sql.WriteString(" SET ")
	sql.WriteString(strings.Join(sets, ", "))
	sql.WriteString(" WHERE ")
	sql.WriteString(where)

	args := make([]any, 0, len(values)+len(whereArgs))
	args = append(args, values...)
	args = append(args, whereArgs...)

	return g.rebind(sql.String()), args, nil
}

// CompileDelete renders a DELETE. An empty where becomes AlwaysFalse.
func (g *Grammar) CompileDelete(table, where string, whereArgs []any) (string, []any, error) {
	wrappedTable, err := g.table(table)
	if err != nil {
		return "", nil, err
	}

	if where == "" {
		where = AlwaysFalse
		whereArgs = nil
	}

	args := make([]any, len(whereArgs))
	copy(args, whereArgs)

	return g.rebind("DELETE FROM " + wrappedTable + " WHERE " + where), args, nil
}

// Columns renders a select or insert column list. No columns means "*".
func (g *Grammar) Columns(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}

	wrapped := make([]string, len(columns))
	for i, col := range columns {
		w, err := g.d.Quote(col)
		if err != nil {
			return "", err
		}
		wrapped[i] = w
	}
	return strings.Join(wrapped, ", "), nil
}

// Compare renders a single-value comparison predicate such as "`status` = ?".
// The placeholder stays "?"; it is rebound when the predicate is compiled into a statement.
func (g *Grammar) Compare(column, operator string) (string, error) {
	op, err := validation.NormalizeOperator(operator)
	if err != nil {
		return "", err
	}
	wrapped, err := g.d.Quote(column)
	if err != nil {
		return "", err
	}
	return wrapped + " " + op + " ?", nil
}

func (g *Grammar) table(name string) (string, error) {
	if name == "" {
		return "", ErrNoTable
	}
	return g.d.Quote(name)
}

// rebind replaces each "?" with the dialect placeholder for its position.
// Question marks inside string literals of caller predicates are rewritten too;
// predicates must bind such values as parameters.
func (g *Grammar) rebind(sql string) string {
	if g.d.Placeholder(1) == "?" && g.d.Placeholder(2) == "?" {
		return sql
	}
	return Rebind(g.d, sql)
}

// Rebind rewrites the "?" markers of sql into d's placeholders, numbering from 1.
func Rebind(d Dialect, sql string) string {
	var out strings.Builder
	out.Grow(len(sql) + 8)

	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			out.WriteByte(sql[i])
			continue
		}
		n++
		out.WriteString(d.Placeholder(n))
	}
	return out.String()
}
