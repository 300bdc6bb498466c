// Package dialect, farklı veritabanları için tırnaklama, parametre yer tutucusu ve
// ifade biçimi kurallarını ve bu kurallarla SQL üreten Grammar'ı sağlar.
//
// Bir Dialect küçük bir yetenek kümesidir: identifier'ı hangi karakterle saracağı,
// parametre için hangi belirteci kullanacağı, LIMIT'i nasıl yazacağı ve "varsa değiştir"
// ifadesini nasıl kuracağı. Grammar bu kuralları kullanarak durumsuz biçimde
// (sql, args) çiftleri üretir.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package dialect

import (
	"strconv"
	"strings"

	"github.com/biyonik/fluentdb/internal/validation"
)

// AlwaysFalse is the predicate used by UPDATE and DELETE when the caller gives none.
// A forgotten predicate must touch zero rows, never the whole table.
const AlwaysFalse = "1=0"

// Dialect describes how one SQL backend spells identifiers, parameters and the few
// statements whose syntax differs between engines.
type Dialect interface {
	// Name returns the dialect identity ("mysql", "sqlite", "postgres", ...).
	Name() string

	// Quote validates an identifier and wraps it in the dialect's quote character.
	// "table.column" is quoted part by part; "*" is returned unchanged.
	Quote(identifier string) (string, error)

	// Placeholder returns the bind token for the 1-based parameter position.
	Placeholder(index int) string

	// Limit renders the pagination clause, without a leading space.
	Limit(offset, limit int) string

	// ReplaceVerb is the statement head for insert-or-replace ("REPLACE INTO", "INSERT INTO").
	ReplaceVerb() string

	// DefaultValues is the tail of an insert that carries no columns.
	DefaultValues() string

	// ConflictClause renders the trailing upsert clause for the given unique keys and
	// inserted columns. Dialects with a native REPLACE return "".
	ConflictClause(keys, columns []string) (string, error)
}

// LimitStyle selects how a dialect writes LIMIT.
type LimitStyle int

const (
	// LimitCommaOffset writes "LIMIT offset, limit" (MySQL, SQLite).
	LimitCommaOffset LimitStyle = iota
	// LimitOffsetKeyword writes "LIMIT limit OFFSET offset" (PostgreSQL, ANSI).
	LimitOffsetKeyword
)

// ReplaceStyle selects how a dialect implements insert-or-replace.
type ReplaceStyle int

const (
	// ReplaceNative uses the REPLACE INTO statement.
	ReplaceNative ReplaceStyle = iota
	// ReplaceOnConflict uses INSERT ... ON CONFLICT (keys) DO UPDATE.
	ReplaceOnConflict
)

// Options configures a Dialect. It is the "quote char + placeholder token" pair plus the
// handful of syntax switches that differ between engines.
type Options struct {
	Name string

	// QuoteChar wraps identifiers, e.g. "`" or `"`.
	QuoteChar string

	// Placeholder is the bind token, e.g. "?", "%s", or "$" when Numbered is set.
	Placeholder string

	// Numbered appends the 1-based parameter position to Placeholder ($1, $2, ...).
	Numbered bool

	LimitStyle   LimitStyle
	ReplaceStyle ReplaceStyle

	// DefaultValues is the tail used when inserting without columns.
	// Empty means "DEFAULT VALUES".
	DefaultValues string
}

// Custom builds a Dialect from explicit options, for backends not covered by the
// predefined constructors. QuoteChar defaults to a double quote and Placeholder to "?".
func Custom(opts Options) Dialect {
	if opts.Name == "" {
		opts.Name = "custom"
	}
	if opts.QuoteChar == "" {
		opts.QuoteChar = `"`
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "?"
	}
	if opts.DefaultValues == "" {
		opts.DefaultValues = "DEFAULT VALUES"
	}
	return &base{opts: opts}
}

// base implements Dialect from Options. The predefined dialects are all instances of it.
type base struct {
	opts Options
}

func (d *base) Name() string {
	return d.opts.Name
}

func (d *base) Quote(identifier string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	qualifier, name, err := validation.SplitQualified(identifier)
	if err != nil {
		return "", err
	}

	q := d.opts.QuoteChar
	if qualifier != "" {
		return q + qualifier + q + "." + q + name + q, nil
	}
	return q + name + q, nil
}

func (d *base) Placeholder(index int) string {
	if d.opts.Numbered {
		return d.opts.Placeholder + strconv.Itoa(index)
	}
	return d.opts.Placeholder
}

func (d *base) Limit(offset, limit int) string {
	if d.opts.LimitStyle == LimitOffsetKeyword {
		return "LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(offset)
	}
	return "LIMIT " + strconv.Itoa(offset) + ", " + strconv.Itoa(limit)
}

func (d *base) ReplaceVerb() string {
	if d.opts.ReplaceStyle == ReplaceOnConflict {
		return "INSERT INTO"
	}
	return "REPLACE INTO"
}

func (d *base) DefaultValues() string {
	return d.opts.DefaultValues
}

func (d *base) ConflictClause(keys, columns []string) (string, error) {
	if d.opts.ReplaceStyle != ReplaceOnConflict {
		return "", nil
	}
	if len(keys) == 0 {
		return "", ErrNoConflictKeys
	}

	quotedKeys := make([]string, len(keys))
	isKey := make(map[string]bool, len(keys))
	for i, k := range keys {
		wrapped, err := d.Quote(k)
		if err != nil {
			return "", err
		}
		quotedKeys[i] = wrapped
		isKey[k] = true
	}

	sets := make([]string, 0, len(columns))
	for _, col := range columns {
		if isKey[col] {
			continue
		}
		wrapped, err := d.Quote(col)
		if err != nil {
			return "", err
		}
		sets = append(sets, wrapped+" = EXCLUDED."+wrapped)
	}

	clause := "ON CONFLICT (" + strings.Join(quotedKeys, ", ") + ")"
	if len(sets) == 0 {
		return clause + " DO NOTHING", nil
	}
	return clause + " DO UPDATE SET " + strings.Join(sets, ", "), nil
}

// ForDriver maps a database/sql driver name to its dialect. Unknown names fall back to
// SQLite, whose syntax is the most permissive of the three.
func ForDriver(driver string) Dialect {
	switch driver {
	case "mysql":
		return MySQL()
	case "postgres", "pgx", "postgresql":
		return Postgres()
	default:
		return SQLite()
	}
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

// Dialect implementasyonları için ortak hatalar.
// Ana paket ile import döngüsünü önlemek için burada tanımlanmıştır.
var (
	ErrNoTable        = &DialectError{Message: "no table specified"}
	ErrColumnCount    = &DialectError{Message: "column and value counts differ"}
	ErrNoConflictKeys = &DialectError{Message: "upsert requires at least one conflict key"}
)

// DialectError, dialect'e özgü hataları temsil eder.
type DialectError struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
