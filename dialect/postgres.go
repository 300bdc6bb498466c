package dialect

// Postgres returns the PostgreSQL dialect: double-quoted identifiers, numbered "$n"
// parameters, "LIMIT n OFFSET m", and INSERT ... ON CONFLICT for replace.
func Postgres() Dialect {
	return &base{opts: Options{
		Name:          "postgres",
		QuoteChar:     `"`,
		Placeholder:   "$",
		Numbered:      true,
		LimitStyle:    LimitOffsetKeyword,
		ReplaceStyle:  ReplaceOnConflict,
		DefaultValues: "DEFAULT VALUES",
	}}
}
