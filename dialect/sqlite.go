package dialect

// SQLite returns the SQLite dialect. SQLite accepts backtick quoting for compatibility
// with MySQL, supports "LIMIT offset, limit" and has a native REPLACE INTO.
func SQLite() Dialect {
	return &base{opts: Options{
		Name:          "sqlite",
		QuoteChar:     "`",
		Placeholder:   "?",
		LimitStyle:    LimitCommaOffset,
		ReplaceStyle:  ReplaceNative,
		DefaultValues: "DEFAULT VALUES",
	}}
}
