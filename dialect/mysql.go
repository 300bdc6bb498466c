package dialect

// MySQL returns the MySQL / MariaDB dialect: backtick identifiers, "?" parameters,
// "LIMIT offset, limit", native REPLACE INTO. MySQL has no DEFAULT VALUES form, so a
// column-less insert is written "() VALUES ()".
func MySQL() Dialect {
	return &base{opts: Options{
		Name:          "mysql",
		QuoteChar:     "`",
		Placeholder:   "?",
		LimitStyle:    LimitCommaOffset,
		ReplaceStyle:  ReplaceNative,
		DefaultValues: "() VALUES ()",
	}}
}
