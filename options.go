package fluentdb

import "github.com/biyonik/fluentdb/dialect"

// -----------------------------------------------------------------------------
//  Bu dosya; DB yapısının yapılandırma katmanını oluşturan Option mimarisini
//  içerir. Her With* fonksiyonu DB kurulumuna eklenen küçük bir ayardır;
//  yeni bir ayar eklemek mevcut çağrıları değiştirmez.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option, bir *DB* örneği üzerinde çalışan yapılandırma fonksiyonudur.
type Option func(*DB)

// WithDialect, ifadelerin derleneceği dialect'i belirler. Varsayılan SQLite'tır.
//
// Örnek:
//
//	db := fluentdb.NewDB(sqlDB, fluentdb.WithDialect(dialect.Postgres()))
func WithDialect(d dialect.Dialect) Option {
	return func(db *DB) {
		db.grammar = dialect.NewGrammar(d)
	}
}

// WithScanner, Record'ları struct'lara aktaran tarayıcıyı değiştirir.
func WithScanner(s Scanner) Option {
	return func(db *DB) {
		db.scanner = s
	}
}

// WithDebug, debug modunu açar veya kapatır. Açıkken çalışan her ifade
// Logger'a iletilir.
//
// Örnek:
//
//	db := fluentdb.NewDB(sqlDB, fluentdb.WithDebug(true))
func WithDebug(enabled bool) Option {
	return func(db *DB) {
		db.debug = enabled
	}
}

// WithLogger, ifadelerin iletileceği logger'ı belirler.
//
// Örnek:
//
//	db := fluentdb.NewDB(sqlDB,
//	    fluentdb.WithDebug(true),
//	    fluentdb.WithLogger(fluentdb.NewZerologLogger(log)),
//	)
func WithLogger(logger Logger) Option {
	return func(db *DB) {
		if logger == nil {
			logger = NopLogger{}
		}
		db.logger = logger
	}
}

// WithTablePrefix, tüm tablo adlarına önek ekler.
//
//	db := fluentdb.NewDB(sqlDB, fluentdb.WithTablePrefix("app_"))
//	// db.Table("projectdb")  →  "app_projectdb"
func WithTablePrefix(prefix string) Option {
	return func(db *DB) {
		db.prefix = prefix
	}
}

func applyOptions(db *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(db)
		}
	}
}
