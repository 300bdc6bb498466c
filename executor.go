package fluentdb

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/biyonik/fluentdb/dialect"
)

/*
=======================================================================================================================
  FLUENTDB – Yürütücü Katmanı

  Builder'ın ürettiği (sql, args) çiftleri bir QueryExecutor üzerinde çalışır.
  İster *sql.DB, ister *sql.Tx, ister *sql.Conn olsun; aynı arayüz kullanıldığı için
  iş mantığı değişmeden aynı kod her ortamda çalışır.

  DB, yürütücüyü dialect, logger, debug ve tablo öneki ayarlarıyla birlikte taşır.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
  @linkedin  linkedin.com/in/biyonik
  @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

// QueryExecutor, *sql.DB, *sql.Tx ve *sql.Conn'un ortak olarak sağladığı iki yeteneği
// soyutlar: sonuç satırı döndürmeyen komutları çalıştırmak ve satır döndüren sorguları
// çalıştırmak.
type QueryExecutor interface {
	// ExecContext -> INSERT/UPDATE/DELETE gibi sonuç satırı döndürmeyen komutlar için.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)

	// QueryContext -> Satır döndüren SELECT sorguları için.
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Compile-time kontrolü.
var (
	_ QueryExecutor = (*sql.DB)(nil)
	_ QueryExecutor = (*sql.Tx)(nil)
	_ QueryExecutor = (*sql.Conn)(nil)
	_ QueryExecutor = (*Tx)(nil)
)

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// DB, bir QueryExecutor'ı sarar ve üzerine grammar, scanner, logger, debug ve prefix
// ayarlarını ekler.
type DB struct {
	exec    QueryExecutor
	grammar *dialect.Grammar
	scanner Scanner
	logger  Logger
	debug   bool
	prefix  string
}

// NewDB, verilen yürütücü için bir DB oluşturur. Varsayılan dialect SQLite, varsayılan
// logger NopLogger'dır. exec nil olabilir; bu durumda yalnızca derleme metotları çalışır.
func NewDB(exec QueryExecutor, opts ...Option) *DB {
	d := &DB{
		exec:   exec,
		logger: NopLogger{},
	}

	applyOptions(d, opts)

	if d.grammar == nil {
		d.grammar = dialect.NewGrammar(dialect.SQLite())
	}
	if d.scanner == nil {
		d.scanner = NewDefaultScanner()
	}

	return d
}

// Executor, sarılan yürütücüyü döndürür.
func (d *DB) Executor() QueryExecutor {
	return d.exec
}

// Dialect, aktif dialect'i döndürür.
func (d *DB) Dialect() dialect.Dialect {
	return d.grammar.Dialect()
}

// Grammar, aktif derleyiciyi döndürür.
func (d *DB) Grammar() *dialect.Grammar {
	return d.grammar
}

// Scanner, Record → struct tarayıcısını döndürür.
func (d *DB) Scanner() Scanner {
	return d.scanner
}

// Logger, ifade logger'ını döndürür.
func (d *DB) Logger() Logger {
	return d.logger
}

// TablePrefix, tablo adlarına eklenen öneki döndürür.
func (d *DB) TablePrefix() string {
	return d.prefix
}

// IsDebug, ifadelerin loglanıp loglanmadığını bildirir.
func (d *DB) IsDebug() bool {
	return d.debug
}

// Table, verilen tablo üzerinde çalışan yeni bir Builder oluşturur.
// Tablo öneki burada eklenir.
func (d *DB) Table(name string) *Builder {
	return newBuilder(d, d.exec, d.prefix+name)
}

// ExecContext, ham bir ifadeyi çalıştırır ve debug açıksa loglar.
// Şema oluşturma gibi Builder'ın kapsamadığı ifadeler içindir.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.execOn(ctx, d.exec, query, args)
}

// BeginTx, manuel bir transaction başlatır. Yürütücü transaction başlatamıyorsa
// (örneğin zaten bir *sql.Tx ise) ErrNoExecutor döner.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	b, ok := d.exec.(txBeginner)
	if !ok {
		return nil, ErrNoExecutor
	}

	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError("begin transaction", err)
	}

	return &Tx{
		tx: tx,
		db: &DB{
			grammar: d.grammar,
			scanner: d.scanner,
			logger:  d.logger,
			debug:   d.debug,
			prefix:  d.prefix,
		},
	}, nil
}

// Transaction, fn'i bir transaction içinde çalıştırır. fn hata dönerse veya panic
// olursa rollback, aksi halde commit yapılır.
func (d *DB) Transaction(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return WrapError("rollback after error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Ping, bağlantının canlı olup olmadığını kontrol eder.
func (d *DB) Ping(ctx context.Context) error {
	p, ok := d.exec.(pinger)
	if !ok {
		return nil
	}
	return p.PingContext(ctx)
}

// Close, yürütücü kapatılabiliyorsa kapatır.
func (d *DB) Close() error {
	c, ok := d.exec.(io.Closer)
	if !ok {
		return nil
	}
	return c.Close()
}

func (d *DB) execOn(ctx context.Context, exec QueryExecutor, query string, args []any) (sql.Result, error) {
	if exec == nil {
		return nil, ErrNoExecutor
	}
	start := time.Now()
	res, err := exec.ExecContext(ctx, query, args...)
	d.log(query, args, start, err)
	return res, err
}

func (d *DB) queryOn(ctx context.Context, exec QueryExecutor, query string, args []any) (*sql.Rows, error) {
	if exec == nil {
		return nil, ErrNoExecutor
	}
	start := time.Now()
	rows, err := exec.QueryContext(ctx, query, args...)
	d.log(query, args, start, err)
	return rows, err
}

func (d *DB) log(query string, args []any, start time.Time, err error) {
	if !d.debug {
		return
	}
	d.logger.Log(query, args, time.Since(start), err)
}
