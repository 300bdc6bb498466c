package fluentdb

import (
	"context"
	"iter"

	"github.com/biyonik/fluentdb/dialect"
)

// Builder, tek bir tablo üzerinde CRUD ifadelerini derleyip çalıştıran sınıftır.
//
// Her operasyon iki biçimde sunulur: veritabanına dokunmayan To*SQL metotları
// (sql, args) döndürür; Select, Insert, Replace, Update ve Delete ise aynı ifadeyi
// yürütücü üzerinde çalıştırır.
//
// Genel kullanım örneği:
//
//	for rec, err := range db.Table("projectdb").SelectRecords(ctx, fluentdb.Query{
//	    Fields: []string{"name", "status"},
//	    Where:  fluentdb.NewWhere("`status` = ?", "RUNNING"),
//	    Order:  "updatetime DESC",
//	}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec["name"])
//	}
//
// Key ve Table ayarlayıcıları Builder'ı değiştirir; bu yüzden Builder eşzamanlı
// ayarlama için güvenli değildir. Derleme ve çalıştırma metotları ise güvenlidir.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
type Builder struct {
	db       *DB
	executor QueryExecutor

	table string

	// Replace için çakışma anahtarları (PostgreSQL ON CONFLICT hedefi).
	keys []string
}

func newBuilder(db *DB, executor QueryExecutor, table string) *Builder {
	return &Builder{
		db:       db,
		executor: executor,
		table:    table,
	}
}

// Table, yürütücü olmadan yalnızca SQL üretmek için bir Builder oluşturan kısayoldur.
//
//	sql, args, err := fluentdb.Table("projectdb").ToDeleteSQL(fluentdb.NewWhere("`name` = ?", "a"))
func Table(name string, opts ...Option) *Builder {
	return NewDB(nil, opts...).Table(name)
}

// Key, Replace'in çakışma anahtarı olarak kullanacağı benzersiz kolonları ayarlar.
func (b *Builder) Key(columns ...string) *Builder {
	b.keys = append(b.keys[:0:0], columns...)
	return b
}

// Table, varsayılan tablo adını değiştirir. Önek eklenmez.
func (b *Builder) Table(name string) *Builder {
	b.table = name
	return b
}

// TableName, builder'ın varsayılan tablosunu döndürür.
func (b *Builder) TableName() string {
	return b.table
}

// Keys, çakışma anahtarlarını döndürür.
func (b *Builder) Keys() []string {
	return b.keys
}

// Compare, "kolon OP ?" biçiminde tek değerli bir koşul üretir.
// Kolon adı ve operatör doğrulanır.
//
//	where, err := b.Compare("updatetime", ">=", ts)
func (b *Builder) Compare(column, operator string, value any) (Where, error) {
	pred, err := b.db.grammar.Compare(column, operator)
	if err != nil {
		return Where{}, translateValidation(err)
	}
	return NewWhere(pred, value), nil
}

// ----------------------------------------------------------------------------
// Derleme (veritabanına dokunmaz)
// ----------------------------------------------------------------------------

// queryTable, sorgunun tablosunu döndürür. Query.Table'a DB'nin öneki eklenir.
func (b *Builder) queryTable(q Query) string {
	if q.Table == "" {
		return b.table
	}
	return b.db.prefix + q.Table
}

// ToSelectSQL, sorguyu SELECT ifadesine derler.
func (b *Builder) ToSelectSQL(q Query) (string, []any, error) {
	table := b.queryTable(q)

	sql, args, err := b.db.grammar.CompileSelect(dialect.SelectStatement{
		Table:     table,
		Columns:   q.Fields,
		Where:     q.Where.SQL,
		WhereArgs: q.Where.Args,
		Order:     q.Order,
		Offset:    q.Offset,
		Limit:     q.Limit,
	})
	return sql, args, translateValidation(err)
}

// ToInsertSQL, values'ı INSERT ifadesine derler.
func (b *Builder) ToInsertSQL(values Values) (string, []any, error) {
	sql, args, err := b.db.grammar.CompileInsert(b.table, values.Keys(), values.Args())
	return sql, args, translateValidation(err)
}

// ToReplaceSQL, values'ı dialect'in "ekle ya da değiştir" ifadesine derler.
func (b *Builder) ToReplaceSQL(values Values) (string, []any, error) {
	sql, args, err := b.db.grammar.CompileReplace(b.table, values.Keys(), values.Args(), b.keys)
	return sql, args, translateValidation(err)
}

// ToUpdateSQL, UPDATE ifadesini derler. Boş where hiçbir satırla eşleşmez.
func (b *Builder) ToUpdateSQL(where Where, values Values) (string, []any, error) {
	sql, args, err := b.db.grammar.CompileUpdate(b.table, values.Keys(), values.Args(), where.SQL, where.Args)
	return sql, args, translateValidation(err)
}

// ToDeleteSQL, DELETE ifadesini derler. Boş where hiçbir satırla eşleşmez.
func (b *Builder) ToDeleteSQL(where Where) (string, []any, error) {
	sql, args, err := b.db.grammar.CompileDelete(b.table, where.SQL, where.Args)
	return sql, args, translateValidation(err)
}

// ----------------------------------------------------------------------------
// Okuma
// ----------------------------------------------------------------------------

// Select, sorguyu çalıştırır ve satırları kolon sırasıyla döndürür.
//
// Dönen dizi tembeldir ve yeniden başlatılabilir: her range yeni bir sorgu çalıştırır.
// Döngüden erken çıkmak sonuç kümesini kapatır. Hata, dizinin son elemanı olarak gelir.
func (b *Builder) Select(ctx context.Context, q Query) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for row, err := range b.rows(ctx, q) {
			if !yield(row.values, err) {
				return
			}
		}
	}
}

// SelectRecords, Select gibi çalışır ancak her satırı kolon adına göre bir Record
// olarak döndürür.
func (b *Builder) SelectRecords(ctx context.Context, q Query) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for row, err := range b.rows(ctx, q) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(toRecord(row.columns, row.values), nil) {
				return
			}
		}
	}
}

// First, sorgunun ilk kaydını döndürür. Eşleşen satır yoksa nil, nil döner.
func (b *Builder) First(ctx context.Context, q Query) (Record, error) {
	q.Limit = 1
	for rec, err := range b.SelectRecords(ctx, q) {
		return rec, err
	}
	return nil, nil
}

type scannedRow struct {
	columns []string
	values  Row
}

func (b *Builder) rows(ctx context.Context, q Query) iter.Seq2[scannedRow, error] {
	return func(yield func(scannedRow, error) bool) {
		sqlStr, args, err := b.ToSelectSQL(q)
		if err != nil {
			yield(scannedRow{}, err)
			return
		}

		table := b.queryTable(q)

		rows, err := b.db.queryOn(ctx, b.executor, sqlStr, args)
		if err != nil {
			yield(scannedRow{}, b.queryError("select", table, sqlStr, err))
			return
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			yield(scannedRow{}, NewQueryError("select", table, sqlStr, err))
			return
		}

		for rows.Next() {
			row, err := scanRow(rows, len(columns))
			if err != nil {
				yield(scannedRow{}, NewQueryError("scan", table, sqlStr, err))
				return
			}
			if !yield(scannedRow{columns: columns, values: row}, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(scannedRow{}, NewQueryError("select", table, sqlStr, err))
		}
	}
}

// ----------------------------------------------------------------------------
// Yazma
// ----------------------------------------------------------------------------

// Insert, tek bir satır ekler ve son eklenen kimliği döndürür. Sürücü kimlik
// bildirmiyorsa 0 döner. Benzersizlik ihlalleri sürücünün hatası olarak gelir.
func (b *Builder) Insert(ctx context.Context, values Values) (int64, error) {
	sqlStr, args, err := b.ToInsertSQL(values)
	if err != nil {
		return 0, err
	}
	return b.insert(ctx, "insert", sqlStr, args)
}

// Replace, tek bir satırı ekler; aynı anahtarlı satır varsa onu değiştirir.
// Son eklenen kimliği döndürür; sürücü bildirmiyorsa 0.
func (b *Builder) Replace(ctx context.Context, values Values) (int64, error) {
	sqlStr, args, err := b.ToReplaceSQL(values)
	if err != nil {
		return 0, err
	}
	return b.insert(ctx, "replace", sqlStr, args)
}

func (b *Builder) insert(ctx context.Context, op, sqlStr string, args []any) (int64, error) {
	res, err := b.db.execOn(ctx, b.executor, sqlStr, args)
	if err != nil {
		return 0, b.queryError(op, b.table, sqlStr, err)
	}

	id, err := NewResult(res).LastInsertID()
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// Update, where ile eşleşen satırlarda values'ı yazar.
// Sıfır değerli where hiçbir satırı güncellemez.
func (b *Builder) Update(ctx context.Context, where Where, values Values) (*Result, error) {
	sqlStr, args, err := b.ToUpdateSQL(where, values)
	if err != nil {
		return nil, err
	}
	return b.exec(ctx, "update", sqlStr, args)
}

// Delete, where ile eşleşen satırları siler.
// Sıfır değerli where hiçbir satırı silmez.
func (b *Builder) Delete(ctx context.Context, where Where) (*Result, error) {
	sqlStr, args, err := b.ToDeleteSQL(where)
	if err != nil {
		return nil, err
	}
	return b.exec(ctx, "delete", sqlStr, args)
}

func (b *Builder) exec(ctx context.Context, op, sqlStr string, args []any) (*Result, error) {
	res, err := b.db.execOn(ctx, b.executor, sqlStr, args)
	if err != nil {
		return nil, b.queryError(op, b.table, sqlStr, err)
	}
	return NewResult(res), nil
}

func (b *Builder) queryError(op, table, sqlStr string, err error) error {
	if err == ErrNoExecutor || err == ErrTxAlreadyClosed {
		return err
	}
	return NewQueryError(op, table, sqlStr, err)
}
