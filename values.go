package fluentdb

import (
	"maps"
	"slices"
)

// ----------------------------------------------------------------------------
// Values
// ----------------------------------------------------------------------------

// Field, bir kolon adı ile ona yazılacak değeri taşır.
type Field struct {
	Name  string
	Value any
}

// F, Field oluşturmak için kısa yazımdır.
//
//	fluentdb.NewValues(fluentdb.F("status", "RUNNING"), fluentdb.F("rate", 2))
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Values, insert ve update için sıralı ve adları benzersiz bir kolon kümesidir.
//
// Anahtar sırası = kolon sırası = parametre sırası. Go map'lerinin rastgele sırası
// üretilen SQL'i kararsız kılacağından alanlar bir dilimde tutulur.
type Values struct {
	fields []Field
	index  map[string]int
}

// NewValues, verilen alanlardan bir Values oluşturur. Tekrarlanan ad, ilk konumunu
// koruyarak son değeri alır.
func NewValues(fields ...Field) Values {
	var v Values
	for _, f := range fields {
		v.Set(f.Name, f.Value)
	}
	return v
}

// FromMap, bir map'ten kolon adlarına göre sıralanmış Values oluşturur.
func FromMap(m map[string]any) Values {
	var v Values
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v.Set(k, m[k])
	}
	return v
}

// Set, bir kolonu ekler; kolon zaten varsa değerini yerinde değiştirir.
func (v *Values) Set(name string, value any) {
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if i, ok := v.index[name]; ok {
		v.fields[i].Value = value
		return
	}
	v.index[name] = len(v.fields)
	v.fields = append(v.fields, Field{Name: name, Value: value})
}

// Get, kolonun değerini ve var olup olmadığını döndürür.
func (v Values) Get(name string) (any, bool) {
	i, ok := v.index[name]
	if !ok {
		return nil, false
	}
	return v.fields[i].Value, true
}

// Len, kolon sayısını döndürür.
func (v Values) Len() int {
	return len(v.fields)
}

// Keys, kolon adlarını sırasıyla döndürür.
func (v Values) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Name
	}
	return keys
}

// Args, değerleri kolon sırasıyla döndürür.
func (v Values) Args() []any {
	args := make([]any, len(v.fields))
	for i, f := range v.fields {
		args[i] = f.Value
	}
	return args
}

// Fields, alanların bir kopyasını döndürür.
func (v Values) Fields() []Field {
	return slices.Clone(v.fields)
}

// Merge, v'nin kopyasına others içindeki alanları sırayla uygular. v değişmez.
func (v Values) Merge(others ...Values) Values {
	out := NewValues(v.fields...)
	for _, o := range others {
		for _, f := range o.fields {
			out.Set(f.Name, f.Value)
		}
	}
	return out
}

// With, v'nin kopyasına tek tek alan ekler.
func (v Values) With(fields ...Field) Values {
	return v.Merge(NewValues(fields...))
}

// ----------------------------------------------------------------------------
// Predicate, Query, Row, Record
// ----------------------------------------------------------------------------

// Where, çağıranın yazdığı ham WHERE metni ve bağlı parametreleridir.
// Metin olduğu gibi kullanılır, ayrıştırılmaz; parametreler "?" ile yazılır ve
// dialect'in yer tutucusuna çevrilir. Sıfır değerli Where "koşul yok" demektir:
// Select tüm satırları okur, Update ve Delete hiçbir satıra dokunmaz (1=0).
type Where struct {
	SQL  string
	Args []any
}

// NewWhere, yeni bir Where oluşturur.
//
//	fluentdb.NewWhere("`name` = ?", "crawler")
func NewWhere(sql string, args ...any) Where {
	return Where{SQL: sql, Args: args}
}

// IsZero, koşulun boş olup olmadığını bildirir.
func (w Where) IsZero() bool {
	return w.SQL == ""
}

// Query, tek tablolu bir SELECT'in parçalarıdır.
type Query struct {
	// Table boşsa builder'ın tablosu kullanılır; doluysa DB'nin tablo öneki eklenir.
	Table string

	// Fields boşsa "*" seçilir.
	Fields []string

	Where Where

	// Order, ORDER BY'dan sonra olduğu gibi yazılan ham metindir.
	Order string

	Offset int

	// Limit <= 0 ise LIMIT yazılmaz.
	Limit int
}

// Row, sonuç kümesinin bir satırıdır; değerler kolon sırasıyla gelir.
type Row []any

// Record, kolon adından değere eşlenmiş bir satırdır.
type Record map[string]any

// Clone, kaydın sığ bir kopyasını döndürür.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}
