package fluentdb

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

//
// =====================================================================================
// FLUENTDB – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya iki işi yapar:
//   1. Sonuç kümesinden okunan satırları Row ve Record değerlerine dönüştürür.
//      Sürücülerin []byte olarak döndürdüğü metinler string'e çevrilir.
//   2. Record'ları `db:"column"` tag'lerine göre struct'lara aktarır. Struct
//      metadata'sı reflection ile bir kez çıkarılır ve cache'e alınır.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Scanner, bir Record'u Go modeline aktaran davranış sözleşmesidir.
type Scanner interface {
	// Decode, rec içindeki kolonları dest struct'ının eşleşen alanlarına yazar.
	// Record'da olmayan alanlara dokunulmaz.
	Decode(rec Record, dest any) error
}

// DefaultScanner, `db:"field"` tag'i ile eşleme yapan varsayılan tarayıcıdır.
type DefaultScanner struct {
	cache sync.Map // reflect.Type → *structInfo
}

// NewDefaultScanner, varsayılan tarayıcıyı oluşturur.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

type structInfo struct {
	fields  []fieldInfo
	columns map[string]int
}

type fieldInfo struct {
	index []int
	name  string
}

var sqlScannerType = reflect.TypeFor[sql.Scanner]()

// Decode, Scanner arayüzünü uygular.
func (s *DefaultScanner) Decode(rec Record, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer {
		return ErrInvalidDestination
	}
	if v.IsNil() {
		return ErrNilDestination
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrInvalidDestination
	}

	info := s.getStructInfo(elem.Type())
	for col, val := range rec {
		idx, ok := info.columns[strings.ToLower(col)]
		if !ok {
			continue
		}
		f := info.fields[idx]
		if err := assign(elem.FieldByIndex(f.index), val); err != nil {
			return fmt.Errorf("fluentdb: decode column %q: %w", col, err)
		}
	}
	return nil
}

// Columns, struct'ın veritabanı kolon adlarını tanım sırasıyla döndürür.
// SELECT * yerine açık kolon listesi üretmek için kullanılır.
func (s *DefaultScanner) Columns(dest any) ([]string, error) {
	t := reflect.TypeOf(dest)
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, ErrInvalidDestination
	}

	info := s.getStructInfo(t)
	names := make([]string, len(info.fields))
	for i, f := range info.fields {
		names[i] = f.name
	}
	return names, nil
}

func (s *DefaultScanner) getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		fields:  make([]fieldInfo, 0, t.NumField()),
		columns: make(map[string]int),
	}
	s.parseStruct(t, nil, info)

	actual, _ := s.cache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

// parseStruct, gömülü struct'lar dahil tüm dışa açık alanları tarar.
func (s *DefaultScanner) parseStruct(t reflect.Type, index []int, info *structInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIndex := append(append([]int{}, index...), i)

		// Dışa kapalı tipte gömülü struct'ların dışa açık alanları da yükseltilir.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.parseStruct(field.Type, fieldIndex, info)
			continue
		}

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		info.columns[strings.ToLower(name)] = len(info.fields)
		info.fields = append(info.fields, fieldInfo{index: fieldIndex, name: name})
	}
}

// assign, val'ı field'a yazar; gerektiğinde sayısal ve metinsel dönüşüm yapar.
func assign(field reflect.Value, val any) error {
	if field.CanAddr() && field.Addr().Type().Implements(sqlScannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(val)
	}

	if val == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if b, ok := val.([]byte); ok {
		val = string(b)
	}

	src := reflect.ValueOf(val)
	ft := field.Type()

	switch {
	case src.Type().AssignableTo(ft):
		field.Set(src)
		return nil

	case ft.Kind() == reflect.String:
		field.SetString(fmt.Sprint(val))
		return nil

	case src.Kind() == reflect.String && isNumeric(ft.Kind()):
		f, err := strconv.ParseFloat(src.String(), 64)
		if err != nil {
			return err
		}
		src = reflect.ValueOf(f)
	}

	if isNumeric(src.Kind()) && isNumeric(ft.Kind()) {
		field.Set(src.Convert(ft))
		return nil
	}

	if ft.Kind() == reflect.Pointer {
		ptr := reflect.New(ft.Elem())
		if err := assign(ptr.Elem(), val); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", val, ft)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Row / Record okuma
// ----------------------------------------------------------------------------

func scanRow(rows *sql.Rows, n int) (Row, error) {
	row := make(Row, n)
	dests := make([]any, n)
	for i := range row {
		dests[i] = &row[i]
	}
	if err := rows.Scan(dests...); err != nil {
		return nil, err
	}
	for i, v := range row {
		row[i] = normalize(v)
	}
	return row, nil
}

func toRecord(columns []string, row Row) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		rec[col] = row[i]
	}
	return rec
}

// normalize, sürücülerin metin kolonları için döndürdüğü []byte'ı string'e çevirir.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
