// Package projectdb is the project registry: one table of named projects with
// timestamp-based change tracking.
package projectdb

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/biyonik/fluentdb"
)

// DefaultTable is the table name used when WithTable is not given.
const DefaultTable = "projectdb"

//go:embed schema/*.sql
var schemaFS embed.FS

// ErrInvalidName is returned by Insert for names that are not word characters only.
var ErrInvalidName = errors.New("projectdb: invalid project name")

// Option configures a Store.
type Option func(*Store)

// WithTable sets the table name. The DB's table prefix still applies.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithClock sets the clock used to stamp updatetime.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store reads and writes projects through a fluentdb.DB.
type Store struct {
	db    *fluentdb.DB
	table string
	now   func() time.Time
}

// New returns a Store and creates its table if it does not exist.
func New(ctx context.Context, db *fluentdb.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:    db,
		table: DefaultTable,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	name := s.db.Dialect().Name()
	raw, err := schemaFS.ReadFile("schema/" + name + ".sql")
	if err != nil {
		raw, err = schemaFS.ReadFile("schema/sqlite.sql")
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
	}

	table, err := s.db.Dialect().Quote(s.db.TablePrefix() + s.table)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt := strings.ReplaceAll(string(raw), "{{table}}", table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) builder() *fluentdb.Builder {
	return s.db.Table(s.table).Key(ColName)
}

func (s *Store) timestamp() float64 {
	return Timestamp(s.now())
}

func (s *Store) byName(b *fluentdb.Builder, name string) (fluentdb.Where, error) {
	return b.Compare(ColName, "=", name)
}

// Insert adds a project. fields are written along with name and the current updatetime.
// It returns the backend's row id for the new record, or 0 when the backend reports none.
// A duplicate name fails with the backend's constraint error; see fluentdb.IsConstraintViolation.
func (s *Store) Insert(ctx context.Context, name string, fields fluentdb.Values) (int64, error) {
	if !ValidName(name) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	values := fields.With(
		fluentdb.F(ColName, name),
		fluentdb.F(ColUpdateTime, s.timestamp()),
	)

	return s.builder().Insert(ctx, values)
}

// Update writes fields, then extra, to the named project and refreshes updatetime.
// It returns the number of rows changed; an unknown name gives 0 and no error.
func (s *Store) Update(ctx context.Context, name string, fields fluentdb.Values, extra ...fluentdb.Field) (int64, error) {
	b := s.builder()

	where, err := s.byName(b, name)
	if err != nil {
		return 0, err
	}

	values := fields.With(extra...).With(fluentdb.F(ColUpdateTime, s.timestamp()))

	res, err := b.Update(ctx, where, values)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the named project, restricted to fields when given.
// It returns nil, nil when no project has that name.
func (s *Store) Get(ctx context.Context, name string, fields ...string) (fluentdb.Record, error) {
	b := s.builder()

	where, err := s.byName(b, name)
	if err != nil {
		return nil, err
	}

	return b.First(ctx, fluentdb.Query{Fields: fields, Where: where})
}

// GetProject is Get decoded into a Project.
func (s *Store) GetProject(ctx context.Context, name string) (*Project, error) {
	rec, err := s.Get(ctx, name)
	if err != nil || rec == nil {
		return nil, err
	}
	return Decode(rec)
}

// GetAll returns every project in backend order. Each range re-reads the table.
func (s *Store) GetAll(ctx context.Context, fields ...string) iter.Seq2[fluentdb.Record, error] {
	return s.builder().SelectRecords(ctx, fluentdb.Query{Fields: fields})
}

// CheckUpdate returns the projects whose updatetime is at or after timestamp.
func (s *Store) CheckUpdate(ctx context.Context, timestamp float64, fields ...string) iter.Seq2[fluentdb.Record, error] {
	b := s.builder()

	where, err := b.Compare(ColUpdateTime, ">=", timestamp)
	if err != nil {
		return func(yield func(fluentdb.Record, error) bool) {
			yield(nil, err)
		}
	}

	return b.SelectRecords(ctx, fluentdb.Query{Fields: fields, Where: where})
}

// Drop deletes the named project. Dropping an unknown name is not an error.
func (s *Store) Drop(ctx context.Context, name string) (int64, error) {
	b := s.builder()

	where, err := s.byName(b, name)
	if err != nil {
		return 0, err
	}

	res, err := b.Delete(ctx, where)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
