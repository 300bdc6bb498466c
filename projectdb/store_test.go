package projectdb

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/fluentdb"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "projectdb.db")
	db, err := fluentdb.ConnectWithConfig(ctx, &fluentdb.Config{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)

	store, err := New(ctx, db, opts...)
	require.NoError(t, err)
	return store, clock
}

func collect(t *testing.T, seq func(func(fluentdb.Record, error) bool)) []fluentdb.Record {
	t.Helper()
	var out []fluentdb.Record
	for rec, err := range seq {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func names(recs []fluentdb.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r[ColName].(string))
	}
	return out
}

func mustInsert(t *testing.T, store *Store, ctx context.Context, name string, fields fluentdb.Values) int64 {
	t.Helper()
	id, err := store.Insert(ctx, name, fields)
	require.NoError(t, err)
	return id
}

func p1Fields() fluentdb.Values {
	return fluentdb.NewValues(
		fluentdb.F(ColGroup, "g"),
		fluentdb.F(ColStatus, StatusTodo),
		fluentdb.F(ColRate, 1),
		fluentdb.F(ColBurst, 3),
	)
}

func TestStore_Lifecycle(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "p1", p1Fields())

	rec, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "p1", rec[ColName])
	assert.Equal(t, "g", rec[ColGroup])
	assert.Equal(t, StatusTodo, rec[ColStatus])
	assert.EqualValues(t, 1, rec[ColRate])
	assert.EqualValues(t, 3, rec[ColBurst])
	assert.Equal(t, Timestamp(clock.now), rec[ColUpdateTime])
	assert.Nil(t, rec[ColScript])

	before := rec[ColUpdateTime].(float64)
	clock.Advance(time.Second)

	n, err := store.Update(ctx, "p1", fluentdb.Values{}, fluentdb.F(ColStatus, StatusRunning))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err = store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, rec[ColStatus])
	assert.Equal(t, "g", rec[ColGroup])
	assert.EqualValues(t, 1, rec[ColRate])
	assert.EqualValues(t, 3, rec[ColBurst])
	assert.GreaterOrEqual(t, rec[ColUpdateTime].(float64), before)

	n, err = store.Drop(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err = store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	n, err = store.Drop(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_GetFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "p1", p1Fields())

	rec, err := store.Get(ctx, "p1", ColName, ColStatus)
	require.NoError(t, err)
	assert.Equal(t, fluentdb.Record{ColName: "p1", ColStatus: StatusTodo}, rec)
}

func TestStore_InsertDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "p1", p1Fields())

	_, err := store.Insert(ctx, "p1", p1Fields())
	require.Error(t, err)
	assert.True(t, fluentdb.IsConstraintViolation(err))
}

func TestStore_InsertInvalidName(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"", "has space", "semi;colon", "dash-ed"} {
		_, err := store.Insert(context.Background(), name, fluentdb.Values{})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestStore_InsertNameOverridesField(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "real", fluentdb.NewValues(fluentdb.F(ColName, "fake")))

	rec, err := store.Get(ctx, "fake")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = store.Get(ctx, "real")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestStore_UpdateMissingIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	n, err := store.Update(context.Background(), "ghost", fluentdb.NewValues(fluentdb.F(ColStatus, StatusStop)))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_UpdateExtraOverridesFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "p1", p1Fields())

	_, err := store.Update(ctx, "p1",
		fluentdb.NewValues(fluentdb.F(ColStatus, StatusDebug), fluentdb.F(ColComments, "c")),
		fluentdb.F(ColStatus, StatusStop))
	require.NoError(t, err)

	p, err := store.GetProject(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, StatusStop, p.Status)
	assert.Equal(t, "c", p.Comments)
}

func TestStore_GetAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, collect(t, store.GetAll(ctx)))

	for _, n := range []string{"a", "b", "c"} {
		mustInsert(t, store, ctx, n, fluentdb.Values{})
	}

	seq := store.GetAll(ctx, ColName)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names(collect(t, seq)))
	// restartable
	assert.Len(t, collect(t, seq), 3)
}

func TestStore_CheckUpdate(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "old", fluentdb.Values{})
	clock.Advance(10 * time.Second)

	t0 := Timestamp(clock.now)
	mustInsert(t, store, ctx, "new", fluentdb.Values{})

	assert.ElementsMatch(t, []string{"new"}, names(collect(t, store.CheckUpdate(ctx, t0))))
	assert.Empty(t, collect(t, store.CheckUpdate(ctx, t0+0.001)))
	assert.ElementsMatch(t, []string{"old", "new"}, names(collect(t, store.CheckUpdate(ctx, 0, ColName))))
}

func TestStore_UnscopedWritesTouchNothing(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, ctx, "a", fluentdb.Values{})
	mustInsert(t, store, ctx, "b", fluentdb.Values{})

	b := store.db.Table(store.table)

	res, err := b.Update(ctx, fluentdb.Where{}, fluentdb.NewValues(fluentdb.F(ColStatus, StatusStop)))
	require.NoError(t, err)
	n, _ := res.RowsAffected()
	assert.Zero(t, n)

	res, err = b.Delete(ctx, fluentdb.Where{})
	require.NoError(t, err)
	n, _ = res.RowsAffected()
	assert.Zero(t, n)

	assert.Len(t, collect(t, store.GetAll(ctx)), 2)
	for _, rec := range collect(t, store.GetAll(ctx)) {
		assert.Nil(t, rec[ColStatus])
	}
}

func TestStore_ZeroLimitReadsEverything(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		mustInsert(t, store, ctx, n, fluentdb.Values{})
	}

	var count int
	for _, err := range store.db.Table(store.table).Select(ctx, fluentdb.Query{Limit: 0, Offset: 2}) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestStore_CustomTableIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, WithTable("projects"))
	ctx := context.Background()

	mustInsert(t, store, ctx, "p", fluentdb.Values{})

	again, err := New(ctx, store.db, WithTable("projects"))
	require.NoError(t, err)

	rec, err := again.Get(ctx, "p")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestStore_InsertReturnsRowID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.EqualValues(t, 1, mustInsert(t, store, ctx, "p1", fluentdb.Values{}))
	assert.EqualValues(t, 2, mustInsert(t, store, ctx, "p2", fluentdb.Values{}))
}

func TestStore_CheckUpdateKeepsSubMillisecondStamps(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	clock.now = time.Unix(1_700_000_000, 123_440_000)
	t0 := Timestamp(clock.now)
	mustInsert(t, store, ctx, "p1", fluentdb.Values{})

	p, err := store.GetProject(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, t0, p.UpdateTime)

	assert.Equal(t, []string{"p1"}, names(collect(t, store.CheckUpdate(ctx, t0, ColName))))
}

func TestSchemas_UpdatetimeIsFullPrecision(t *testing.T) {
	for _, name := range []string{"sqlite", "mysql", "postgres"} {
		raw, err := schemaFS.ReadFile("schema/" + name + ".sql")
		require.NoError(t, err, name)

		for _, line := range strings.Split(string(raw), "\n") {
			if strings.Contains(line, "updatetime") {
				assert.NotRegexp(t, `DOUBLE\s*\(|DECIMAL|NUMERIC|FLOAT\s*\(`, line, name)
			}
		}
	}
}
