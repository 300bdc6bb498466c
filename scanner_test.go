package fluentdb

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanBase struct {
	Name string `db:"name"`
}

type scanTarget struct {
	scanBase
	Status     string         `db:"status"`
	Rate       float64        `db:"rate"`
	Burst      int            `db:"burst"`
	Comments   sql.NullString `db:"comments"`
	Script     *string        `db:"script"`
	UpdateTime float64        `db:"updatetime"`
	Ignored    string         `db:"-"`
	Group      string
}

func TestDefaultScanner_Decode(t *testing.T) {
	s := NewDefaultScanner()

	var got scanTarget
	err := s.Decode(Record{
		"name":       "crawler",
		"status":     []byte("RUNNING"),
		"rate":       int64(2),
		"burst":      "5",
		"comments":   nil,
		"script":     "print(1)",
		"updatetime": 1.5,
		"group":      "web",
		"unknown":    "skip",
		"Ignored":    "nope",
	}, &got)
	require.NoError(t, err)

	assert.Equal(t, "crawler", got.Name)
	assert.Equal(t, "RUNNING", got.Status)
	assert.Equal(t, 2.0, got.Rate)
	assert.Equal(t, 5, got.Burst)
	assert.False(t, got.Comments.Valid)
	require.NotNil(t, got.Script)
	assert.Equal(t, "print(1)", *got.Script)
	assert.Equal(t, 1.5, got.UpdateTime)
	assert.Equal(t, "web", got.Group)
	assert.Empty(t, got.Ignored)
}

func TestDefaultScanner_DecodeInvalidDestination(t *testing.T) {
	s := NewDefaultScanner()

	var target scanTarget
	assert.ErrorIs(t, s.Decode(Record{}, target), ErrInvalidDestination)
	assert.ErrorIs(t, s.Decode(Record{}, (*scanTarget)(nil)), ErrNilDestination)

	n := 1
	assert.ErrorIs(t, s.Decode(Record{}, &n), ErrInvalidDestination)
}

func TestDefaultScanner_DecodeBadValue(t *testing.T) {
	s := NewDefaultScanner()

	var got scanTarget
	err := s.Decode(Record{"burst": "many"}, &got)
	assert.Error(t, err)
}

func TestDefaultScanner_Columns(t *testing.T) {
	s := NewDefaultScanner()

	cols, err := s.Columns(&[]scanTarget{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "status", "rate", "burst", "comments", "script", "updatetime", "group"}, cols)

	_, err = s.Columns(3)
	assert.ErrorIs(t, err, ErrInvalidDestination)
}

type auditFields struct {
	UpdateTime float64 `db:"updatetime"`
	note       string
}

type auditedProject struct {
	auditFields
	Name   string `db:"name"`
	secret string
}

func TestDefaultScanner_UnexportedEmbeddedType(t *testing.T) {
	s := NewDefaultScanner()

	var got auditedProject
	require.NoError(t, s.Decode(Record{"name": "p1", "updatetime": 2.5, "note": "x", "secret": "y"}, &got))
	assert.Equal(t, "p1", got.Name)
	assert.Equal(t, 2.5, got.UpdateTime)
	assert.Empty(t, got.note)
	assert.Empty(t, got.secret)

	cols, err := s.Columns(&auditedProject{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"updatetime", "name"}, cols)
}
