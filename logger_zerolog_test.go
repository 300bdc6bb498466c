package fluentdb

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     zerolog.Level
		err       error
		wantLevel string
		wantEmpty bool
	}{
		{name: "success at debug", level: zerolog.DebugLevel, wantLevel: "debug"},
		{name: "failure at error", level: zerolog.DebugLevel, err: errors.New("boom"), wantLevel: "error"},
		{name: "success filtered by level", level: zerolog.InfoLevel, wantEmpty: true},
		{name: "failure passes info level", level: zerolog.InfoLevel, err: errors.New("boom"), wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			l := NewZerologLogger(zerolog.New(buf).Level(tt.level))

			l.Log("SELECT * FROM `t` WHERE a = ?", []any{1}, 2*time.Millisecond, tt.err)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "sql", entry["message"])
			assert.Equal(t, "SELECT * FROM `t` WHERE a = ?", entry["sql"])
			assert.Equal(t, []any{float64(1)}, entry["args"])
			if tt.err != nil {
				assert.Equal(t, "boom", entry["error"])
			}
		})
	}
}

func TestZerologLogger_WithDB(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer sqlDB.Close()

	buf := new(bytes.Buffer)
	db := NewDB(sqlDB, WithDebug(true), WithLogger(NewZerologLogger(zerolog.New(buf).Level(zerolog.DebugLevel))))

	mock.ExpectExec("DELETE FROM `t` WHERE 1=0").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = db.ExecContext(t.Context(), "DELETE FROM `t` WHERE 1=0")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, buf.String(), `"sql":"DELETE FROM `+"`t`"+` WHERE 1=0"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}
