package fluentdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantDriver string
		contains   []string
		equals     string
	}{
		{
			name:       "sqlite file",
			cfg:        Config{Driver: "sqlite", Path: "/tmp/p.db"},
			wantDriver: "sqlite",
			equals:     "/tmp/p.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		{
			name:       "sqlite memory",
			cfg:        Config{Driver: "sqlite", Path: ":memory:"},
			wantDriver: "sqlite",
			equals:     ":memory:",
		},
		{
			name: "mysql",
			cfg: Config{
				Driver: "mysql", Host: "db", Port: 3307, Database: "app",
				Username: "u", Password: "p", Charset: "utf8mb4",
			},
			wantDriver: "mysql",
			contains:   []string{"u:p@tcp(db:3307)/app?", "parseTime=true", "charset=utf8mb4"},
		},
		{
			name:       "postgres defaults",
			cfg:        Config{Driver: "postgres", Database: "app", Username: "u", Password: "p"},
			wantDriver: "pgx",
			equals:     "postgres://u:p@localhost:5432/app?sslmode=disable",
		},
		{
			name:       "postgres tls",
			cfg:        Config{Driver: "pgx", Host: "pg", Port: 6543, Database: "app", TLS: true},
			wantDriver: "pgx",
			equals:     "postgres://pg:6543/app?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDriver, tt.cfg.DriverName())

			dsn := tt.cfg.DSN()
			if tt.equals != "" {
				assert.Equal(t, tt.equals, dsn)
			}
			for _, part := range tt.contains {
				assert.Contains(t, dsn, part)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "sqlite", cfg.DriverName())
	assert.Equal(t, 25, cfg.MaxOpenConns)
}

func TestResult_Nil(t *testing.T) {
	var r *Result
	id, err := r.LastInsertID()
	assert.NoError(t, err)
	assert.Zero(t, id)

	n, err := NewResult(nil).RowsAffected()
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueryError(t *testing.T) {
	base := errors.New("boom")
	err := NewQueryError("update", "projectdb", "UPDATE ...", base)

	assert.Equal(t, "fluentdb: update projectdb: boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Nil(t, WrapError("x", nil))
	assert.Equal(t, "fluentdb: ping: boom", WrapError("ping", base).Error())
}

func TestIsConstraintViolation(t *testing.T) {
	assert.False(t, IsConstraintViolation(nil))
	assert.False(t, IsConstraintViolation(errors.New("no such table")))
	assert.True(t, IsConstraintViolation(NewQueryError("insert", "t", "", errors.New("UNIQUE constraint failed: t.name"))))
}
