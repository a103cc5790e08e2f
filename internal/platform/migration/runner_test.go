// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestPgx5URL rewrites URL schemes for the migrate driver.
*/
func TestPgx5URL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres_scheme", "postgres://cc:pw@db:5432/collabconnect?sslmode=disable", "pgx5://cc:pw@db:5432/collabconnect?sslmode=disable"},
		{"postgresql_scheme", "postgresql://db/collabconnect", "pgx5://db/collabconnect"},
		{"already_pgx5", "pgx5://db/collabconnect", "pgx5://db/collabconnect"},
		{"key_value_dsn", "host=db dbname=collabconnect", "host=db dbname=collabconnect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgx5URL(tt.dsn))
		})
	}
}
