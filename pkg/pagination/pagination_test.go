// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/collabconnect/pkg/pagination"
)

/*
TestFromRequest falls back and caps malformed query values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20}},
		{"explicit", "?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}},
		{"limit_capped", "?limit=500", pagination.Params{Page: 1, Limit: 100}},
		{"negative_page", "?page=-2", pagination.Params{Page: 1, Limit: 20}},
		{"garbage", "?page=abc&limit=x", pagination.Params{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/employees"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

/*
TestParams_Meta computes offsets and page counts.
*/
func TestParams_Meta(t *testing.T) {
	page := pagination.Params{Page: 2, Limit: 20}
	assert.Equal(t, 20, page.Offset())

	meta := page.Meta(41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	last := pagination.Params{Page: 3, Limit: 20}.Meta(41)
	assert.False(t, last.HasNext)

	empty := pagination.Params{Page: 1, Limit: 20}.Meta(0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
