// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/collabconnect/pkg/slug"
)

/*
TestFrom derives company keys from display names.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Talent", "talent"},
		{"padded_upper", "  TALENT ", "talent"},
		{"accents", "Innovación Ágil S.A.", "innovacion-agil-s-a"},
		{"enye", "Compañía Ñandú", "compania-nandu"},
		{"separators_collapse", "Disruptive -- Talent & Co", "disruptive-talent-co"},
		{"symbols_only", "&&&", ""},
		{"non_latin_dropped", "東京 Labs", "labs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Truncates cuts long names at a word boundary.
*/
func TestFrom_Truncates(t *testing.T) {
	name := strings.Repeat("consultora ", 12)

	got := slug.From(name)
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, strings.HasSuffix(got, "consultora"))
}
