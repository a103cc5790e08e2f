// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sanitize cleans free text submitted by collaborators.

Profile fields, company names and request details are stored as plain text.
Markup is stripped with a strict bluemonday policy, then entities are decoded
so names such as "O'Neil" or "Pérez & Hijos" round-trip unchanged.
*/
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict is safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Text strips every HTML element from raw and trims surrounding whitespace.
func Text(raw string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(raw)))
}

// List applies [Text] to every element and drops the ones left empty.
func List(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, item := range raw {
		if value := Text(item); value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}
