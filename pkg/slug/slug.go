// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives the natural key of a client company from its display
// name, so "Talent", "TALENT" and " talent " register as one company and
// "Innovación Ágil S.A." becomes "innovacion-agil-s-a".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds a slug. Longer names are cut at the last hyphen that fits.
const MaxLength = 80

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From returns the ASCII slug of name, or "" when name has no letters or digits.
func From(name string) string {
	plain, _, err := transform.String(stripMarks, name)
	if err != nil {
		plain = name
	}

	var builder strings.Builder
	builder.Grow(len(plain))

	pendingHyphen := false
	for _, r := range strings.ToLower(plain) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return truncate(builder.String())
}

func truncate(value string) string {
	if len(value) <= MaxLength {
		return value
	}
	cut := value[:MaxLength]
	if index := strings.LastIndexByte(cut, '-'); index > 0 {
		cut = cut[:index]
	}
	return strings.TrimRight(cut, "-")
}
