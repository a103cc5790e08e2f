// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures and reports them as one
// VALIDATION_ERROR.
//
// Handlers check the shape of a payload or query (required fields, lengths,
// ids, roles). Services check rules that need state, such as PTO bounds or
// date ranges, with [Validator.Custom].
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/pkg/uuid"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures in the order the rules run. Use one per
// request; it is not safe for concurrent use.
//
//	v := &validate.Validator{}
//	v.Required("email", in.Email).Email("email", in.Email)
//	if err := v.Err(); err != nil { ... }
type Validator struct {
	failures []apperr.FieldError
}

// Custom records message for field when failed is true. Every other rule is
// built on it.
//
//	v.Custom("ptoTaken", taken > total, "Cannot exceed the PTO total")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// Range is inclusive at both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.Custom(field, value < min || value > max, fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email accepts a bare address such as "ana@talent.mx" and rejects
// display-name forms like "Ana <ana@talent.mx>".
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.Custom(field, err != nil || address.Address != strings.TrimSpace(value), "Must be a valid email address")
}

func (v *Validator) UUID(field, value string) *Validator {
	return v.Custom(field, !uuid.Valid(value), "Must be a valid UUID")
}

// Role requires one of the four system role names, spelled exactly.
func (v *Validator) Role(field, value string) *Validator {
	return v.Custom(field, !sec.SystemRole(value).Valid(), "Must be one of: "+roleList)
}

// Err is nil when every rule passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}

func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// IsUUID reports whether value is a hyphenated UUID in any case.
func IsUUID(value string) bool {
	return uuid.Valid(value)
}

var roleList = func() string {
	names := make([]string, 0, len(sec.AllRoles))
	for _, role := range sec.AllRoles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}()
