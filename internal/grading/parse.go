package grading

import (
	"errors"
	"strconv"
	"strings"
)

// DoneToken ends collection when entered as an assignment name.
const DoneToken = "done"

// IsDone reports whether a raw name input is the termination token.
func IsDone(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), DoneToken)
}

// ParseName trims raw and rejects an empty result.
func ParseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", newValidationError(FieldName, EmptyName, raw)
	}
	return name, nil
}

// ParseCategory uppercases raw and accepts exactly FA or SA.
// Surrounding whitespace is not forgiven.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(raw))
	if !c.Valid() {
		return "", newValidationError(FieldCategory, InvalidCategory, raw)
	}
	return c, nil
}

// ParseScore parses a weight or grade and checks the [0,100] range.
// The returned error is a *ValidationError of kind NotNumeric or OutOfRange.
// Hex literals such as "0x1p4" are not decimal numbers and are rejected.
func ParseScore(field Field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if isHex(s) {
		return 0, newValidationError(field, NotNumeric, raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Overflow parses to ±Inf, which is a number, just not a valid one.
		return 0, newValidationError(field, OutOfRange, raw)
	}
	if err != nil {
		return 0, newValidationError(field, NotNumeric, raw)
	}
	if !inRange(v) {
		return 0, newValidationError(field, OutOfRange, raw)
	}
	return v, nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
