// Package cpf validates and formats Brazilian individual taxpayer numbers.
//
// A CPF is eleven digits where the last two are check digits computed with a
// mod-11 weighted sum over the preceding digits. Inputs may carry the usual
// punctuation ("123.456.789-09"); it is ignored.
package cpf

import (
	"strings"
)

const Length = 11

// Normalize strips everything that is not an ASCII digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether s is a well-formed CPF with correct check digits.
// Sequences of a single repeated digit pass the checksum but are rejected.
func IsValid(s string) bool {
	digits := Normalize(s)
	if len(digits) != Length {
		return false
	}
	if strings.Count(digits, digits[:1]) == Length {
		return false
	}
	// Reject stray letters mixed into the digits ("123a45678909").
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != ' ' {
			return false
		}
	}

	d := make([]int, Length)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

func checkDigit(d []int) int {
	sum := 0
	weight := len(d) + 1
	for _, v := range d {
		sum += v * weight
		weight--
	}
	rem := (sum * 10) % 11
	if rem == 10 {
		return 0
	}
	return rem
}

// Format renders the canonical punctuation 000.000.000-00. Values that do not
// normalize to eleven digits are returned unchanged.
func Format(s string) string {
	digits := Normalize(s)
	if len(digits) != Length {
		return s
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}
