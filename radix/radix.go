// Package radix converts share values written in an arbitrary base (2 to 36)
// into arbitrary-precision integers and back.
package radix

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// MinBase is the smallest supported radix.
	MinBase = 2
	// MaxBase is the largest supported radix: ten digits plus 26 letters.
	MaxBase = 36
)

var (
	// ErrInvalidDigit is returned when a character is not alphanumeric or its value is not below the base.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrInvalidBase is returned when the base is outside [MinBase, MaxBase].
	ErrInvalidBase = errors.New("invalid base")
	// ErrEmptyValue is returned when the encoded value is the empty string.
	ErrEmptyValue = errors.New("empty value")
	// ErrNegativeValue is returned by Encode for negative integers.
	ErrNegativeValue = errors.New("negative value")
)

// DigitValue maps '0'-'9' to 0-9 and 'a'-'z' (either case) to 10-35.
func DigitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10, true
	}
	return 0, false
}

func checkBase(base int) error {
	if base < MinBase || base > MaxBase {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBase, base, MinBase, MaxBase)
	}
	return nil
}

// Decode evaluates value as a positional number in the given base.
// The whole computation is done on big.Int, so there is no upper bound on
// the length of value.
func Decode(value string, base int) (*big.Int, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}
	if value == "" {
		return nil, ErrEmptyValue
	}

	acc := new(big.Int)
	b := big.NewInt(int64(base))
	digit := new(big.Int)
	for i, r := range value {
		d, ok := DigitValue(r)
		if !ok || d >= base {
			return nil, fmt.Errorf("%w: %q at position %d for base %d", ErrInvalidDigit, r, i, base)
		}
		acc.Mul(acc, b)
		acc.Add(acc, digit.SetInt64(int64(d)))
	}
	return acc, nil
}

// Encode is the inverse of Decode. Letters are emitted in lower case.
func Encode(v *big.Int, base int) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	if v.Sign() < 0 {
		return "", fmt.Errorf("%w: %s", ErrNegativeValue, v)
	}
	return strings.ToLower(v.Text(base)), nil
}
