// Package wei converts between human decimal ether strings and wei amounts.
//
// The contract stores every amount as an unsigned integer number of wei
// (1 ether = 10^18 wei). Parsing and formatting are exact: any amount produced
// by Parse round-trips through Format without drift.
package wei

import (
	"math/big"
	"strings"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// Decimals is the fixed fractional precision of the currency.
const Decimals = 18

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// Parse converts a decimal string such as "1.5" into a wei amount.
//
// It fails with an INVALID_AMOUNT error when the input is empty, contains
// non-numeric characters, is negative, or carries more than Decimals
// fractional digits.
func Parse(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.CodeInvalidAmount, "amount is empty")
	}
	if strings.HasPrefix(trimmed, "-") {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount is negative", map[string]string{"amount": trimmed})
	}
	trimmed = strings.TrimPrefix(trimmed, "+")

	intPart, fracPart, hasDot := strings.Cut(trimmed, ".")
	if intPart == "" && fracPart == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount has no digits", map[string]string{"amount": s})
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount is not numeric", map[string]string{"amount": s})
	}
	if hasDot && len(fracPart) > Decimals {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount exceeds 18 fractional digits", map[string]string{"amount": s})
	}

	if intPart == "" {
		intPart = "0"
	}
	amount, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount is not numeric", map[string]string{"amount": s})
	}
	amount.Mul(amount, unit)

	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart+strings.Repeat("0", Decimals-len(fracPart)), 10)
		if !ok {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount is not numeric", map[string]string{"amount": s})
		}
		amount.Add(amount, frac)
	}
	return amount, nil
}

// Format converts a wei amount back into a canonical decimal string.
//
// The result never uses scientific notation and carries no trailing zeros:
// Format(Parse("1.50")) returns "1.5".
func Format(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	quo, rem := new(big.Int).QuoRem(abs, unit, new(big.Int))
	frac := strings.TrimRight(leftPad(rem.String(), Decimals), "0")
	if frac == "" {
		return sign + quo.String()
	}
	return sign + quo.String() + "." + frac
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
