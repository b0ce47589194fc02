package payments

import (
	"errors"
	"fmt"
	"strings"
)

// Money is carried as int64 agorot (minor units) everywhere. The provider
// sends decimal strings; parsing them through float would drift, so the
// string is split on the decimal point instead.

// ParseAmountMinor converts a decimal currency string ("79", "79.9",
// "79.90") to minor units. More than two fraction digits is an error.
func ParseAmountMinor(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two fraction digits", amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	var minor int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", amount)
		}
		minor = minor*10 + int64(r-'0')
		if minor < 0 {
			return 0, fmt.Errorf("amount %q overflows", amount)
		}
	}
	if negative {
		minor = -minor
	}
	return minor, nil
}

// FormatAmountMinor renders minor units back to the provider's decimal
// string form.
func FormatAmountMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// CommissionMinor is the referral commission: 50% of the payment amount,
// truncating division on minor units.
func CommissionMinor(amountMinor int64) int64 {
	return amountMinor / 2
}
