package enums

import (
	"fmt"
	"strings"
)

// Currency is the ISO code a product is priced in. Only USD is sold today.
type Currency string

const CurrencyUSD Currency = "USD"

var validCurrencies = []Currency{CurrencyUSD}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw code into a Currency, defaulting blanks to USD.
func ParseCurrency(value string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return CurrencyUSD, nil
	}
	for _, candidate := range validCurrencies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
