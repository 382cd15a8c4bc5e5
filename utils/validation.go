package utils

import (
	"regexp"
	"strings"
	"time"
)

var vpaRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9]+$`)

// ValidateVPA checks a UPI virtual payment address of the form name@bank.
func ValidateVPA(vpa string) bool {
	return vpaRegex.MatchString(vpa)
}

func cleanCardNumber(cardNumber string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, cardNumber)
}

var digitsOnly = regexp.MustCompile(`^\d{13,19}$`)

// ValidateCardNumber runs the Luhn checksum over a 13-19 digit card number.
// Spaces and dashes are stripped before validation.
func ValidateCardNumber(cardNumber string) bool {
	cleaned := cleanCardNumber(cardNumber)
	if !digitsOnly.MatchString(cleaned) {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// GetCardNetwork detects the card network from the number prefix.
func GetCardNetwork(cardNumber string) string {
	cleaned := cleanCardNumber(cardNumber)
	switch {
	case cleaned == "":
		return "unknown"
	case strings.HasPrefix(cleaned, "4"):
		return "visa"
	case len(cleaned) >= 2 && cleaned[0] == '5' && cleaned[1] >= '1' && cleaned[1] <= '5':
		return "mastercard"
	case strings.HasPrefix(cleaned, "34"), strings.HasPrefix(cleaned, "37"):
		return "amex"
	case strings.HasPrefix(cleaned, "60"), strings.HasPrefix(cleaned, "65"):
		return "rupay"
	case len(cleaned) >= 2 && cleaned[0] == '8' && cleaned[1] >= '1' && cleaned[1] <= '9':
		return "rupay"
	default:
		return "unknown"
	}
}

// ValidateCardExpiry checks that month/year are not in the past.
// Two-digit years are interpreted as 20xx.
func ValidateCardExpiry(month, year int) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year < 100 {
		year += 2000
	}

	now := time.Now()
	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}
