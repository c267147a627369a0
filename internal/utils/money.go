package utils

import "strconv"

// FormatAmount renders a currency value with two fraction digits.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// USD prefixes a formatted amount with a dollar sign.
func USD(amount float64) string {
	return "$" + FormatAmount(amount)
}
