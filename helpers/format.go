package helpers

import "fmt"

// FormatAmount formats a monetary value with space thousand separators,
// e.g. 1234567.89 -> "1 234 568". Values are rounded to whole units for
// display in insight messages and logs.
func FormatAmount(amount float64) string {
	value := int64(amount + 0.5)
	if amount < 0 {
		value = int64(amount - 0.5)
	}

	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%d", value)
	length := len(str)

	if length <= 3 {
		if negative {
			return "-" + str
		}
		return str
	}

	var result string
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result += " "
		}
		result += string(digit)
	}

	if negative {
		return "-" + result
	}
	return result
}
