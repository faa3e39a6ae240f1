package valueobject

import "strings"

const cnicDigits = 13

// FormatCNIC normalizes a national identity number to the 5-7-1 dashed form
// (12345-6789012-3). Separators in the input are ignored, so formatting an
// already formatted value returns it unchanged. ok is false when the input
// does not hold exactly 13 ASCII digits.
func FormatCNIC(raw string) (formatted string, ok bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ':
		default:
			return "", false
		}
	}
	digits := b.String()
	if len(digits) != cnicDigits {
		return "", false
	}
	return digits[:5] + "-" + digits[5:12] + "-" + digits[12:], true
}
