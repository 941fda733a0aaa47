package ncwms

import "strings"

// FormatSignificant truncates the decimal representation of value to sigFigs
// significant figures. Characters before the first significant digit (sign,
// leading zeros and the decimal point) are kept as they are, and a decimal
// point inside the significant run does not count as a digit. The value is
// truncated, not rounded.
func FormatSignificant(value string, sigFigs int) string {
	var b strings.Builder
	firstSig := -1
	dpSeen := 0
	for i := 0; i < len(value); i++ {
		c := value[i]
		if firstSig < 0 {
			b.WriteByte(c)
			if c != '0' && c != '.' && c != '-' {
				firstSig = i
			}
			continue
		}
		if c == '.' {
			dpSeen = 1
		}
		if i-firstSig < sigFigs+dpSeen {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatSignificantFloat is FormatSignificant for a float64, using the
// shortest decimal representation of v.
func FormatSignificantFloat(v float64, sigFigs int) string {
	return FormatSignificant(FormatFloat(v), sigFigs)
}
