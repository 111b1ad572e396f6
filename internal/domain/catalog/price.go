package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	priceStrip  = regexp.MustCompile(`[^\d,.\-]`)
	pricePrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// ParsePrice converts a locale-formatted price ("$1.250,50") into a number.
// Dots followed by three or more digits are thousands separators, the first comma is
// the decimal separator, and only the leading numeric prefix is read.
func ParsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	only := priceStrip.ReplaceAllString(raw, "")
	only = dropThousandsDots(only)
	only = strings.Replace(only, ",", ".", 1)

	num := pricePrefix.FindString(only)
	if num == "" {
		return 0, false
	}
	num = strings.TrimSuffix(num, ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	} else if strings.HasPrefix(num, "-.") {
		num = "-0" + num[1:]
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// dropThousandsDots removes every dot that is immediately followed by 3+ digits.
func dropThousandsDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && digitsAt(s, i+1) >= 3 {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func digitsAt(s string, from int) int {
	n := 0
	for j := from; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
		n++
	}
	return n
}
