package bot

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	ptime "github.com/yaa110/go-persian-calendar"
)

// formatToman renders a whole-Toman amount, comma-grouped. Fractions
// are truncated: amounts are entered in whole Toman.
func formatToman(amount decimal.Decimal) string {
	return groupDigits(amount.IntPart()) + " تومان"
}

func groupDigits(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// solarDate renders the stored timestamp as a Jalali date. The Jalali
// form is display-only; storage stays Gregorian.
func solarDate(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd")
}
