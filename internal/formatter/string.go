package formatter

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// CallingCode returns the international dialing prefix for an ISO 3166-1
// alpha-2 region, e.g. "+49" for "DE". Regions without a code yield "".
func CallingCode(regionCode string) string {
	code := phonenumbers.GetCountryCodeForRegion(strings.ToUpper(regionCode))
	if code == 0 {
		return ""
	}
	return fmt.Sprintf("+%d", code)
}

// Integer formats n with English grouping separators: 83000000 -> "83,000,000"
func Integer(n int64) string {
	return printer.Sprintf("%d", n)
}

// Decimal formats f with grouping separators and at most the given fraction digits
func Decimal(f float64, maxFraction int) string {
	s := printer.Sprintf("%.*f", maxFraction, f)
	if maxFraction > 0 && strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
