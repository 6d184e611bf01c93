package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers "is this market open right now" for a symbol,
// backed by scmhub/calendar with a Mon-Fri NY-hours fallback.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// suffixMICs maps Yahoo ticker suffixes to ISO 10383 MIC codes. Two-letter
// suffixes come first so ".ST" never falls through to ".T".
var suffixMICs = []struct {
	suffix string
	mic    string
}{
	{".PA", "xpar"}, {".DE", "xfra"}, {".AS", "xams"}, {".BR", "xbru"},
	{".MI", "xmil"}, {".MC", "xmad"}, {".ST", "xsto"}, {".CO", "xcse"},
	{".HE", "xhel"}, {".VI", "xwbo"}, {".SW", "xswx"}, {".TO", "xtse"},
	{".HK", "xhkg"}, {".AX", "xasx"}, {".KS", "xkrx"}, {".TW", "xtai"},
	{".SS", "xshg"}, {".SZ", "xshe"},
	{".L", "xlon"}, {".V", "xtsx"}, {".T", "xtks"},
}

// micForSymbol maps a Yahoo ticker suffix to an ISO 10383 MIC code.
func micForSymbol(symbol string) string {
	for _, s := range suffixMICs {
		if strings.HasSuffix(symbol, s.suffix) {
			return s.mic
		}
	}
	return "xnys" // Default US NYSE
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	cal := calendar.GetCalendar(micForSymbol(symbol))
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		// Simple fallback: Mon-Fri 09:30-16:00 New York time
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the date is a business day for the market.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}
