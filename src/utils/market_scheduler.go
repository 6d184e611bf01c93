package utils

import (
	"sync"
	"time"
)

// MarketScheduler caches a TradingCalendar per symbol so the engine can
// gate update cycles by market hours without re-resolving calendars.
type MarketScheduler struct {
	mu        sync.Mutex
	calendars map[string]*TradingCalendar
}

func NewMarketScheduler() *MarketScheduler {
	return &MarketScheduler{calendars: make(map[string]*TradingCalendar)}
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) calendarFor(symbol string) *TradingCalendar {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	tc, ok := ms.calendars[symbol]
	if !ok {
		tc = GetCalendar(symbol)
		ms.calendars[symbol] = tc
	}
	return tc
}

// IsMarketOpen reports whether the symbol's market is open at t.
func (ms *MarketScheduler) IsMarketOpen(symbol string, t time.Time) bool {
	return ms.calendarFor(symbol).IsOpenOnMinute(t)
}

// AnyMarketOpen reports whether at least one of the symbols trades at t.
func (ms *MarketScheduler) AnyMarketOpen(symbols []string, t time.Time) bool {
	for _, symbol := range symbols {
		if ms.IsMarketOpen(symbol, t) {
			return true
		}
	}
	return false
}
