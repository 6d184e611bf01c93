package interfaces

import (
	"context"

	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// ICandleSource is the contract for an external market data provider.
// -----------------------------------------------------------------------------

type ICandleSource interface {

	// Name returns the identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchCandles retrieves up to count most recent bars for a symbol and
	// interval, ordered oldest first. A failure is a FetchError: the caller
	// skips the symbol for the current cycle and retries on the next one.
	FetchCandles(ctx context.Context, symbol, interval string, count int) ([]models.MCandle, error)

	// -----------------------------------------------------------------------------

	// FetchCurrentPrice returns the provider's latest traded price.
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
}
