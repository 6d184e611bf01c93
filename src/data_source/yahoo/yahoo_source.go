package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"live-analyser/src/helpers"
	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
)

const chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

// -----------------------------------------------------------------------------

type YahooFinanceSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "YahooFinanceSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// rangeForInterval picks a chart range wide enough to cover the requested
// candle count, given Yahoo's per-interval bar density.
func rangeForInterval(interval string, count int) string {
	switch interval {
	case "1m":
		return fmt.Sprintf("%dd", maxInt(7, count/390+2))
	case "5m":
		return fmt.Sprintf("%dd", maxInt(7, count/78+2))
	case "15m":
		return fmt.Sprintf("%dd", maxInt(7, count/26+2))
	case "30m":
		return fmt.Sprintf("%dd", maxInt(14, count/13+2))
	case "1h":
		return fmt.Sprintf("%dd", maxInt(30, count/6+2))
	case "1d":
		return fmt.Sprintf("%dd", maxInt(200, count))
	case "1wk":
		return fmt.Sprintf("%dd", maxInt(365, count*7))
	default:
		return "60d"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// -----------------------------------------------------------------------------

// FetchCandles fetches up to count OHLCV bars, oldest first.
func (s *YahooFinanceSource) FetchCandles(ctx context.Context, symbol, interval string, count int) ([]models.MCandle, error) {
	params := map[string]string{
		"interval":       interval,
		"range":          rangeForInterval(interval, count),
		"includePrePost": "false",
	}

	respBytes, err := s.Network.Get(ctx, fmt.Sprintf(chartURL, symbol), params)
	if err != nil {
		return nil, helpers.NewFetchError(fmt.Sprintf("network error for %s %s", symbol, interval), err)
	}

	candles, _, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, err
	}

	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

// -----------------------------------------------------------------------------

// FetchCurrentPrice returns the latest traded price from the chart metadata.
func (s *YahooFinanceSource) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	params := map[string]string{
		"interval":       "1m",
		"range":          "1d",
		"includePrePost": "false",
	}

	respBytes, err := s.Network.Get(ctx, fmt.Sprintf(chartURL, symbol), params)
	if err != nil {
		return 0, helpers.NewFetchError(fmt.Sprintf("network error for %s", symbol), err)
	}

	_, meta, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return 0, err
	}
	return meta.RegularMarketPrice, nil
}

// -----------------------------------------------------------------------------

type chartMeta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	DataGranularity    string  `json:"dataGranularity"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta       chartMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`   // Pointers to handle null
					High   []*float64 `json:"high"`   // Pointers to handle null
					Low    []*float64 `json:"low"`    // Pointers to handle null
					Close  []*float64 `json:"close"`  // Pointers to handle null
					Volume []*float64 `json:"volume"` // Pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MCandle, *chartMeta, error) {
	var resp chartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, helpers.NewFetchError("json unmarshal failed", err)
	}

	if resp.Chart.Error != nil {
		return nil, nil, helpers.NewFetchError(
			fmt.Sprintf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil, helpers.NewFetchError(fmt.Sprintf("no result in response for %s", symbol), nil)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &result.Meta, helpers.NewFetchError(fmt.Sprintf("no quote data for %s", symbol), nil)
	}

	quote := result.Indicators.Quote[0]
	candles := make([]models.MCandle, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Yahoo pads series with nulls for halted minutes; skip incomplete rows
		if i >= len(quote.Open) || i >= len(quote.Close) || i >= len(quote.High) || i >= len(quote.Low) {
			continue
		}
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		candles = append(candles, models.MCandle{
			Timestamp: ts,
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Volume:    volume,
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })

	return candles, &result.Meta, nil
}
