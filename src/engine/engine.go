package engine

import (
	"context"
	"sync"
	"time"

	"live-analyser/src/analysis"
	"live-analyser/src/helpers"
	"live-analyser/src/indicators"
	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
	"live-analyser/src/utils"
)

// -----------------------------------------------------------------------------
// Engine drives the update cycle: every UpdateIntervalMinutes it fetches
// fresh candles for each (symbol, interval), recomputes the indicator scores,
// aggregates, persists and broadcasts. Symbols are processed concurrently
// under a semaphore; one symbol failing never blocks the others. A cycle
// always runs to completion before the next one starts.
// -----------------------------------------------------------------------------

type Engine struct {
	Config    *models.MConfig
	Source    interfaces.ICandleSource
	Stores    interfaces.IStoreManager
	Gateway   interfaces.IBroadcaster
	Evaluator *AlertEvaluator
	Cache     *utils.SnapshotCache
	Logger    *logger.Logger

	aggregator *analysis.Aggregator
	scheduler  *utils.MarketScheduler

	cancel context.CancelFunc
	done   chan struct{}
}

// -----------------------------------------------------------------------------

func NewEngine(cfg *models.MConfig, source interfaces.ICandleSource,
	stores interfaces.IStoreManager, gateway interfaces.IBroadcaster,
	evaluator *AlertEvaluator, cache *utils.SnapshotCache, log *logger.Logger) *Engine {

	return &Engine{
		Config:     cfg,
		Source:     source,
		Stores:     stores,
		Gateway:    gateway,
		Evaluator:  evaluator,
		Cache:      cache,
		Logger:     log,
		aggregator: analysis.NewAggregator(cfg.TimeframeWeights, cfg.Intervals),
		scheduler:  utils.NewMarketScheduler(),
	}
}

// -----------------------------------------------------------------------------

// Start seeds the in-memory state from storage and launches the update loop.
func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	e.seedFromStorage()

	go e.run(ctx)
}

// -----------------------------------------------------------------------------

// Stop cancels the loop and waits for the in-flight cycle to drain.
func (e *Engine) Stop() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
	e.Logger.Info("Engine stopped")
}

// -----------------------------------------------------------------------------

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	period := time.Duration(e.Config.UpdateIntervalMinutes) * time.Minute
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	// First cycle runs immediately so clients have data at startup.
	e.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// RunCycle processes every configured symbol once and waits for all of them.
func (e *Engine) RunCycle(ctx context.Context) {
	started := time.Now()
	e.Logger.Info("Update cycle started (%d symbols)", len(e.Config.Symbols))

	sem := make(chan struct{}, e.Config.Network.ConcurrentRequests)
	var wg sync.WaitGroup

	for _, symbol := range e.Config.Symbols {
		if ctx.Err() != nil {
			break
		}
		if e.Config.MarketHoursOnly && !e.scheduler.IsMarketOpen(symbol, time.Now()) {
			e.Logger.Debug("Market closed for %s, skipping", symbol)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(sym string) {
			defer wg.Done()
			defer func() { <-sem }()

			symCtx, cancel := context.WithTimeout(ctx, e.symbolTimeout())
			defer cancel()

			if err := e.updateSymbol(symCtx, sym); err != nil {
				e.Logger.Warning("Update failed for %s: %v", sym, err)
			}
		}(symbol)
	}

	wg.Wait()
	e.Logger.Info("Update cycle finished in %.1fs", time.Since(started).Seconds())
}

// -----------------------------------------------------------------------------

// symbolTimeout bounds one symbol's full pipeline: every interval fetch with
// its retries, plus headroom for storage writes.
func (e *Engine) symbolTimeout() time.Duration {
	perFetch := time.Duration(e.Config.Network.RequestTimeout) * time.Second *
		time.Duration(e.Config.Network.MaxRetries+1)
	return perFetch*time.Duration(len(e.Config.Intervals)) + 10*time.Second
}

// -----------------------------------------------------------------------------

// updateSymbol runs the full pipeline for one symbol: fetch, upsert, score,
// aggregate, persist, alert, broadcast. A single interval failing is logged
// and skipped; the snapshot is built from whatever intervals succeeded.
func (e *Engine) updateSymbol(ctx context.Context, symbol string) error {
	now := time.Now().Unix()
	intervalScores := make(map[string]models.MIntervalScore, len(e.Config.Intervals))

	backfill := !e.hasStoredScores(symbol)

	for _, interval := range e.Config.Intervals {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		count := e.Config.CandlesPerInterval[interval]
		if backfill && e.Config.HistoricalLimit > count {
			count = e.Config.HistoricalLimit
		}

		candles, err := e.Source.FetchCandles(ctx, symbol, interval, count)
		if err != nil {
			e.Logger.Warning("Fetch failed for %s %s: %v", symbol, interval, err)
			continue
		}
		if len(candles) == 0 {
			e.Logger.Debug("No candles returned for %s %s", symbol, interval)
			continue
		}

		maxStored := e.Config.MaxCandlesStored[interval]
		err = e.Stores.WithWriter(symbol, func(store interfaces.ISymbolStore) error {
			return store.UpsertCandles(interval, candles, maxStored)
		})
		if err != nil {
			e.Logger.Warning("Candle upsert failed for %s %s: %v", symbol, interval, err)
			continue
		}

		// Score on the merged stored series, not just this fetch.
		store, err := e.Stores.Store(symbol)
		if err != nil {
			return err
		}
		series, err := store.GetCandles(interval, maxStored)
		if err != nil {
			e.Logger.Warning("Candle read failed for %s %s: %v", symbol, interval, err)
			continue
		}

		intervalScores[interval] = indicators.BuildIntervalScore(interval, now, series)
	}

	snapshot := e.aggregator.Aggregate(symbol, now, intervalScores)

	if snapshot.Classification == models.ClassNoData {
		// Every interval failed. Keep the last-known-good snapshot cached and
		// the crossover history untouched rather than publishing a hollow one.
		e.Logger.Warning("No usable data for %s this cycle, keeping last snapshot", symbol)
		return nil
	}

	err := e.Stores.WithWriter(symbol, func(store interfaces.ISymbolStore) error {
		return store.UpsertScoreSnapshot(snapshot)
	})
	if err != nil {
		// Keep going: an unsaved snapshot is still worth broadcasting.
		e.Logger.Warning("Snapshot persist failed for %s: %v", symbol, err)
	}

	e.Cache.Put(*snapshot)
	e.Evaluator.Evaluate(snapshot, e.Cache.ScoreHistory(symbol))
	e.Gateway.PublishScore(snapshot)

	return nil
}

// -----------------------------------------------------------------------------

// hasStoredScores reports whether the symbol already has score history, in
// memory or on disk. False means this is a cold start and the first cycle
// should backfill with the historical candle limit.
func (e *Engine) hasStoredScores(symbol string) bool {
	if len(e.Cache.ScoreHistory(symbol)) > 0 {
		return true
	}
	store, err := e.Stores.Store(symbol)
	if err != nil {
		return false
	}
	latest, err := store.GetLatestScore()
	return err == nil && latest != nil
}

// -----------------------------------------------------------------------------

// seedFromStorage preloads the snapshot cache with persisted score history so
// crossover detection and websocket initial state survive restarts.
func (e *Engine) seedFromStorage() {
	for _, symbol := range e.Config.Symbols {
		store, err := e.Stores.Store(symbol)
		if err != nil {
			e.Logger.Warning("Could not open store for %s: %v",
				symbol, helpers.NewDatabaseError("open", err))
			continue
		}

		history, err := store.GetScoreHistory(analysis.SlowScoreSMAPeriod + 1)
		if err != nil || len(history) == 0 {
			continue
		}

		// All but the newest go through Seed; the newest goes through Put so
		// it also becomes the cached latest snapshot.
		points := make([]utils.ScorePoint, len(history)-1)
		for i, snap := range history[:len(history)-1] {
			points[i] = utils.ScorePoint{Timestamp: snap.Timestamp, Score: snap.WeightedTotalScore}
		}
		e.Cache.Seed(symbol, points)
		e.Cache.Put(history[len(history)-1])
		e.Logger.Info("Seeded %s with %d stored scores", symbol, len(history))
	}
}
