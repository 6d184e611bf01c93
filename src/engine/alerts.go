package engine

import (
	"fmt"
	"sync"
	"time"

	"live-analyser/src/analysis"
	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// AlertEvaluator turns score snapshots into alerts. Conditions are level
// triggered: an alert keeps firing while its condition holds, but never more
// than once per cooldown window per (symbol, alert type).
// -----------------------------------------------------------------------------

// Intervals checked for the RSI alerts, most significant first.
var rsiAlertIntervals = []string{"1h", "15m", "5m", "1m", "1d"}

type AlertEvaluator struct {
	Rules    models.MBreakoutRules
	Gateway  interfaces.IBroadcaster
	Notifier interfaces.INotifier // nil when notifications are disabled
	Logger   *logger.Logger

	mu        sync.Mutex
	lastFired map[string]time.Time // keyed by symbol + "|" + alert type

	now func() time.Time // overridable for tests
}

// -----------------------------------------------------------------------------

func NewAlertEvaluator(rules models.MBreakoutRules, gateway interfaces.IBroadcaster,
	notifier interfaces.INotifier, log *logger.Logger) *AlertEvaluator {
	return &AlertEvaluator{
		Rules:     rules,
		Gateway:   gateway,
		Notifier:  notifier,
		Logger:    log,
		lastFired: make(map[string]time.Time),
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

// Evaluate checks all alert conditions for one snapshot. scoreHistory is the
// symbol's weighted-score series (oldest first) including this snapshot.
func (ae *AlertEvaluator) Evaluate(snapshot *models.MScoreSnapshot, scoreHistory []float64) []models.MAlertEvent {
	if snapshot == nil || snapshot.Classification == models.ClassNoData {
		return nil
	}

	var fired []models.MAlertEvent

	// Weighted total threshold
	total := snapshot.WeightedTotalScore
	if total > ae.Rules.TotalScoreThreshold {
		fired = ae.fire(fired, snapshot, models.AlertStrongBuy,
			fmt.Sprintf("%s weighted score %.2f crossed above %.0f (%s)",
				snapshot.Symbol, total, ae.Rules.TotalScoreThreshold, snapshot.Classification))
	} else if total < -ae.Rules.TotalScoreThreshold {
		fired = ae.fire(fired, snapshot, models.AlertStrongSell,
			fmt.Sprintf("%s weighted score %.2f crossed below -%.0f (%s)",
				snapshot.Symbol, total, ae.Rules.TotalScoreThreshold, snapshot.Classification))
	}

	// Raw RSI extremes
	if rsi, ok := ae.referenceRSI(snapshot); ok {
		if rsi > ae.Rules.RSIOverbought {
			fired = ae.fire(fired, snapshot, models.AlertOverbought,
				fmt.Sprintf("%s RSI %.1f above %.0f", snapshot.Symbol, rsi, ae.Rules.RSIOverbought))
		} else if rsi < ae.Rules.RSIOversold {
			fired = ae.fire(fired, snapshot, models.AlertOversold,
				fmt.Sprintf("%s RSI %.1f below %.0f", snapshot.Symbol, rsi, ae.Rules.RSIOversold))
		}
	}

	// Momentum turn on the score history itself
	switch analysis.DetectCrossover(scoreHistory, analysis.FastScoreSMAPeriod, analysis.SlowScoreSMAPeriod) {
	case analysis.CrossBuy:
		fired = ae.fire(fired, snapshot, models.AlertScoreCrossBuy,
			fmt.Sprintf("%s score momentum turned bullish (fast SMA crossed above slow)", snapshot.Symbol))
	case analysis.CrossSell:
		fired = ae.fire(fired, snapshot, models.AlertScoreCrossSell,
			fmt.Sprintf("%s score momentum turned bearish (fast SMA crossed below slow)", snapshot.Symbol))
	}

	return fired
}

// -----------------------------------------------------------------------------

// referenceRSI picks the raw RSI from the most significant interval that
// computed one this cycle.
func (ae *AlertEvaluator) referenceRSI(snapshot *models.MScoreSnapshot) (float64, bool) {
	for _, interval := range rsiAlertIntervals {
		score, ok := snapshot.Intervals[interval]
		if !ok {
			continue
		}
		for _, missing := range score.InsufficientData {
			if missing == "rsi" {
				ok = false
				break
			}
		}
		if ok {
			return score.RSIValue, true
		}
	}
	return 0, false
}

// -----------------------------------------------------------------------------

// fire emits the alert unless it is still inside its cooldown window.
func (ae *AlertEvaluator) fire(fired []models.MAlertEvent, snapshot *models.MScoreSnapshot,
	alertType, message string) []models.MAlertEvent {

	key := snapshot.Symbol + "|" + alertType
	now := ae.now()

	ae.mu.Lock()
	last, seen := ae.lastFired[key]
	if seen && now.Sub(last) < time.Duration(ae.Rules.CooldownSeconds)*time.Second {
		ae.mu.Unlock()
		return fired
	}
	ae.lastFired[key] = now
	ae.mu.Unlock()

	alert := models.MAlertEvent{
		Symbol:    snapshot.Symbol,
		Type:      alertType,
		Message:   message,
		Timestamp: now.Unix(),
	}

	ae.Logger.Info("ALERT %s %s: %s", alert.Symbol, alert.Type, alert.Message)
	ae.Gateway.PublishAlert(&alert)

	if ae.Notifier != nil {
		if err := ae.Notifier.Notify(alert.Message); err != nil {
			ae.Logger.Warning("Failed to deliver notification for %s: %v", alert.Symbol, err)
		}
	}

	return append(fired, alert)
}
