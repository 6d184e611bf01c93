package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// Outbound notification adapters. Alerts are best effort: a failed delivery
// is returned to the caller for logging and never retried.
// -----------------------------------------------------------------------------

const notifyTimeout = 10 * time.Second

// FromConfig picks the notifier for the configured method. Returns nil when
// notifications are disabled.
func FromConfig(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (interfaces.INotifier, error) {
	if !cfg.Notifications.Enabled {
		return nil, nil
	}

	switch cfg.Notifications.Method {
	case "telegram":
		t := cfg.Notifications.Telegram
		if t.Token == "" || t.ChatID == "" {
			return nil, fmt.Errorf("telegram notifier needs a token and chat id")
		}
		return &TelegramNotifier{Token: t.Token, ChatID: t.ChatID, Network: netMgr, Logger: log}, nil
	case "ntfy":
		n := cfg.Notifications.Ntfy
		if n.Endpoint == "" {
			return nil, fmt.Errorf("ntfy notifier needs an endpoint")
		}
		return &NtfyNotifier{Endpoint: n.Endpoint, Network: netMgr, Logger: log}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown notification method %q", cfg.Notifications.Method)
	}
}

// -----------------------------------------------------------------------------

// TelegramNotifier posts alerts through the Bot API sendMessage call.
type TelegramNotifier struct {
	Token   string
	ChatID  string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

func (t *TelegramNotifier) Notify(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{
		"chat_id": t.ChatID,
		"text":    message,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.Token)
	if _, err := t.Network.Post(ctx, url, "application/json", payload); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}

	t.Logger.Debug("Telegram notification delivered")
	return nil
}

// -----------------------------------------------------------------------------

// NtfyNotifier posts the raw message body to an ntfy topic endpoint.
type NtfyNotifier struct {
	Endpoint string
	Network  interfaces.INetworkManager
	Logger   *logger.Logger
}

func (n *NtfyNotifier) Notify(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if _, err := n.Network.Post(ctx, n.Endpoint, "text/plain", []byte(message)); err != nil {
		return fmt.Errorf("ntfy send failed: %w", err)
	}

	n.Logger.Debug("ntfy notification delivered")
	return nil
}
