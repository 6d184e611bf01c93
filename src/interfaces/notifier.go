package interfaces

// -----------------------------------------------------------------------------
// INotifier pushes alert messages to an external channel (Telegram, ntfy).
// Failures are logged by the caller and never abort the pipeline.
// -----------------------------------------------------------------------------

type INotifier interface {
	Notify(message string) error
}
