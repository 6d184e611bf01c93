package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager abstracts outbound HTTP with retries and timeouts.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// Get performs a GET request with query parameters and retry on
	// transient failures, honoring ctx cancellation.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)

	// -----------------------------------------------------------------------------

	// Post sends a request body with the given content type.
	Post(ctx context.Context, url string, contentType string, body []byte) ([]byte, error)
}
