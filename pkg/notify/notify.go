package notify

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/log"
)

// Notifier delivers the run's status message to a configured endpoint with a
// single POST. Delivery is fire and forget: no retry, and the response body
// is ignored beyond the status code.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *log.Logger
}

type Option func(*Notifier)

func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// New builds a Notifier. An empty endpoint is allowed; Send then becomes a
// logged no-op.
func New(endpoint string, opts ...Option) Notifier {
	n := Notifier{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   log.WithPrefix("notify"),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func (n Notifier) Send(ctx context.Context, message string) error {
	if n.endpoint == "" {
		n.logger.Info("notification endpoint not configured, skipping delivery")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return xerrors.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	res, err := n.client.Do(req)
	if err != nil {
		return xerrors.Errorf("failed to deliver notification: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return xerrors.Errorf("notification endpoint returned status %d", res.StatusCode)
	}
	n.logger.Info("notification delivered", log.Int("status", res.StatusCode))
	return nil
}
