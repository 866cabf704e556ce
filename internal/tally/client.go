package tally

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
)

// ErrUnreachable is returned when the Tally HTTP server cannot be reached
// or answers with a non-success status.
var ErrUnreachable = errors.New("tally is not reachable")

// Client talks to Tally's HTTP XML server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	probeTimeout time.Duration
	logger       logging.Logger
}

// NewClient creates a client. requestTimeout of zero means export requests
// have no deadline; probeTimeout bounds Ping only.
func NewClient(baseURL string, probeTimeout, requestTimeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		probeTimeout: probeTimeout,
		logger:       logger,
	}
}

// Ping checks that the HTTP XML server is enabled and answering.
// Only a 200 response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: probe returned %s", ErrUnreachable, resp.Status)
	}
	return nil
}

// ExportProfitAndLoss requests the Profit and Loss report for r and returns
// the raw response body.
func (c *Client) ExportProfitAndLoss(ctx context.Context, r period.Range) ([]byte, error) {
	c.logger.Debug("requesting Profit and Loss for %s", r)
	return c.post(ctx, ProfitAndLossEnvelope(r))
}

// FetchLedgerNames returns every ledger name known to the open company,
// in the order Tally lists them.
func (c *Client) FetchLedgerNames(ctx context.Context) ([]string, error) {
	body, err := c.post(ctx, LedgerListEnvelope())
	if err != nil {
		return nil, err
	}
	names, err := ParseLedgerNames(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger list: %w", err)
	}
	c.logger.Debug("received %d ledgers", len(names))
	return names, nil
}

// post sends an envelope and returns the response body.
func (c *Client) post(ctx context.Context, env Envelope) ([]byte, error) {
	payload, err := env.Marshal()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: request returned %s", ErrUnreachable, resp.Status)
	}
	return body, nil
}

// ParseLedgerNames collects the trimmed text of every NAME element at any
// depth. Empty names are skipped.
func ParseLedgerNames(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var names []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "NAME" {
			continue
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(text); text != "" {
			names = append(names, text)
		}
	}
}
