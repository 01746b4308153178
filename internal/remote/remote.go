// Package remote pushes commit scores to the scoring-history service.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// Client submits score records with a single JSON POST.
// Submissions are never retried.
type Client struct {
	url    string
	client *resty.Client
}

var _ contract.Submitter = &Client{} // Compile-time check

// NewClient creates a client for the service at url. Every request is bounded by timeout.
func NewClient(url string, timeout time.Duration) *Client {
	cl := http.Client{Timeout: timeout}
	client := resty.NewWithClient(&cl)
	client.SetRetryCount(0)
	return &Client{url: url, client: client}
}

// Submit implements the Submitter interface.
// The response body is ignored; any 2xx status counts as accepted.
func (c *Client) Submit(ctx context.Context, records []schema.SubmitRecord) error {
	if records == nil {
		records = []schema.SubmitRecord{}
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(records).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("failed to submit %d score records to %s: %w", len(records), c.url, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to submit %d score records to %s: status code %d", len(records), c.url, resp.StatusCode())
	}
	log.Debugf("Submitted %d score records to %s", len(records), c.url)
	return nil
}

// NopSubmitter drops every record. It stands in when no remote URL is configured.
type NopSubmitter struct{}

var _ contract.Submitter = NopSubmitter{} // Compile-time check

// Submit implements the Submitter interface.
func (NopSubmitter) Submit(context.Context, []schema.SubmitRecord) error { return nil }

// NewSubmitter returns a Client for url, or a NopSubmitter when url is empty.
func NewSubmitter(url string, timeout time.Duration) contract.Submitter {
	if url == "" {
		return NopSubmitter{}
	}
	return NewClient(url, timeout)
}
