// Package mailchimp is a Mailchimp marketing API client covering the list
// member lookup and upsert the sync pipeline needs.
package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/config"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/httpretry"
)

// ErrUnavailable marks transport or auth failures against the Mailchimp
// API. Per-item callers convert it into an error outcome and keep going.
var ErrUnavailable = errors.New("mailchimp unavailable")

// Client is the Mailchimp API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a Mailchimp API client. Member writes must happen at
// most once per item, so the client deliberately uses a plain http.Client
// rather than the retry wrapper.
func NewClient(cfg config.MailchimpConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// SubscriberHash returns the Mailchimp member key for an email: the md5
// hex digest of the lowercased address. The same email always maps to the
// same key regardless of input casing.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// GetSubscriber looks up a list member by email. A 404 is a valid absent
// result, returned as (nil, nil).
func (c *Client) GetSubscriber(ctx context.Context, email, listID string) (*Member, error) {
	endpoint := fmt.Sprintf("%s/lists/%s/members/%s", c.baseURL, listID, SubscriberHash(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var member Member
	if err := json.Unmarshal(body, &member); err != nil {
		return nil, fmt.Errorf("%w: parsing member: %v", ErrUnavailable, err)
	}
	return &member, nil
}

// UpsertSubscriber writes a member (create-or-replace) and classifies the
// result. The lookup happens first but only for classification: the PUT is
// unconditional, even when nothing changed, so status_if_new semantics are
// refreshed on every run. The write is attempted at most once; a lookup
// failure aborts before the write, and either failure is returned to the
// caller unclassified.
func (c *Client) UpsertSubscriber(ctx context.Context, email string, fields MergeFields, listID string) (Outcome, error) {
	existing, err := c.GetSubscriber(ctx, email, listID)
	if err != nil {
		return Outcome{}, err
	}

	endpoint := fmt.Sprintf("%s/lists/%s/members/%s", c.baseURL, listID, SubscriberHash(email))
	payload, err := json.Marshal(memberUpsert{
		EmailAddress: email,
		StatusIfNew:  "subscribed",
		MergeFields:  fields,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("marshaling member: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	outcome := Outcome{Email: &email, MergeFields: &fields}
	switch {
	case existing == nil:
		outcome.Status = StatusSuccessNew
	case existing.MergeFields != fields:
		outcome.Status = StatusUpdated
		prior := existing.MergeFields
		outcome.OldMergeFields = &prior
	default:
		outcome.Status = StatusNoChanges
	}
	return outcome, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "apikey "+c.apiKey)
}
