// Package monday is a minimal Monday.com GraphQL API client covering the
// board reads the sync pipeline needs.
package monday

import (
	"bytes"
	"context"
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

// ErrUnavailable marks transport, auth, or response-shape failures against
// the Monday API. The orchestrator aborts the whole run on it; without item
// data nothing downstream can proceed.
var ErrUnavailable = errors.New("monday unavailable")

// Client is the Monday.com API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a Monday API client. Fetch queries are idempotent
// reads, so they go through the retrying HTTP client.
func NewClient(cfg config.MondayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}, cfg.MaxRetries),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// GetItemIDs retrieves the ids of all items on the given board.
func (c *Client) GetItemIDs(ctx context.Context, boardID string) ([]string, error) {
	query := fmt.Sprintf(`{
  boards(ids: [%s]) {
    items_page {
      items {
        id
      }
    }
  }
}`, boardID)

	var data boardsData
	if err := c.doQuery(ctx, query, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return nil, fmt.Errorf("%w: board %s not found", ErrUnavailable, boardID)
	}

	items := data.Boards[0].ItemsPage.Items
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

// GetItemColumnValues retrieves the column values for all given items in a
// single batched query. Items may carry zero or several values of the same
// column type; the caller decides what to do with duplicates.
func (c *Client) GetItemColumnValues(ctx context.Context, itemIDs []string) ([]Item, error) {
	if len(itemIDs) == 0 {
		return []Item{}, nil
	}

	query := fmt.Sprintf(`query {
  items(ids: [%s]) {
    id
    column_values {
      ... on DateValue {
        date
      }
      ... on NumbersValue {
        number
      }
      ... on TextValue {
        text
      }
      ... on StatusValue {
        label
      }
      ... on EmailValue {
        email
      }
    }
  }
}`, strings.Join(itemIDs, ", "))

	var data itemsData
	if err := c.doQuery(ctx, query, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// doQuery posts a GraphQL query and decodes the data payload into out.
func (c *Client) doQuery(ctx context.Context, query string, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("%w: parsing response: %v", ErrUnavailable, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: API error: %s", ErrUnavailable, envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return fmt.Errorf("%w: response has no data", ErrUnavailable)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: parsing data: %v", ErrUnavailable, err)
	}
	return nil
}
