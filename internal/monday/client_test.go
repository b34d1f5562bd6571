package monday

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/config"
)

func newTestClient(serverURL string) *Client {
	c := NewClient(config.MondayConfig{
		APIKey:     "test-monday-key",
		BaseURL:    serverURL,
		MaxRetries: 1,
	})
	// Plain client: retry timing is covered in httpretry's own tests.
	c.SetHTTPClient(http.DefaultClient)
	return c
}

func TestGetItemIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-monday-key" {
			t.Errorf("Authorization = %q, want API key", got)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}

		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if !strings.Contains(req.Query, "boards(ids: [4521])") {
			t.Errorf("query missing board id: %s", req.Query)
		}
		if !strings.Contains(req.Query, "items_page") {
			t.Errorf("query missing items_page: %s", req.Query)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"boards":[{"items_page":{"items":[{"id":"101"},{"id":"102"},{"id":"103"}]}}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ids, err := client.GetItemIDs(context.Background(), "4521")
	if err != nil {
		t.Fatalf("GetItemIDs returned error: %v", err)
	}

	want := []string{"101", "102", "103"}
	if len(ids) != len(want) {
		t.Fatalf("len(ids) = %d, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestGetItemIDsEmptyBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"boards":[{"items_page":{"items":[]}}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ids, err := client.GetItemIDs(context.Background(), "4521")
	if err != nil {
		t.Fatalf("GetItemIDs returned error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("len(ids) = %d, want 0", len(ids))
	}
}

func TestGetItemIDsUnknownBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"boards":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetItemIDs(context.Background(), "9999")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestGetItemIDsGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Not Authenticated"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetItemIDs(context.Background(), "4521")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "Not Authenticated") {
		t.Errorf("err = %v, want the API message included", err)
	}
}

func TestGetItemIDsServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetItemIDs(context.Background(), "4521")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestGetItemColumnValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Query, "items(ids: [101, 102])") {
			t.Errorf("query missing batched ids: %s", req.Query)
		}
		for _, fragment := range []string{"DateValue", "NumbersValue", "TextValue", "StatusValue", "EmailValue"} {
			if !strings.Contains(req.Query, fragment) {
				t.Errorf("query missing %s fragment", fragment)
			}
		}

		w.Write([]byte(`{"data":{"items":[
			{"id":"101","column_values":[{"email":"ana@example.com"},{"text":"Ana"},{"number":987654},{"date":"2026-03-01"},{"label":"Cliente"}]},
			{"id":"102","column_values":[{},{"text":"Sin Correo"}]}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	items, err := client.GetItemColumnValues(context.Background(), []string{"101", "102"})
	if err != nil {
		t.Fatalf("GetItemColumnValues returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.ID != "101" {
		t.Errorf("items[0].ID = %q, want %q", first.ID, "101")
	}
	if len(first.ColumnValues) != 5 {
		t.Fatalf("len(ColumnValues) = %d, want 5", len(first.ColumnValues))
	}
	if first.ColumnValues[0].Email == nil || *first.ColumnValues[0].Email != "ana@example.com" {
		t.Errorf("email column = %v, want ana@example.com", first.ColumnValues[0].Email)
	}
	if first.ColumnValues[2].Number == nil || first.ColumnValues[2].Number.String() != "987654" {
		t.Errorf("number column = %v, want 987654", first.ColumnValues[2].Number)
	}

	// Empty object decodes to a value with no populated kind.
	second := items[1]
	if cv := second.ColumnValues[0]; cv.Date != nil || cv.Number != nil || cv.Text != nil || cv.Label != nil || cv.Email != nil {
		t.Errorf("empty column value should have all fields nil, got %+v", cv)
	}
}

func TestGetItemColumnValuesNoIDs(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	items, err := client.GetItemColumnValues(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetItemColumnValues returned error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0 without any remote call", len(items))
	}
}
