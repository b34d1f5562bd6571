package monday

import "encoding/json"

// ColumnValue is one typed value attached to a board item. The Monday
// GraphQL API returns a fragment per column type, so at most one of the
// fields is populated; a value with all fields nil belongs to a column
// type the sync does not care about.
type ColumnValue struct {
	Date   *string      `json:"date,omitempty"`
	Number *json.Number `json:"number,omitempty"`
	Text   *string      `json:"text,omitempty"`
	Label  *string      `json:"label,omitempty"`
	Email  *string      `json:"email,omitempty"`
}

// Item is one board item with its column values, in API order.
type Item struct {
	ID           string        `json:"id"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// graphQLRequest is the POST body for the Monday v2 API.
type graphQLRequest struct {
	Query string `json:"query"`
}

// graphQLResponse is the generic envelope; Data is decoded per query.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type boardsData struct {
	Boards []struct {
		ItemsPage struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"items_page"`
	} `json:"boards"`
}

type itemsData struct {
	Items []Item `json:"items"`
}
