package sync

import (
	"encoding/json"
	"testing"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/monday"
)

func strptr(s string) *string { return &s }

func numptr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func TestExtractSubscriberAllKinds(t *testing.T) {
	item := monday.Item{
		ID: "101",
		ColumnValues: []monday.ColumnValue{
			{Email: strptr("ana@example.com")},
			{Text: strptr("Ana")},
			{Number: numptr("987654")},
			{Date: strptr("2026-03-01")},
			{Label: strptr("Cliente")},
		},
	}

	sub := ExtractSubscriber(item)

	if sub.Email != "ana@example.com" {
		t.Errorf("Email = %q, want %q", sub.Email, "ana@example.com")
	}
	want := mailchimp.MergeFields{Name: "Ana", Phone: "987654", FDate: "2026-03-01", Status: "Cliente"}
	if sub.MergeFields != want {
		t.Errorf("MergeFields = %+v, want %+v", sub.MergeFields, want)
	}
}

func TestExtractSubscriberFirstMatchWins(t *testing.T) {
	item := monday.Item{
		ID: "102",
		ColumnValues: []monday.ColumnValue{
			{Text: strptr("Primer Texto")},
			{Email: strptr("primero@example.com")},
			{Text: strptr("Segundo Texto")},
			{Email: strptr("segundo@example.com")},
		},
	}

	sub := ExtractSubscriber(item)

	if sub.Email != "primero@example.com" {
		t.Errorf("Email = %q, want the first email value", sub.Email)
	}
	if sub.MergeFields.Name != "Primer Texto" {
		t.Errorf("Name = %q, want the first text value", sub.MergeFields.Name)
	}
}

func TestExtractSubscriberDefaultsToEmpty(t *testing.T) {
	item := monday.Item{
		ID: "103",
		ColumnValues: []monday.ColumnValue{
			{Email: strptr("solo@example.com")},
		},
	}

	sub := ExtractSubscriber(item)

	if sub.MergeFields != (mailchimp.MergeFields{}) {
		t.Errorf("MergeFields = %+v, want all empty", sub.MergeFields)
	}
}

func TestExtractSubscriberNoEmail(t *testing.T) {
	item := monday.Item{
		ID: "104",
		ColumnValues: []monday.ColumnValue{
			{Text: strptr("Sin Correo")},
			{}, // column of an untracked type
		},
	}

	sub := ExtractSubscriber(item)

	if sub.Email != "" {
		t.Errorf("Email = %q, want empty", sub.Email)
	}
	if sub.MergeFields.Name != "Sin Correo" {
		t.Errorf("Name = %q, want %q", sub.MergeFields.Name, "Sin Correo")
	}
}

func TestExtractSubscriberDeterministic(t *testing.T) {
	item := monday.Item{
		ID: "105",
		ColumnValues: []monday.ColumnValue{
			{Email: strptr("ana@example.com")},
			{Text: strptr("Ana")},
			{Text: strptr("Otra")},
		},
	}

	first := ExtractSubscriber(item)
	for i := 0; i < 10; i++ {
		if got := ExtractSubscriber(item); got != first {
			t.Fatalf("extraction not deterministic: %+v vs %+v", got, first)
		}
	}
}
