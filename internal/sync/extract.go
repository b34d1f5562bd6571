package sync

import (
	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/monday"
)

// Subscriber is the destination-shaped projection of one board item.
type Subscriber struct {
	// Email is empty when the item carries no email column value; such a
	// subscriber is never submitted to Mailchimp.
	Email       string
	MergeFields mailchimp.MergeFields
}

// ExtractSubscriber scans an item's column values and builds the
// subscriber record. For each target kind the first matching value wins
// and later values of the same kind are ignored; boards are expected to
// carry one column per kind, and the policy keeps the mapping
// deterministic when they don't. Missing kinds default to "".
//
// Pure function: no I/O, deterministic for the same ordered value list.
func ExtractSubscriber(item monday.Item) Subscriber {
	var sub Subscriber

	for _, cv := range item.ColumnValues {
		switch {
		case cv.Email != nil:
			if sub.Email == "" {
				sub.Email = *cv.Email
			}
		case cv.Text != nil:
			if sub.MergeFields.Name == "" {
				sub.MergeFields.Name = *cv.Text
			}
		case cv.Number != nil:
			if sub.MergeFields.Phone == "" {
				sub.MergeFields.Phone = cv.Number.String()
			}
		case cv.Date != nil:
			if sub.MergeFields.FDate == "" {
				sub.MergeFields.FDate = *cv.Date
			}
		case cv.Label != nil:
			if sub.MergeFields.Status == "" {
				sub.MergeFields.Status = *cv.Label
			}
		}
	}

	return sub
}
