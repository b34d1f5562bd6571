package mailchimp

// MergeFields are the destination-side contact fields the sync maintains.
// The struct is comparable; == is the structural equality used to decide
// whether an existing member actually changed.
type MergeFields struct {
	Name   string `json:"NAME"`
	Phone  string `json:"PHONE"`
	FDate  string `json:"FDATE"`
	Status string `json:"STATUS"`
}

// Member is a Mailchimp list member as returned by the members API.
// Merge fields beyond the four synced ones are ignored on decode.
type Member struct {
	EmailAddress string      `json:"email_address"`
	Status       string      `json:"status"`
	MergeFields  MergeFields `json:"merge_fields"`
}

// memberUpsert is the PUT body for create-or-replace of a member.
type memberUpsert struct {
	EmailAddress string      `json:"email_address"`
	StatusIfNew  string      `json:"status_if_new"`
	MergeFields  MergeFields `json:"merge_fields"`
}

// Status classifies the result of synchronizing one item.
type Status string

const (
	// StatusSuccessNew means no prior member existed for the email.
	StatusSuccessNew Status = "success_new"
	// StatusUpdated means a prior member existed with different merge fields.
	StatusUpdated Status = "updated"
	// StatusNoChanges means a prior member existed with identical merge fields.
	// The write still happened; the classification is bookkeeping only.
	StatusNoChanges Status = "no_changes"
	// StatusSkipped means the item carried no email and was never sent.
	StatusSkipped Status = "skipped"
	// StatusError means the lookup or write failed for this item.
	StatusError Status = "error"
)

// Outcome is the per-item sync result. Status determines which optional
// fields are populated: OldMergeFields only for updated, Error only for
// error, Reason only for skipped. Email is null for skipped items.
type Outcome struct {
	Status         Status       `json:"status"`
	Email          *string      `json:"email"`
	MergeFields    *MergeFields `json:"mergeFields,omitempty"`
	OldMergeFields *MergeFields `json:"oldMergeFields,omitempty"`
	Error          string       `json:"error,omitempty"`
	Reason         string       `json:"reason,omitempty"`
}
