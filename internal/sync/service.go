// Package sync drives the Monday → Mailchimp synchronization pipeline:
// fetch board items, project them into subscriber records, and upsert
// them into the destination list at a controlled pace.
package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/monday"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/logger"
)

// SkipReasonNoEmail is the reason attached to items without an email value.
const SkipReasonNoEmail = "No email found"

// Source retrieves item ids and column values from the board.
type Source interface {
	GetItemIDs(ctx context.Context, boardID string) ([]string, error)
	GetItemColumnValues(ctx context.Context, itemIDs []string) ([]monday.Item, error)
}

// Destination upserts subscriber records into the mailing list.
type Destination interface {
	UpsertSubscriber(ctx context.Context, email string, fields mailchimp.MergeFields, listID string) (mailchimp.Outcome, error)
}

// Service orchestrates one synchronization run. Items are processed
// strictly sequentially in source order; the fixed-interval limiter is the
// rate-limiting strategy against the Mailchimp request ceiling, trading
// throughput for guaranteed compliance.
type Service struct {
	source      Source
	destination Destination
	limiter     *rate.Limiter
}

// NewService creates the orchestrator. paceInterval is the minimum spacing
// between destination calls; zero or negative falls back to one second.
func NewService(source Source, destination Destination, paceInterval time.Duration) *Service {
	if paceInterval <= 0 {
		paceInterval = time.Second
	}
	return &Service{
		source:      source,
		destination: destination,
		limiter:     rate.NewLimiter(rate.Every(paceInterval), 1),
	}
}

// SetLimiter replaces the pacing limiter (useful for testing).
func (s *Service) SetLimiter(l *rate.Limiter) {
	s.limiter = l
}

// Run executes the full batch and returns one outcome per source item, in
// source order. Fetch-stage failures abort the run with a top-level error;
// per-item destination failures become error outcomes and the run
// continues — partial success is a valid terminal state.
func (s *Service) Run(ctx context.Context, boardID, listID string) ([]mailchimp.Outcome, error) {
	itemIDs, err := s.source.GetItemIDs(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("fetching item ids for board %s: %w", boardID, err)
	}
	logger.Info("fetched board items", "board_id", boardID, "items", fmt.Sprintf("%d", len(itemIDs)))

	items, err := s.source.GetItemColumnValues(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching column values: %w", err)
	}

	outcomes := make([]mailchimp.Outcome, 0, len(items))
	for _, item := range items {
		sub := ExtractSubscriber(item)

		if sub.Email == "" {
			// No remote call is made, so no pacing delay either.
			outcomes = append(outcomes, mailchimp.Outcome{
				Status: mailchimp.StatusSkipped,
				Reason: SkipReasonNoEmail,
			})
			logger.Debug("item skipped", "item_id", item.ID, "reason", SkipReasonNoEmail)
			continue
		}

		outcome := s.upsertOne(ctx, sub, listID)
		outcomes = append(outcomes, outcome)
	}

	sum := Summarize(outcomes)
	logger.Info("sync run complete",
		"board_id", boardID,
		"list_id", listID,
		"total", fmt.Sprintf("%d", len(outcomes)),
		"new", fmt.Sprintf("%d", sum.New),
		"updated", fmt.Sprintf("%d", sum.Updated),
		"no_changes", fmt.Sprintf("%d", sum.NoChanges),
		"skipped", fmt.Sprintf("%d", sum.Skipped),
		"errors", fmt.Sprintf("%d", sum.Errors))

	return outcomes, nil
}

// upsertOne gates on the pacer and performs a single destination upsert.
// Failures are folded into an error outcome; one bad item never affects
// the others.
func (s *Service) upsertOne(ctx context.Context, sub Subscriber, listID string) mailchimp.Outcome {
	email := sub.Email
	fields := sub.MergeFields

	if err := s.limiter.Wait(ctx); err != nil {
		return mailchimp.Outcome{
			Status:      mailchimp.StatusError,
			Email:       &email,
			MergeFields: &fields,
			Error:       err.Error(),
		}
	}

	outcome, err := s.destination.UpsertSubscriber(ctx, email, fields, listID)
	if err != nil {
		logger.Warn("upsert failed", "email", email, "err", err.Error())
		return mailchimp.Outcome{
			Status:      mailchimp.StatusError,
			Email:       &email,
			MergeFields: &fields,
			Error:       err.Error(),
		}
	}
	return outcome
}

// Summary aggregates outcome counts for one run.
type Summary struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	NoChanges int `json:"no_changes"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Summarize counts outcomes by status.
func Summarize(outcomes []mailchimp.Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case mailchimp.StatusSuccessNew:
			s.New++
		case mailchimp.StatusUpdated:
			s.Updated++
		case mailchimp.StatusNoChanges:
			s.NoChanges++
		case mailchimp.StatusSkipped:
			s.Skipped++
		case mailchimp.StatusError:
			s.Errors++
		}
	}
	return s
}
