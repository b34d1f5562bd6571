// Package history keeps a bounded record of recent sync runs in Redis so
// the operator UI can show results and logs after the fact. It is
// observational reporting only: a run is recorded once, after it
// finishes, and an unavailable store never fails a sync.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/sync"
)

const (
	runListKey   = "sync:runs"
	runKeyPrefix = "sync:run:"

	// RunTTL bounds how long individual run reports survive; the id list
	// is bounded separately by maxRuns.
	RunTTL = 7 * 24 * time.Hour
)

// Run is one completed synchronization run.
type Run struct {
	ID         string              `json:"id"`
	BoardID    string              `json:"mondayBoardId"`
	ListID     string              `json:"mailchimpListId"`
	StartedAt  time.Time           `json:"startedAt"`
	FinishedAt time.Time           `json:"finishedAt"`
	Summary    sync.Summary        `json:"summary"`
	Outcomes   []mailchimp.Outcome `json:"syncResults"`
}

// Store persists runs in Redis.
type Store struct {
	rdb     *redis.Client
	maxRuns int
}

// NewStore connects to Redis using a redis:// URL.
func NewStore(redisURL string, maxRuns int) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewStoreWithClient(redis.NewClient(opts), maxRuns), nil
}

// NewStoreWithClient wraps an existing Redis client (useful for testing).
func NewStoreWithClient(client *redis.Client, maxRuns int) *Store {
	if maxRuns <= 0 {
		maxRuns = 50
	}
	return &Store{rdb: client, maxRuns: maxRuns}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SaveRun records a completed run and trims the history to the configured
// bound.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run %s: %w", run.ID, err)
	}

	if err := s.rdb.Set(ctx, runKeyPrefix+run.ID, data, RunTTL).Err(); err != nil {
		return fmt.Errorf("storing run %s: %w", run.ID, err)
	}
	if err := s.rdb.LPush(ctx, runListKey, run.ID).Err(); err != nil {
		return fmt.Errorf("indexing run %s: %w", run.ID, err)
	}
	if err := s.rdb.LTrim(ctx, runListKey, 0, int64(s.maxRuns)-1).Err(); err != nil {
		return fmt.Errorf("trimming run history: %w", err)
	}
	return nil
}

// GetRun retrieves one run by id. A missing or expired run returns
// (nil, nil).
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	data, err := s.rdb.Get(ctx, runKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns recent runs, newest first. Runs whose report expired
// are silently dropped from the listing.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	ids, err := s.rdb.LRange(ctx, runListKey, 0, int64(s.maxRuns)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run == nil {
			continue
		}
		runs = append(runs, *run)
	}
	return runs, nil
}
