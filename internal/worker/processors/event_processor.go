package processors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sellsync/internal/logger"
	"sellsync/internal/syncer"
)

const EventSyncRequested = "sync.requested"

// Resource names accepted besides the syncer resources.
const (
	ResourceAll  = "all"
	ResourceFees = "fees"
)

// Event is a sync job published by the API and consumed by the worker.
type Event struct {
	Type      string    `json:"type"`
	AccountID string    `json:"account_id"`
	Resource  string    `json:"resource"`
	DaysBack  int       `json:"days_back,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncRunner is the part of the sync engine the processor drives.
type SyncRunner interface {
	SyncAll(ctx context.Context, accountID string) (syncer.Result, error)
	SyncResource(ctx context.Context, accountID string, resource syncer.Resource, opts syncer.Options) (syncer.Outcome, error)
	SyncFees(ctx context.Context, accountID string, opts syncer.Options) (int, error)
}

type EventProcessor struct {
	runner SyncRunner
	logger *logger.Logger
}

func NewEventProcessor(runner SyncRunner, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		runner: runner,
		logger: logger,
	}
}

// Process runs the sync described by the event. A sync already running for
// the account is not an error; the job is dropped.
func (ep *EventProcessor) Process(ctx context.Context, event Event) error {
	if event.Type != EventSyncRequested {
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	if event.AccountID == "" {
		return errors.New("event has no account id")
	}

	err := ep.run(ctx, event)
	if errors.Is(err, syncer.ErrSyncInProgress) {
		ep.logger.Warn("Sync already running for account %s, dropping %s job", event.AccountID, event.Resource)
		return nil
	}
	return err
}

func (ep *EventProcessor) run(ctx context.Context, event Event) error {
	opts := syncer.Options{DaysBack: event.DaysBack}

	switch resource := strings.ToLower(event.Resource); resource {
	case "", ResourceAll:
		result, err := ep.runner.SyncAll(ctx, event.AccountID)
		if err != nil {
			return err
		}
		ep.logger.Info("Sync for account %s finished: orders %+v, listings %+v, payouts %+v, %d errors",
			event.AccountID, result.Orders, result.Listings, result.Payouts, len(result.Errors))
		for _, msg := range result.Errors {
			ep.logger.Warn("Sync for account %s: %s", event.AccountID, msg)
		}
		return nil

	case ResourceFees:
		updated, err := ep.runner.SyncFees(ctx, event.AccountID, opts)
		if err != nil {
			return fmt.Errorf("fee sync failed: %w", err)
		}
		ep.logger.Info("Fee sync for account %s updated %d orders", event.AccountID, updated)
		return nil

	default:
		r, err := syncer.ParseResource(resource)
		if err != nil {
			return err
		}
		outcome, err := ep.runner.SyncResource(ctx, event.AccountID, r, opts)
		if err != nil {
			return fmt.Errorf("%s sync failed: %w", r, err)
		}
		ep.logger.Info("%s sync for account %s: %d imported, %d updated", r, event.AccountID, outcome.Imported, outcome.Updated)
		return nil
	}
}
