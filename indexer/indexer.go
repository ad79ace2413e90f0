// Package indexer ships pinservice events out of the host after each delivered
// operation.
package indexer

import (
	"context"
	"errors"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// Event is one pinservice event with the block it was emitted in.
type Event struct {
	ID         string            `json:"id"`
	Height     int64             `json:"height"`
	Time       time.Time         `json:"time"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Sink receives the events of each successfully delivered operation.
type Sink interface {
	Index(ctx context.Context, events []Event) error
	Close() error
}

// FromSDKEvents keeps the pinservice events out of an SDK event list. Bank
// transfer events emitted alongside them are dropped.
func FromSDKEvents(height int64, blockTime time.Time, events sdk.Events) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if !types.IsServiceEvent(e.Type) {
			continue
		}
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = a.Value
		}
		out = append(out, Event{
			ID:         uuid.New().String(),
			Height:     height,
			Time:       blockTime.UTC(),
			Type:       e.Type,
			Attributes: attrs,
		})
	}
	return out
}

// Multi fans events out to several sinks. Every sink is attempted.
type Multi []Sink

func (m Multi) Index(ctx context.Context, events []Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Index(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
