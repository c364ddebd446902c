// Package notifiersvc dispatches staged outbox events as emails, outside
// any business transaction. Delivery is best-effort: a failed event is
// marked Failed and logged, never retried.
package notifiersvc

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/cecscoop/portal/core"
)

type Dispatcher struct {
	outbox       core.Outbox
	email        core.EmailService
	logger       core.Logger
	pollInterval time.Duration
	batchSize    int
}

func NewDispatcher(outbox core.Outbox, email core.EmailService, logger core.Logger, conf *core.Config) *Dispatcher {
	return &Dispatcher{
		outbox:       outbox,
		email:        email,
		logger:       logger,
		pollInterval: conf.Notifier.PollInterval,
		batchSize:    conf.Notifier.BatchSize,
	}
}

// Run polls the outbox until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchPending(ctx)
		}
	}
}

// DispatchPending sends one batch of pending events.
func (d *Dispatcher) DispatchPending(ctx context.Context) {
	events, err := d.outbox.PendingEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error(fmt.Sprintf("querying pending events: %v", err), err)
		return
	}

	for _, evt := range events {
		if evt.Recipient == "" {
			d.logger.Warn("dropping event without recipient", map[string]interface{}{"event": evt.ID, "kind": evt.Kind})
			if err = d.outbox.MarkEventFailed(ctx, evt.ID); err != nil {
				d.logger.Error(fmt.Sprintf("marking event %s failed: %v", evt.ID, err), err)
			}
			continue
		}

		d.email.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: evt.Recipient}},
			Subject: evt.Subject,
			BodyStr: evt.Body,
		})
		if err = d.outbox.MarkEventSent(ctx, evt.ID); err != nil {
			d.logger.Error(fmt.Sprintf("marking event %s sent: %v", evt.ID, err), err)
		}
	}
}
