// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"context"
	"time"
)

// Poller runs a recurring full poll on a Client. Each cycle goes
// through the Client's command lock, so a poll never overlaps an
// operator command on the same connection; cancellation is honored at
// the sleep boundary between cycles, never mid-exchange.
//
// No cycle is retried. A failed poll is reported once through OnError
// and the next scheduled cycle retries implicitly.
type Poller struct {
	Client   *Client
	Interval time.Duration

	// OnSnapshot receives each successful poll. Required.
	OnSnapshot func(*Snapshot)

	// OnError receives poll failures. Optional; nil drops them.
	OnError func(error)
}

// Run polls immediately, then on every interval tick until ctx is
// cancelled. A zero Interval uses the Client's configured poll
// interval.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval == 0 {
		interval = p.Client.Config().PollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := p.Client.Poll()
		if err != nil {
			if p.OnError != nil {
				p.OnError(err)
			}
		} else {
			p.OnSnapshot(snap)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
