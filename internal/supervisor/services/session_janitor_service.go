// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package services

import (
	"context"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/logging"
)

// defaultSweepInterval is used when no interval is configured.
const defaultSweepInterval = time.Minute

// Sweeper is satisfied by *session.Manager.
type Sweeper interface {
	Sweep() int
	Len() int
}

// SessionJanitorService evicts idle dashboard sessions on a fixed interval.
type SessionJanitorService struct {
	sessions Sweeper
	interval time.Duration
	name     string
}

// NewSessionJanitorService sweeps sessions every interval.
func NewSessionJanitorService(sessions Sweeper, interval time.Duration) *SessionJanitorService {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SessionJanitorService{
		sessions: sessions,
		interval: interval,
		name:     "session-janitor",
	}
}

// Serve implements suture.Service.
func (s *SessionJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				logging.Debug().
					Int("evicted", n).
					Int("remaining", s.sessions.Len()).
					Msg("Evicted idle sessions")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *SessionJanitorService) String() string {
	return s.name
}
