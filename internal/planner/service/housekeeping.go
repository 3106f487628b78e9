package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically sweeps overdue pending invitations
// into the expired state. Expiry is enforced at read time regardless;
// the sweep keeps the stored lifecycle state in line with it so list
// views and audits see the terminal state without waiting for a lookup.
type HousekeepingService struct {
	Invites  *InviteService
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(invites *InviteService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Invites:  invites,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() for a
// graceful shutdown.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress sweep has
// finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	n, err := s.Invites.Store.Invitations().ExpireOverdueInvitations(ctx, time.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to expire overdue invitations", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("expired overdue invitations", "count", n)
	}
}
