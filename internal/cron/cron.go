// Package cron runs scheduled background jobs.
package cron

import (
	"context"
	"log"
	"time"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	paymentRepo repository.PaymentRequestRepository
	notifier    service.Notifier
}

// NewScheduler creates a new scheduler
func NewScheduler(paymentRepo repository.PaymentRequestRepository, notifier service.Notifier) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		paymentRepo: paymentRepo,
		notifier:    notifier,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - remind recipients of stale pending requests
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running pending payment request reminder check...")
		s.remindPendingPaymentRequests()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// remindPendingPaymentRequests re-pushes payment requests that have sat
// in pending for over 24 hours. Delivery is best-effort; offline
// recipients are skipped.
func (s *Scheduler) remindPendingPaymentRequests() {
	ctx := context.Background()

	cutoff := time.Now().Add(-24 * time.Hour)
	requests, err := s.paymentRepo.FindPendingOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] Error finding stale pending requests: %v", err)
		return
	}

	for _, pr := range requests {
		s.notifier.Notify(pr.RecipientID, socket.EventReceivePaymentRequest, map[string]interface{}{
			"id":          pr.ID,
			"senderId":    pr.SenderID,
			"senderName":  pr.SenderName,
			"amount":      pr.Amount,
			"description": pr.Description,
			"timestamp":   pr.CreatedAt,
			"reminder":    true,
		})
	}

	if len(requests) > 0 {
		log.Printf("[Cron] Sent %d pending payment request reminders", len(requests))
	}
}
