package services

import (
	"context"
	"log"
	"time"

	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/adapters/storage"

	"github.com/robfig/cron/v3"
)

// StalePendingDays is how long a payment may sit in pending before the
// nightly sweep marks it failed.
const StalePendingDays = 7

// MaintenanceService runs nightly housekeeping over the payment queue:
// stale pending records are failed and upload files with no record left
// pointing at them are deleted.
type MaintenanceService struct {
	paymentRepo repositories.PaymentRepository
	files       storage.FileStorage
	cron        *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(paymentRepo repositories.PaymentRepository, files storage.FileStorage) *MaintenanceService {
	return &MaintenanceService{
		paymentRepo: paymentRepo,
		files:       files,
		cron:        cron.New(),
	}
}

// Start schedules the nightly sweep (02:30)
func (s *MaintenanceService) Start() {
	s.cron.AddFunc("30 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunSweep(ctx)
	})
	s.cron.Start()
	log.Println("🚀 MaintenanceService started (nightly sweep at 02:30)")
}

// Stop stops the cron scheduler
func (s *MaintenanceService) Stop() {
	s.cron.Stop()
	log.Println("🛑 MaintenanceService stopped")
}

// RunSweep performs one full maintenance pass
func (s *MaintenanceService) RunSweep(ctx context.Context) {
	if n, err := s.FailStalePending(ctx); err != nil {
		log.Printf("⚠️ Maintenance: failed to expire stale payments: %v", err)
	} else if n > 0 {
		log.Printf("✅ Maintenance: %d stale pending payments marked failed", n)
	}

	if n, err := s.SweepOrphanFiles(ctx); err != nil {
		log.Printf("⚠️ Maintenance: orphan sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("✅ Maintenance: %d orphaned upload files removed", n)
	}
}

// FailStalePending marks pending payments older than StalePendingDays as
// failed and returns how many were updated.
func (s *MaintenanceService) FailStalePending(ctx context.Context) (int, error) {
	stale, err := s.paymentRepo.ListStalePending(ctx, StalePendingDays)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, payment := range stale {
		payment.Status = models.PaymentStatusFailed
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			log.Printf("⚠️ Maintenance: could not fail payment %d: %v", payment.ID, err)
			continue
		}
		updated++
	}

	return updated, nil
}

// SweepOrphanFiles removes stored files that no payment record references
// and returns how many were deleted.
func (s *MaintenanceService) SweepOrphanFiles(ctx context.Context) (int, error) {
	referenced, err := s.paymentRepo.ListImagePaths(ctx)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		keep[p] = true
	}

	stored, err := s.files.ListPaths(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range stored {
		if keep[p] {
			continue
		}
		if err := s.files.Remove(ctx, p); err != nil {
			log.Printf("⚠️ Maintenance: could not remove orphan %s: %v", p, err)
			continue
		}
		removed++
	}

	return removed, nil
}
