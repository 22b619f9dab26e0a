package services

import (
	"context"
	"log"
	"time"

	"libmanager-backend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// OverdueService runs the daily overdue scan (08:30). The scan is
// read-only: OVERDUE is a derived display state, so nothing is written
// back to the records, the scan only surfaces them in the log for staff.
// It also purges expired refresh tokens overnight.
type OverdueService struct {
	borrowRepo *repositories.BorrowRepository
	tokenRepo  repositories.RefreshTokenRepository
	cron       *cron.Cron
	now        func() time.Time
}

// NewOverdueService creates a new overdue service
func NewOverdueService(
	borrowRepo *repositories.BorrowRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *OverdueService {
	return &OverdueService{
		borrowRepo: borrowRepo,
		tokenRepo:  tokenRepo,
		cron:       cron.New(),
		now:        time.Now,
	}
}

// Start schedules the daily jobs
func (s *OverdueService) Start() {
	s.cron.AddFunc("30 8 * * *", s.Scan)
	s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens)
	s.cron.Start()
	log.Println("🚀 OverdueService started (daily scan at 08:30)")
}

// Stop stops the scheduler
func (s *OverdueService) Stop() {
	s.cron.Stop()
	log.Println("🛑 OverdueService stopped")
}

// Scan logs every active loan past its due date
func (s *OverdueService) Scan() {
	ctx := context.Background()
	now := s.now()

	records, err := s.borrowRepo.ListOverdue(ctx, now)
	if err != nil {
		log.Printf("❌ Overdue scan error: %v", err)
		return
	}

	for _, r := range records {
		log.Printf("⚠️ Overdue: record %d (%s / %s) %d days past due",
			r.ID, r.UserName, r.BookTitle, lateDays(now, r.DueDate))
	}

	if len(records) > 0 {
		log.Printf("⚠️ Overdue scan found %d overdue loans", len(records))
	}
}

// purgeExpiredTokens deletes refresh tokens past their expiry
func (s *OverdueService) purgeExpiredTokens() {
	if err := s.tokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Refresh token purge error: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
