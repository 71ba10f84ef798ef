package service

import (
	"log/slog"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/repository"
)

type MaintenanceService struct {
	codeRepo repository.VerificationCodeRepository
	clock    clock.Clock
}

func NewMaintenanceService(codeRepo repository.VerificationCodeRepository, clk clock.Clock) *MaintenanceService {
	return &MaintenanceService{
		codeRepo: codeRepo,
		clock:    clk,
	}
}

// CleanupExpiredCodes deletes verification codes past their expiry.
func (s *MaintenanceService) CleanupExpiredCodes() (int64, error) {
	n, err := s.codeRepo.CleanupExpired(s.clock.Now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		slog.Info("expired verification codes removed", "count", n)
	}
	return n, nil
}
