package service

import (
	"context"

	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
)

// DashboardService assembles the home screen snapshot
type DashboardService struct {
	statsRepo repository.StatsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(statsRepo repository.StatsRepository) *DashboardService {
	return &DashboardService{statsRepo: statsRepo}
}

// topDebtorCount is how many highest-outstanding customers the
// dashboard lists.
const topDebtorCount = 5

// DashboardData is the full dashboard payload
type DashboardData struct {
	Stats      *repository.DashboardStats `json:"stats"`
	TopDebtors []repository.TopDebtor     `json:"top_debtors"`
}

// GetDashboard returns today's delivery counts, the month's money
// flow, and the customers owing the most.
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	stats, err := s.statsRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	debtors, err := s.statsRepo.GetTopDebtors(ctx, topDebtorCount)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Stats:      stats,
		TopDebtors: debtors,
	}, nil
}
