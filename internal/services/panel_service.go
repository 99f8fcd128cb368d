package services

import (
	"context"

	"orderly/internal/domain"
	"orderly/internal/metrics"
	"orderly/internal/repos"
)

// Stats is the dashboard payload.
type Stats struct {
	Counts     domain.Counts          `json:"counts"`
	Categories []domain.CategoryCount `json:"categories"`
	Series     []domain.DayCount      `json:"series"`
}

// PanelService backs the admin panel. Every call is scoped to the single
// merchant.
type PanelService struct {
	Orders  *repos.OrderRepo
	Reports *ReportService
	Metrics *metrics.Registry
}

func NewPanelService(orders *repos.OrderRepo, reports *ReportService, m *metrics.Registry) *PanelService {
	return &PanelService{Orders: orders, Reports: reports, Metrics: m}
}

func (s *PanelService) ListOrders(ctx context.Context, f repos.OrderFilter) ([]domain.Order, error) {
	return s.Orders.List(ctx, domain.MerchantID, f)
}

func (s *PanelService) OrderDetail(ctx context.Context, id int64) (domain.Order, error) {
	return s.Orders.Get(ctx, id, domain.MerchantID)
}

// MutateStatus sets the order's status and returns the counts after the change.
func (s *PanelService) MutateStatus(ctx context.Context, id int64, status domain.Status) (domain.Counts, error) {
	if !status.Valid() {
		return domain.Counts{}, domain.ErrInvalidStatus
	}
	if err := s.Orders.UpdateStatus(ctx, id, domain.MerchantID, status); err != nil {
		return domain.Counts{}, err
	}
	if s.Metrics != nil {
		s.Metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	}
	return s.Reports.Counts(ctx, domain.MerchantID)
}

// RemoveOrder deletes the order if it exists and returns the counts after.
func (s *PanelService) RemoveOrder(ctx context.Context, id int64) (domain.Counts, error) {
	if err := s.Orders.Delete(ctx, id, domain.MerchantID); err != nil {
		return domain.Counts{}, err
	}
	if s.Metrics != nil {
		s.Metrics.OrdersDeleted.Inc()
	}
	return s.Reports.Counts(ctx, domain.MerchantID)
}

func (s *PanelService) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.Reports.Counts(ctx, domain.MerchantID)
	if err != nil {
		return Stats{}, err
	}
	cats, err := s.Reports.ByCategory(ctx, domain.MerchantID)
	if err != nil {
		return Stats{}, err
	}
	series, err := s.Reports.DailySeries(ctx, domain.MerchantID, DefaultSeriesDays)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Counts: counts, Categories: cats, Series: series}, nil
}

func (s *PanelService) NewOrdersCount(ctx context.Context) (int, error) {
	return s.Orders.CountByStatus(ctx, domain.MerchantID, domain.StatusNew)
}
