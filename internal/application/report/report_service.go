package report

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/report"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/cache"
	"github.com/bizline/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxPeriodDays bounds the period of the sales and payments reports
const maxPeriodDays = 366

var nowFunc = time.Now

// PeriodFilter is the from/to query of period reports. Both default to the current month.
type PeriodFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ReportService computes the report read models and caches them per business line
type ReportService struct {
	repo   report.Repository
	cache  cache.ReportStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportService creates a new ReportService. A nil cache or a zero TTL disables caching.
func NewReportService(repo report.Repository, store cache.ReportStore, ttl time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		cache:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// SalesSummary totals the issued invoices of the period
func (s *ReportService) SalesSummary(ctx context.Context, businessLineID uuid.UUID, filter PeriodFilter) (*report.SalesSummary, error) {
	period, err := resolvePeriod(filter)
	if err != nil {
		return nil, err
	}
	return s.salesSummary(ctx, businessLineID, period)
}

// Receivables reports credit exposure and unpaid invoices per customer
func (s *ReportService) Receivables(ctx context.Context, businessLineID uuid.UUID) (*report.Receivables, error) {
	return cached(ctx, s, cache.ReportKey(businessLineID, "receivables"), func() (*report.Receivables, error) {
		return s.repo.Receivables(ctx, businessLineID)
	})
}

// StockValuation values active stock at moving average cost
func (s *ReportService) StockValuation(ctx context.Context, businessLineID uuid.UUID) (*report.StockValuation, error) {
	return cached(ctx, s, cache.ReportKey(businessLineID, "stock-valuation"), func() (*report.StockValuation, error) {
		return s.repo.StockValuation(ctx, businessLineID)
	})
}

// PaymentsSummary groups the payments of the period by method and status
func (s *ReportService) PaymentsSummary(ctx context.Context, businessLineID uuid.UUID, filter PeriodFilter) (*report.PaymentsSummary, error) {
	period, err := resolvePeriod(filter)
	if err != nil {
		return nil, err
	}
	return s.paymentsSummary(ctx, businessLineID, period)
}

// Dashboard computes the four reports concurrently. The first failure cancels the others.
func (s *ReportService) Dashboard(ctx context.Context, businessLineID uuid.UUID, filter PeriodFilter) (_ *report.Dashboard, err error) {
	period, err := resolvePeriod(filter)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard",
		telemetry.AttrBusinessLineID, businessLineID,
		telemetry.AttrReport, "dashboard",
	)
	defer func() { telemetry.End(span, err) }()

	var dashboard report.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dashboard.Sales, err = s.salesSummary(gctx, businessLineID, period)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Receivables, err = s.Receivables(gctx, businessLineID)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Stock, err = s.StockValuation(gctx, businessLineID)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Payments, err = s.paymentsSummary(gctx, businessLineID, period)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// InvalidateBusinessLine drops every cached report of the business line
func (s *ReportService) InvalidateBusinessLine(ctx context.Context, businessLineID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateBusinessLine(ctx, businessLineID)
}

func (s *ReportService) salesSummary(ctx context.Context, businessLineID uuid.UUID, period report.Period) (*report.SalesSummary, error) {
	return cached(ctx, s, cache.ReportKey(businessLineID, "sales-summary", period.Key()), func() (*report.SalesSummary, error) {
		return s.repo.SalesSummary(ctx, businessLineID, period)
	})
}

func (s *ReportService) paymentsSummary(ctx context.Context, businessLineID uuid.UUID, period report.Period) (*report.PaymentsSummary, error) {
	return cached(ctx, s, cache.ReportKey(businessLineID, "payments-summary", period.Key()), func() (*report.PaymentsSummary, error) {
		return s.repo.PaymentsSummary(ctx, businessLineID, period)
	})
}

// cached serves key from the report cache or computes and stores it.
// Cache failures are logged and never fail the report.
func cached[T any](ctx context.Context, s *ReportService, key string, compute func() (*T, error)) (*T, error) {
	if s.cache != nil && s.ttl > 0 {
		var hit T
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			s.logger.Warn("Failed to read report cache", zap.String("key", key), zap.Error(err))
		} else if found {
			return &hit, nil
		}
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn("Failed to write report cache", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// resolvePeriod turns the inclusive date filter into a period ending at the last instant of To
func resolvePeriod(filter PeriodFilter) (report.Period, error) {
	now := nowFunc()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

	if from.After(to) {
		return report.Period{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "from must not be after to")
	}
	if from.AddDate(0, 0, maxPeriodDays).Before(to) {
		return report.Period{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "Report period cannot exceed 366 days")
	}
	return report.Period{From: from, To: to}, nil
}
