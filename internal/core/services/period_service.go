package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	uow        portsrepo.UnitOfWork
}

// NewPeriodService creates the fiscal calendar service.
func NewPeriodService(repo portsrepo.PeriodRepositoryFacade, uow portsrepo.UnitOfWork, opts ...BaseOption) portssvc.PeriodSvcFacade {
	return &periodService{
		BaseService: newBaseService(opts...),
		periodRepo:  repo,
		uow:         uow,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) PeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	return s.periodRepo.FindPeriodForDate(ctx, tenantID, date)
}

func (s *periodService) ListFiscalYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error) {
	return s.periodRepo.ListFiscalYears(ctx, tenantID)
}

func (s *periodService) ListPeriods(ctx context.Context, tenantID string, fiscalYearID *string) ([]domain.Period, error) {
	return s.periodRepo.ListPeriods(ctx, tenantID, fiscalYearID)
}

func (s *periodService) CreateFiscalYear(ctx context.Context, tenantID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, error) {
	start, err := dto.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	now := s.now()
	fy := domain.FiscalYear{
		FiscalYearID: s.newID(),
		TenantID:     tenantID,
		Name:         strings.TrimSpace(req.Name),
		StartDate:    start,
		EndDate:      end,
		AuditFields:  domain.NewAuditFields(userID, now),
	}

	if len(req.Periods) == 0 {
		fy.Periods = domain.MonthlyPeriods(start, end)
	} else {
		for i, p := range req.Periods {
			ps, err := dto.ParseDate(fmt.Sprintf("periods[%d].startDate", i), p.StartDate)
			if err != nil {
				return nil, err
			}
			pe, err := dto.ParseDate(fmt.Sprintf("periods[%d].endDate", i), p.EndDate)
			if err != nil {
				return nil, err
			}
			fy.Periods = append(fy.Periods, domain.Period{Name: p.Name, StartDate: ps, EndDate: pe, Status: domain.PeriodOpen})
		}
	}
	for i := range fy.Periods {
		fy.Periods[i].PeriodID = s.newID()
		fy.Periods[i].FiscalYearID = fy.FiscalYearID
		fy.Periods[i].TenantID = tenantID
		fy.Periods[i].AuditFields = domain.NewAuditFields(userID, now)
	}
	if err := fy.ValidateCalendar(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		overlapping, err := repos.Periods.FindOverlappingFiscalYears(ctx, tenantID, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return apperrors.NewAppError(http.StatusConflict,
				fmt.Sprintf("fiscal year overlaps %s", overlapping[0].Name), apperrors.ErrConflict)
		}
		return repos.Periods.SaveFiscalYear(ctx, fy)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create fiscal year",
			slog.String("tenant_id", tenantID),
			slog.String("name", fy.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal year created",
		slog.String("fiscal_year_id", fy.FiscalYearID),
		slog.Int("periods", len(fy.Periods)))
	return &fy, nil
}

func (s *periodService) LockPeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.Period, error) {
	return s.setStatus(ctx, tenantID, periodID, userID, domain.PeriodLocked)
}

func (s *periodService) UnlockPeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.Period, error) {
	return s.setStatus(ctx, tenantID, periodID, userID, domain.PeriodOpen)
}

// setStatus changes a period's status. Entries already posted into the period are left untouched.
func (s *periodService) setStatus(ctx context.Context, tenantID, periodID, userID string, status domain.PeriodStatus) (*domain.Period, error) {
	var period *domain.Period
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		p, err := repos.Periods.FindPeriodByID(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if p.Status == status {
			period = p
			return nil
		}
		now := s.now()
		if err := repos.Periods.UpdatePeriodStatus(ctx, tenantID, periodID, status, userID, now); err != nil {
			return err
		}
		p.Status = status
		p.Touch(userID, now)
		period = p

		eventType := domain.AuditPeriodLocked
		if status == domain.PeriodOpen {
			eventType = domain.AuditPeriodUnlocked
		}
		return repos.Audit.LogEvent(ctx, domain.AuditEvent{
			EventID:    s.newID(),
			TenantID:   tenantID,
			Actor:      userID,
			EventType:  eventType,
			EntityType: domain.EntityPeriod,
			EntityID:   periodID,
			Summary:    fmt.Sprintf("period %s set to %s", p.Name, status),
			CreatedAt:  now,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change period status",
			slog.String("period_id", periodID),
			slog.String("status", string(status)))
		return nil, err
	}
	s.LogInfo(ctx, "Period status changed",
		slog.String("period_id", periodID),
		slog.String("status", string(status)))
	return period, nil
}
