package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// maxAccountDepth bounds the parent chain walked when validating a new account.
const maxAccountDepth = 32

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, opts ...BaseOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts...),
		accountRepo: repo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ValidateAccountCode reports whether code is a usable account code: 1 to 7 characters, letters, digits or '-'.
func ValidateAccountCode(code string) error {
	n := len([]rune(code))
	if n == 0 || n > domain.MaxAccountCodeLength {
		return apperrors.NewValidationError("code", fmt.Sprintf("must be 1 to %d characters", domain.MaxAccountCodeLength))
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return apperrors.NewValidationError("code", "may only contain letters, digits and '-'")
		}
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if err := ValidateAccountCode(code); err != nil {
		return nil, err
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewValidationError("accountType", "must be one of ASSET, LIABILITY, EQUITY, INCOME, EXPENSE")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	if req.SecurityLevel != nil && *req.SecurityLevel < 0 {
		return nil, apperrors.NewValidationError("securityLevel", "must not be negative")
	}

	if req.ParentAccountID != nil {
		if err := s.checkParent(ctx, tenantID, *req.ParentAccountID); err != nil {
			s.LogError(ctx, err, "Invalid parent account",
				slog.String("parent_id", *req.ParentAccountID),
				slog.String("tenant_id", tenantID))
			return nil, err
		}
	}

	account := domain.Account{
		AccountID:       s.newID(),
		TenantID:        tenantID,
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		SecurityLevel:   req.SecurityLevel,
		AuditFields:     domain.NewAuditFields(userID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("code", account.Code),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

// checkParent verifies the parent exists in the tenant and that its ancestor chain terminates.
func (s *accountService) checkParent(ctx context.Context, tenantID, parentID string) error {
	seen := make(map[string]bool)
	id := parentID
	for depth := 0; ; depth++ {
		if seen[id] || depth >= maxAccountDepth {
			return apperrors.NewValidationError("parentAccountID", "account hierarchy contains a cycle or is too deep")
		}
		seen[id] = true
		acc, err := s.accountRepo.FindAccountByID(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("invalid parent account: %w", err)
		}
		if acc.ParentAccountID == nil {
			return nil
		}
		id = *acc.ParentAccountID
	}
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		s.LogDebug(ctx, "Account lookup failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}
	return acc, nil
}

func (s *accountService) FindByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, tenantID, code)
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "must not be empty")
		}
		acc.Name = name
	}
	if req.Description != nil {
		acc.Description = *req.Description
	}
	switch {
	case req.ClearSecurityLevel:
		acc.SecurityLevel = nil
	case req.SecurityLevel != nil:
		if *req.SecurityLevel < 0 {
			return nil, apperrors.NewValidationError("securityLevel", "must not be negative")
		}
		level := *req.SecurityLevel
		acc.SecurityLevel = &level
	}
	acc.Touch(userID, s.now())

	if err := s.accountRepo.UpdateAccount(ctx, *acc); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return acc, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) (*domain.Account, error) {
	return s.setActive(ctx, tenantID, accountID, userID, false)
}

func (s *accountService) ActivateAccount(ctx context.Context, tenantID string, accountID string, userID string) (*domain.Account, error) {
	return s.setActive(ctx, tenantID, accountID, userID, true)
}

func (s *accountService) setActive(ctx context.Context, tenantID, accountID, userID string, active bool) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if acc.IsActive == active {
		return acc, nil
	}
	acc.IsActive = active
	acc.Touch(userID, s.now())
	if err := s.accountRepo.UpdateAccount(ctx, *acc); err != nil {
		s.LogError(ctx, err, "Failed to change account status",
			slog.String("account_id", accountID),
			slog.Bool("active", active))
		return nil, err
	}
	s.LogInfo(ctx, "Account status changed",
		slog.String("account_id", accountID),
		slog.Bool("active", active))
	return acc, nil
}
