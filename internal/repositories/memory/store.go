// Package memory is an in-process implementation of the repository ports for
// development and tests. Write units are serialised by a store-wide mutex and
// rolled back from a snapshot on failure.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type state struct {
	accounts     map[string]domain.Account // by account id
	fiscalYears  map[string]domain.FiscalYear
	periods      map[string]domain.Period
	taxCodes     map[string]domain.TaxCode // by tenant|code
	transactions map[string]domain.Transaction
	entries      []domain.LedgerEntry
	links        []domain.ReversalLink
	events       []domain.AuditEvent
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		fiscalYears:  make(map[string]domain.FiscalYear),
		periods:      make(map[string]domain.Period),
		taxCodes:     make(map[string]domain.TaxCode),
		transactions: make(map[string]domain.Transaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     maps.Clone(s.accounts),
		fiscalYears:  maps.Clone(s.fiscalYears),
		periods:      maps.Clone(s.periods),
		taxCodes:     maps.Clone(s.taxCodes),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		entries:      append([]domain.LedgerEntry(nil), s.entries...),
		links:        append([]domain.ReversalLink(nil), s.links...),
		events:       append([]domain.AuditEvent(nil), s.events...),
	}
	for id, t := range s.transactions {
		c.transactions[id] = copyTransaction(t)
	}
	return c
}

func copyTransaction(t domain.Transaction) domain.Transaction {
	t.Lines = append([]domain.TransactionLine(nil), t.Lines...)
	return t
}

// Store holds all data in memory.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// repo implements every repository port. Outside a unit of work each call takes the
// store lock itself; inside one the unit already holds it.
type repo struct {
	s    *Store
	inTx bool
}

func (r *repo) rlock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *repo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// WithinTx executes fn within a transaction.
// For the memory store, this is simulated with a snapshot + rollback on error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	r := &repo{s: s, inTx: true}
	if err = fn(ctx, r.txRepositories()); err != nil {
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("unit of work aborted: %w", cerr)
	}
	return nil
}

func (r *repo) txRepositories() portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:     r,
		Periods:      r,
		TaxCodes:     r,
		Transactions: r,
		Ledger:       r,
		Reversals:    r,
		Audit:        r,
	}
}

// Repositories returns a provider whose repositories and unit of work all share this store.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	r := &repo{s: s}
	return portsrepo.RepositoryProvider{
		AccountRepo:     r,
		PeriodRepo:      r,
		TaxCodeRepo:     r,
		TransactionRepo: r,
		LedgerRepo:      r,
		ReversalRepo:    r,
		ReportingRepo:   r,
		UnitOfWork:      s,
	}
}

// AuditEvents returns a copy of every audit event logged for tenantID.
func (s *Store) AuditEvents(tenantID string) []domain.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AuditEvent
	for _, e := range s.st.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

func (r *repo) LogEvent(_ context.Context, event domain.AuditEvent) error {
	defer r.lock()()
	r.s.st.events = append(r.s.st.events, event)
	return nil
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*repo)(nil)
	_ portsrepo.PeriodRepositoryFacade      = (*repo)(nil)
	_ portsrepo.TaxCodeRepositoryFacade     = (*repo)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*repo)(nil)
	_ portsrepo.LedgerRepositoryFacade      = (*repo)(nil)
	_ portsrepo.ReversalLinkRepository      = (*repo)(nil)
	_ portsrepo.ReportingRepository         = (*repo)(nil)
	_ portsrepo.AuditSink                   = (*repo)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)
