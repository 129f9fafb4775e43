package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const (
	transactionColumns = `transaction_id, tenant_id, transaction_type, transaction_date, description, reference, status,
	posted_at, posted_by, version, created_at, created_by, last_updated_at, last_updated_by`
	lineColumns = `line_id, transaction_id, tenant_id, line_no, account_id, amount, direction, tax_code, is_tax_line,
	department, memo, reverses_line_id, reversed_amount`
)

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, tenantID, transactionID, "")
}

// FindTransactionByIDForUpdate locks the header row for the rest of the unit of work.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, tenantID, transactionID, "FOR UPDATE")
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, tenantID, transactionID, lock string) (*domain.Transaction, error) {
	what := fmt.Sprintf("transaction %s", transactionID)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND transaction_id = $2 ` + lock + `;`
	rows, err := r.db.Query(ctx, query, tenantID, transactionID)
	if err != nil {
		return nil, wrapErr(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, wrapErr(err, what)
	}
	lines, err := r.linesFor(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	t := mapping.ToDomainTransaction(m, lines[transactionID])
	return &t, nil
}

// linesFor loads the lines of the given transactions, grouped by transaction and ordered by line number.
func (r *PgxTransactionRepository) linesFor(ctx context.Context, transactionIDs []string) (map[string][]models.TransactionLine, error) {
	out := make(map[string][]models.TransactionLine, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + lineColumns + ` FROM transaction_lines WHERE transaction_id = ANY($1) ORDER BY transaction_id, line_no;`
	rows, err := r.db.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionLine])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction lines: %w", err)
	}
	for _, m := range ms {
		out[m.TransactionID] = append(out[m.TransactionID], m)
	}
	return out, nil
}

// ListTransactions pages newest first using a keyset on (date, created_at, id).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var (
		conds = []string{"tenant_id = $1"}
		args  = []any{tenantID}
	)
	add := func(cond string, vals ...any) {
		for _, v := range vals {
			args = append(args, v)
			cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1)
		}
		conds = append(conds, cond)
	}
	if filter.Status != nil {
		add("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		add("transaction_type = ?", string(*filter.Type))
	}
	if filter.StartDate != nil {
		add("transaction_date >= ?", domain.DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add("transaction_date <= ?", domain.DateOnly(*filter.EndDate))
	}
	if nextToken != nil && *nextToken != "" {
		cur, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		add("(transaction_date, created_at, transaction_id) < (?, ?, ?)", cur.Date, cur.CreatedAt, cur.ID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC`
	if limit > 0 {
		args = append(args, limit+1)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	var next *string
	if limit > 0 && len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.TransactionID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m, lines[m.TransactionID])
	}
	return out, next, nil
}

// PendingReversalAmounts sums the draft reversal lines pointing at each original line.
func (r *PgxTransactionRepository) PendingReversalAmounts(ctx context.Context, tenantID string, originalLineIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	if len(originalLineIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT l.reverses_line_id, SUM(l.amount)
		FROM transaction_lines l
		JOIN transactions t ON t.transaction_id = l.transaction_id
		WHERE t.tenant_id = $1 AND t.status = 'DRAFT' AND l.reverses_line_id = ANY($2)
		GROUP BY l.reverses_line_id;
	`
	rows, err := r.db.Query(ctx, query, tenantID, originalLineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reversals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			lineID string
			sum    decimal.Decimal
		)
		if err := rows.Scan(&lineID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan pending reversal: %w", err)
		}
		out[lineID] = sum
	}
	return out, rows.Err()
}

func queueLines(b *pgx.Batch, t domain.Transaction) {
	for _, l := range t.Lines {
		m := mapping.ToModelTransactionLine(t.TenantID, l)
		b.Queue(`
			INSERT INTO transaction_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
			m.LineID, m.TransactionID, m.TenantID, m.LineNo, m.AccountID, m.Amount, m.Direction, m.TaxCode,
			m.IsTaxLine, m.Department, m.Memo, m.ReversesLineID, m.ReversedAmount)
	}
}

// SaveTransaction inserts the header and its lines in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.TransactionID, m.TenantID, m.TransactionType, m.TransactionDate, m.Description, m.Reference, m.Status,
		m.PostedAt, m.PostedBy, m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	queueLines(b, transaction)
	return r.execBatch(ctx, b, "transaction "+m.TransactionID)
}

// ReplaceDraft overwrites a draft if it is still at expectedVersion. Its lines are replaced wholesale.
func (r *PgxTransactionRepository) ReplaceDraft(ctx context.Context, transaction domain.Transaction, expectedVersion int) error {
	m := mapping.ToModelTransaction(transaction)
	query := `
		UPDATE transactions
		SET transaction_type = $3, transaction_date = $4, description = $5, reference = $6, version = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE tenant_id = $1 AND transaction_id = $2 AND status = 'DRAFT' AND version = $10;
	`
	ct, err := r.db.Exec(ctx, query, m.TenantID, m.TransactionID, m.TransactionType, m.TransactionDate, m.Description,
		m.Reference, m.Version, m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion)
	if err != nil {
		return wrapErr(err, "transaction "+m.TransactionID)
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.FindTransactionByID(ctx, m.TenantID, m.TransactionID); err != nil {
			return err
		}
		return apperrors.NewAppError(http.StatusConflict, "draft was modified concurrently", apperrors.ErrConflict)
	}

	b := &pgx.Batch{}
	b.Queue(`DELETE FROM transaction_lines WHERE transaction_id = $1;`, m.TransactionID)
	queueLines(b, transaction)
	return r.execBatch(ctx, b, "transaction "+m.TransactionID)
}

// DeleteDraft removes a draft. Its lines and any reversal link cascade.
func (r *PgxTransactionRepository) DeleteDraft(ctx context.Context, tenantID, transactionID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE tenant_id = $1 AND transaction_id = $2 AND status = 'DRAFT';`,
		tenantID, transactionID)
	if err != nil {
		return wrapErr(err, "transaction "+transactionID)
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.FindTransactionByID(ctx, tenantID, transactionID); err != nil {
			return err
		}
		return &apperrors.AlreadyPostedError{TransactionID: transactionID}
	}
	return nil
}

// FindLinesByIDsForUpdate locks the given lines in id order so concurrent reversals queue instead of deadlocking.
func (r *PgxTransactionRepository) FindLinesByIDsForUpdate(ctx context.Context, tenantID string, lineIDs []string) (map[string]domain.TransactionLine, error) {
	out := make(map[string]domain.TransactionLine, len(lineIDs))
	if len(lineIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + lineColumns + `
		FROM transaction_lines
		WHERE tenant_id = $1 AND line_id = ANY($2)
		ORDER BY line_id
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, query, tenantID, lineIDs)
	if err != nil {
		return nil, wrapErr(err, "transaction lines")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionLine])
	if err != nil {
		return nil, wrapErr(err, "transaction lines")
	}
	for _, m := range ms {
		out[m.LineID] = mapping.ToDomainTransactionLine(m)
	}
	return out, nil
}

func (r *PgxTransactionRepository) AddReversedAmount(ctx context.Context, tenantID, lineID string, amount decimal.Decimal) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE transaction_lines SET reversed_amount = reversed_amount + $3
		WHERE tenant_id = $1 AND line_id = $2;`, tenantID, lineID, amount)
	if err != nil {
		return wrapErr(err, "line "+lineID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("line %s not found", lineID))
	}
	return nil
}

func (r *PgxTransactionRepository) MarkPosted(ctx context.Context, tenantID, transactionID string, expectedVersion int, postedBy string, postedAt time.Time) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET status = 'POSTED', posted_at = $4, posted_by = $5, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND transaction_id = $2 AND status = 'DRAFT' AND version = $3;`,
		tenantID, transactionID, expectedVersion, postedAt, postedBy)
	if err != nil {
		return wrapErr(err, "transaction "+transactionID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewAppError(http.StatusConflict, "transaction is no longer a draft at the expected version", apperrors.ErrConflict)
	}
	return nil
}
