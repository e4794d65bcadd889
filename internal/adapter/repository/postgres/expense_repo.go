package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository on PostgreSQL. The
// split lives in a JSONB column; concurrent edits are detected through the
// version column.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// splitMemberRecord is the JSONB shape of one split member. Decimals marshal
// as strings, which keeps (->>)::numeric casts working in SQL.
type splitMemberRecord struct {
	UserID          string            `json:"user_id"`
	Amount          decimal.Decimal   `json:"amount"`
	SplitPercentage decimal.Decimal   `json:"split_percentage"`
	Status          string            `json:"status"`
	AddOns          []decimal.Decimal `json:"add_ons,omitempty"`
	Deductions      []decimal.Decimal `json:"deductions,omitempty"`
}

func marshalSplit(split []domain.MemberSplit) ([]byte, error) {
	records := make([]splitMemberRecord, 0, len(split))
	for i := range split {
		m := &split[i]
		records = append(records, splitMemberRecord{
			UserID:          m.UserID,
			Amount:          m.Amount,
			SplitPercentage: m.SplitPercentage,
			Status:          string(m.Status),
			AddOns:          m.AddOns,
			Deductions:      m.Deductions,
		})
	}
	return json.Marshal(records)
}

func unmarshalSplit(data []byte) ([]domain.MemberSplit, error) {
	var records []splitMemberRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode split: %w", err)
	}

	split := make([]domain.MemberSplit, 0, len(records))
	for _, rec := range records {
		split = append(split, domain.MemberSplit{
			UserID:          rec.UserID,
			Amount:          rec.Amount,
			SplitPercentage: rec.SplitPercentage,
			Status:          domain.MemberStatus(rec.Status),
			AddOns:          rec.AddOns,
			Deductions:      rec.Deductions,
		})
	}
	return split, nil
}

const expenseColumns = `id, title, description, total_amount, paid_by, split, status, receipt_urls, version, created_at, updated_at`

// Create inserts a new expense within a transaction. An expense whose split
// does not add up to the total is refused before touching the database.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if err := expense.ValidateSplit(); err != nil {
		return err
	}

	split, err := marshalSplit(expense.Split)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		expense.ID,
		expense.Title,
		expense.Description,
		expense.TotalAmount,
		expense.PaidBy,
		split,
		string(expense.Status),
		expense.ReceiptURLs,
		expense.Version,
		expense.CreatedAt,
		expense.UpdatedAt,
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}

	return expense, err
}

// Update persists the expense under the optimistic version check. A stale
// version returns domain.ErrVersionConflict.
func (r *ExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	split, err := marshalSplit(expense.Split)
	if err != nil {
		return err
	}

	query := `
		UPDATE expenses
		SET title = $2, description = $3, total_amount = $4, split = $5,
		    status = $6, receipt_urls = $7, version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		expense.ID,
		expense.Title,
		expense.Description,
		expense.TotalAmount,
		split,
		string(expense.Status),
		expense.ReceiptURLs,
		expense.UpdatedAt,
		expense.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	expense.Version++
	return nil
}

// Delete removes an expense within a transaction.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// List retrieves expenses matching the filter, newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter usecase.ExpenseFilter) ([]*domain.Expense, error) {
	var (
		conds []string
		args  []any
	)

	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(split) m WHERE m->>'user_id' = $%d)`, len(args)))
	}
	if filter.PaidBy != "" {
		args = append(args, filter.PaidBy)
		conds = append(conds, fmt.Sprintf(`paid_by = $%d`, len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf(`status = $%d`, len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf(`(title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	return r.queryExpenses(ctx, query, args...)
}

// ListAwaitingAction retrieves open expenses that need the user to act:
// either the user still owes their share, or the user is the payer and a
// member is waiting for confirmation.
func (r *ExpenseRepository) ListAwaitingAction(ctx context.Context, userID string, limit int) ([]*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE status = 'AWAITING_PAYMENT'
		  AND (
			EXISTS (
				SELECT 1 FROM jsonb_array_elements(split) m
				WHERE m->>'user_id' = $1 AND m->>'status' = 'PENDING'
			)
			OR (
				paid_by = $1
				AND EXISTS (
					SELECT 1 FROM jsonb_array_elements(split) m
					WHERE m->>'status' = 'AWAITING_CONFIRMATION'
				)
			)
		  )
		ORDER BY updated_at DESC
		LIMIT $2
	`

	return r.queryExpenses(ctx, query, userID, limit)
}

// ListRecent retrieves the user's most recently touched expenses.
func (r *ExpenseRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(split) m
			WHERE m->>'user_id' = $1
		)
		ORDER BY updated_at DESC
		LIMIT $2
	`

	return r.queryExpenses(ctx, query, userID, limit)
}

// SummarizeBalances aggregates what the user owes and is owed across open
// expenses. A member's effective share is the allocated amount plus add-ons
// minus deductions; rows already settled are left out.
func (r *ExpenseRepository) SummarizeBalances(ctx context.Context, userID string) (*usecase.BalanceSummary, error) {
	query := `
		WITH shares AS (
			SELECT e.id, e.paid_by,
			       m->>'user_id' AS member_id,
			       m->>'status' AS member_status,
			       (m->>'amount')::numeric
			         + COALESCE((SELECT SUM(a::numeric) FROM jsonb_array_elements_text(m->'add_ons') a), 0)
			         - COALESCE((SELECT SUM(d::numeric) FROM jsonb_array_elements_text(m->'deductions') d), 0)
			         AS balance
			FROM expenses e, jsonb_array_elements(e.split) m
			WHERE e.status = 'AWAITING_PAYMENT'
		)
		SELECT
			COALESCE(SUM(balance) FILTER (
				WHERE member_id = $1 AND paid_by <> $1 AND member_status <> 'PAID'
			), 0) AS you_owe,
			COALESCE(SUM(balance) FILTER (
				WHERE paid_by = $1 AND member_id <> $1 AND member_status <> 'PAID'
			), 0) AS you_are_owed,
			COUNT(DISTINCT id) FILTER (WHERE member_id = $1) AS open_count,
			COALESCE((
				SELECT SUM(e.total_amount) FROM expenses e
				WHERE e.status = 'AWAITING_PAYMENT'
				  AND EXISTS (
					SELECT 1 FROM jsonb_array_elements(e.split) m
					WHERE m->>'user_id' = $1
				  )
			), 0) AS total_amount
		FROM shares
	`

	var summary usecase.BalanceSummary
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&summary.YouOwe,
		&summary.YouAreOwed,
		&summary.OpenCount,
		&summary.TotalAmount,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense domain.Expense
		split   []byte
		status  string
	)

	err := row.Scan(
		&expense.ID,
		&expense.Title,
		&expense.Description,
		&expense.TotalAmount,
		&expense.PaidBy,
		&split,
		&status,
		&expense.ReceiptURLs,
		&expense.Version,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Status = domain.ExpenseStatus(status)
	expense.Split, err = unmarshalSplit(split)
	if err != nil {
		return nil, err
	}

	return &expense, nil
}
