package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteRepository is the transaction and category store. Every operation is
// a short-lived independent statement; there is no cross-call locking.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applyMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// applyMigrations brings the schema up to date from the embedded migration
// files. It opens its own short-lived connection so the migration driver's
// lifecycle stays independent of the repository's pool.
func applyMigrations(dbPath string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction inserts a transaction and returns its assigned ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, description, amount_cents, category, kind, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), t.Description, t.Amount.Cents, t.Category, string(t.Kind),
		nullableDate(t.DueDate), string(t.Status))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"kind", t.Kind)

	return id, nil
}

// GetTransaction retrieves a single transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, description, amount_cents, category, kind, created_at, due_date, status
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// UpdateTransaction replaces all mutable fields of a transaction.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, description = ?, amount_cents = ?, category = ?, kind = ?, due_date = ?, status = ?
		WHERE id = ?`,
		t.Date.String(), t.Description, t.Amount.Cents, t.Category, string(t.Kind),
		nullableDate(t.DueDate), string(t.Status), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return requireRow(res)
}

// UpdateTransactionStatus changes only the payment status.
func (r *SQLiteRepository) UpdateTransactionStatus(ctx context.Context, id int64, status core.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update transaction status %d: %w", id, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return requireRow(res)
}

// ListTransactions returns transactions whose date falls in the inclusive
// range [from, to], ordered by date descending. Either bound may be zero for
// an open-ended range.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	query := `
		SELECT id, date, description, amount_cents, category, kind, created_at, due_date, status
		FROM transactions`
	var args []any

	switch {
	case !from.IsEmpty() && !to.IsEmpty():
		query += ` WHERE date BETWEEN ? AND ?`
		args = append(args, from.String(), to.String())
	case !from.IsEmpty():
		query += ` WHERE date >= ?`
		args = append(args, from.String())
	case !to.IsEmpty():
		query += ` WHERE date <= ?`
		args = append(args, to.String())
	}
	query += ` ORDER BY date DESC, id DESC`

	return r.queryTransactions(ctx, query, args...)
}

// ListPending returns transactions still awaiting payment, soonest due first.
func (r *SQLiteRepository) ListPending(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, date, description, amount_cents, category, kind, created_at, due_date, status
		FROM transactions WHERE status = 'pending'
		ORDER BY due_date, date`)
}

// ListOverdue returns pending transactions whose due date has passed.
func (r *SQLiteRepository) ListOverdue(ctx context.Context, today core.Date) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, date, description, amount_cents, category, kind, created_at, due_date, status
		FROM transactions
		WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < ?
		ORDER BY due_date`, today.String())
}

// MonthlySummary returns the per-category, per-kind sum and count for a
// calendar month, largest totals first.
func (r *SQLiteRepository) MonthlySummary(ctx context.Context, year, month int) ([]core.CategorySummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, kind, SUM(amount_cents) AS total_cents, COUNT(*) AS count
		FROM transactions
		WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?
		GROUP BY category, kind
		ORDER BY total_cents DESC`,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, fmt.Errorf("monthly summary %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	var summaries []core.CategorySummary
	for rows.Next() {
		var s core.CategorySummary
		var kind string
		if err := rows.Scan(&s.Category, &kind, &s.Total.Cents, &s.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		s.Kind = core.Kind(kind)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CreateCategory inserts a category and returns its assigned ID.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate category: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, kind, budget_cents, color)
		VALUES (?, ?, ?, ?)`,
		c.Name, string(c.Kind), c.Budget.Cents, c.Color)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var kind string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, budget_cents, color FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &kind, &c.Budget.Cents, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	c.Kind = core.Kind(kind)
	return c, nil
}

// ListCategories returns categories ordered by name, optionally filtered by kind.
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	query := `SELECT id, name, kind, budget_cents, color FROM categories`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var k string
		if err := rows.Scan(&c.ID, &c.Name, &k, &c.Budget.Cents, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		c.Kind = core.Kind(k)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory replaces a category's name, budget and color.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, budget_cents = ?, color = ? WHERE id = ?`,
		c.Name, c.Budget.Cents, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return requireRow(res)
}

// DeleteCategory removes a category. It refuses while any transaction still
// references the category by name (referential guard, not a foreign key).
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE category = (SELECT name FROM categories WHERE id = ?)`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d transaction(s)", core.ErrCategoryInUse, count)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		date      string
		kind      string
		status    string
		createdAt sql.NullString
		dueDate   sql.NullString
	)
	if err := row.Scan(&t.ID, &date, &t.Description, &t.Amount.Cents, &t.Category,
		&kind, &createdAt, &dueDate, &status); err != nil {
		return core.Transaction{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = d
	t.Kind = core.Kind(kind)
	t.Status = core.Status(status)

	if createdAt.Valid {
		// SQLite CURRENT_TIMESTAMP format
		if ts, err := time.Parse("2006-01-02 15:04:05", createdAt.String); err == nil {
			t.CreatedAt = ts
		}
	}
	if dueDate.Valid && dueDate.String != "" {
		dd, err := core.ParseDate(dueDate.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse due date %q: %w", dueDate.String, err)
		}
		t.DueDate = dd
	}
	return t, nil
}

func nullableDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
