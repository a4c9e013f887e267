package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransaction(date core.Date) core.Transaction {
	return core.Transaction{
		Date:        date,
		Description: "Groceries at the market",
		Amount:      core.Money{Cents: 4250},
		Category:    "Groceries",
		Kind:        core.Expense,
		Status:      core.StatusPaid,
	}
}

func mustCreate(t *testing.T, repo *SQLiteRepository, tx core.Transaction) int64 {
	t.Helper()
	id, err := repo.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	return id
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := testTransaction(core.NewDate(2025, 8, 15))
	tx.DueDate = core.NewDate(2025, 8, 31)
	tx.Status = core.StatusPending
	id := mustCreate(t, repo, tx)
	if id < 1 {
		t.Fatalf("CreateTransaction() id = %d, want >= 1", id)
	}

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetTransaction(ctx, id)
		if err != nil {
			t.Fatalf("GetTransaction() error = %v", err)
		}
		if got.Description != tx.Description {
			t.Errorf("Description = %q, want %q", got.Description, tx.Description)
		}
		if got.Amount.Cents != tx.Amount.Cents {
			t.Errorf("Amount.Cents = %d, want %d", got.Amount.Cents, tx.Amount.Cents)
		}
		if got.Date.String() != "2025-08-15" {
			t.Errorf("Date = %v, want 2025-08-15", got.Date)
		}
		if got.DueDate.String() != "2025-08-31" {
			t.Errorf("DueDate = %v, want 2025-08-31", got.DueDate)
		}
		if got.Kind != core.Expense || got.Status != core.StatusPending {
			t.Errorf("Kind/Status = %v/%v, want expense/pending", got.Kind, got.Status)
		}
		if got.CreatedAt.IsZero() {
			t.Error("CreatedAt is zero, want server-assigned timestamp")
		}
	})

	t.Run("update", func(t *testing.T) {
		updated := testTransaction(core.NewDate(2025, 8, 16))
		updated.ID = id
		updated.Description = "Supermarket"
		updated.Amount = core.Money{Cents: 5000}
		if err := repo.UpdateTransaction(ctx, updated); err != nil {
			t.Fatalf("UpdateTransaction() error = %v", err)
		}

		got, err := repo.GetTransaction(ctx, id)
		if err != nil {
			t.Fatalf("GetTransaction() error = %v", err)
		}
		if got.Description != "Supermarket" || got.Amount.Cents != 5000 {
			t.Errorf("after update got %q/%d, want Supermarket/5000", got.Description, got.Amount.Cents)
		}
		if !got.DueDate.IsEmpty() {
			t.Errorf("DueDate = %v, want cleared", got.DueDate)
		}
	})

	t.Run("update status", func(t *testing.T) {
		if err := repo.UpdateTransactionStatus(ctx, id, core.StatusCancelled); err != nil {
			t.Fatalf("UpdateTransactionStatus() error = %v", err)
		}
		got, _ := repo.GetTransaction(ctx, id)
		if got.Status != core.StatusCancelled {
			t.Errorf("Status = %v, want cancelled", got.Status)
		}

		if err := repo.UpdateTransactionStatus(ctx, id, "done"); !errors.Is(err, core.ErrInvalidStatus) {
			t.Errorf("UpdateTransactionStatus(invalid) error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteTransaction(ctx, id); err != nil {
			t.Fatalf("DeleteTransaction() error = %v", err)
		}
		if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("GetTransaction(deleted) error = %v, want ErrNotFound", err)
		}
		if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("DeleteTransaction(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestCreateTransaction_Invalid(t *testing.T) {
	repo := newTestRepo(t)

	tx := testTransaction(core.NewDate(2025, 8, 15))
	tx.Amount = core.Money{Cents: -100}
	if _, err := repo.CreateTransaction(context.Background(), tx); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("CreateTransaction(negative amount) error = %v, want ErrInvalidAmount", err)
	}
}

func TestListTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, day := range []int{10, 20, 30} {
		mustCreate(t, repo, testTransaction(core.NewDate(2025, 6, day)))
	}
	mustCreate(t, repo, testTransaction(core.NewDate(2025, 7, 5)))

	t.Run("no bounds returns everything newest first", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.Date{}, core.Date{})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("len = %d, want 4", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Date.String() < got[i].Date.String() {
				t.Errorf("order violated: %v before %v", got[i-1].Date, got[i].Date)
			}
		}
	})

	t.Run("inclusive range", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.NewDate(2025, 6, 10), core.NewDate(2025, 6, 20))
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 (bounds are inclusive)", len(got))
		}
	})

	t.Run("open-ended from", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.NewDate(2025, 6, 25), core.Date{})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("open-ended to", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.Date{}, core.NewDate(2025, 6, 15))
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len = %d, want 1", len(got))
		}
	})
}

func TestListPendingAndOverdue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	paid := testTransaction(core.NewDate(2025, 8, 1))
	mustCreate(t, repo, paid)

	pendingSoon := testTransaction(core.NewDate(2025, 8, 2))
	pendingSoon.Status = core.StatusPending
	pendingSoon.DueDate = core.NewDate(2025, 9, 15)
	mustCreate(t, repo, pendingSoon)

	pendingLate := testTransaction(core.NewDate(2025, 8, 3))
	pendingLate.Status = core.StatusPending
	pendingLate.DueDate = core.NewDate(2025, 8, 10)
	mustCreate(t, repo, pendingLate)

	pendingNoDue := testTransaction(core.NewDate(2025, 8, 4))
	pendingNoDue.Status = core.StatusPending
	mustCreate(t, repo, pendingNoDue)

	t.Run("pending excludes paid", func(t *testing.T) {
		got, err := repo.ListPending(ctx)
		if err != nil {
			t.Fatalf("ListPending() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for _, tx := range got {
			if tx.Status != core.StatusPending {
				t.Errorf("status = %v, want pending", tx.Status)
			}
		}
	})

	t.Run("overdue needs a past due date", func(t *testing.T) {
		got, err := repo.ListOverdue(ctx, core.NewDate(2025, 8, 20))
		if err != nil {
			t.Fatalf("ListOverdue() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if got[0].DueDate.String() != "2025-08-10" {
			t.Errorf("DueDate = %v, want 2025-08-10", got[0].DueDate)
		}
	})
}

func TestMonthlySummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	add := func(day int, category string, kind core.Kind, cents int64) {
		tx := testTransaction(core.NewDate(2025, 8, day))
		tx.Category = category
		tx.Kind = kind
		tx.Amount = core.Money{Cents: cents}
		mustCreate(t, repo, tx)
	}
	add(1, "Salary", core.Income, 300000)
	add(5, "Groceries", core.Expense, 12000)
	add(12, "Groceries", core.Expense, 8000)
	add(15, "Transport", core.Expense, 5000)
	// Different month, must not appear.
	add2 := testTransaction(core.NewDate(2025, 7, 20))
	mustCreate(t, repo, add2)

	got, err := repo.MonthlySummary(ctx, 2025, 8)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Category != "Salary" || got[0].Total.Cents != 300000 || got[0].Count != 1 {
		t.Errorf("row 0 = %+v, want Salary/300000/1", got[0])
	}
	if got[1].Category != "Groceries" || got[1].Total.Cents != 20000 || got[1].Count != 2 {
		t.Errorf("row 1 = %+v, want Groceries/20000/2", got[1])
	}
	if got[2].Category != "Transport" || got[2].Total.Cents != 5000 {
		t.Errorf("row 2 = %+v, want Transport/5000", got[2])
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("defaults are seeded", func(t *testing.T) {
		categories, err := repo.ListCategories(ctx, "")
		if err != nil {
			t.Fatalf("ListCategories() error = %v", err)
		}
		names := map[string]bool{}
		for _, c := range categories {
			names[c.Name] = true
		}
		for _, want := range []string{"Groceries", "Housing", "Salary"} {
			if !names[want] {
				t.Errorf("seeded categories missing %q", want)
			}
		}
	})

	t.Run("filter by kind", func(t *testing.T) {
		incomes, err := repo.ListCategories(ctx, core.Income)
		if err != nil {
			t.Fatalf("ListCategories(income) error = %v", err)
		}
		if len(incomes) == 0 {
			t.Fatal("no income categories seeded")
		}
		for _, c := range incomes {
			if c.Kind != core.Income {
				t.Errorf("category %q kind = %v, want income", c.Name, c.Kind)
			}
		}
	})

	id, err := repo.CreateCategory(ctx, core.Category{
		Name:   "Hobbies",
		Kind:   core.Expense,
		Budget: core.Money{Cents: 15000},
		Color:  "#123456",
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	t.Run("get and update", func(t *testing.T) {
		c, err := repo.GetCategory(ctx, id)
		if err != nil {
			t.Fatalf("GetCategory() error = %v", err)
		}
		if c.Name != "Hobbies" || c.Budget.Cents != 15000 {
			t.Errorf("GetCategory() = %+v, want Hobbies/15000", c)
		}

		c.Budget = core.Money{Cents: 20000}
		c.Color = "#654321"
		if err := repo.UpdateCategory(ctx, c); err != nil {
			t.Fatalf("UpdateCategory() error = %v", err)
		}
		got, _ := repo.GetCategory(ctx, id)
		if got.Budget.Cents != 20000 || got.Color != "#654321" {
			t.Errorf("after update got %+v", got)
		}
	})

	t.Run("delete refuses while referenced", func(t *testing.T) {
		tx := testTransaction(core.NewDate(2025, 8, 1))
		tx.Category = "Hobbies"
		txID := mustCreate(t, repo, tx)

		if err := repo.DeleteCategory(ctx, id); !errors.Is(err, core.ErrCategoryInUse) {
			t.Fatalf("DeleteCategory(in use) error = %v, want ErrCategoryInUse", err)
		}

		if err := repo.DeleteTransaction(ctx, txID); err != nil {
			t.Fatalf("DeleteTransaction() error = %v", err)
		}
		if err := repo.DeleteCategory(ctx, id); err != nil {
			t.Fatalf("DeleteCategory() error = %v", err)
		}
		if _, err := repo.GetCategory(ctx, id); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("GetCategory(deleted) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		if _, err := repo.GetCategory(ctx, 999999); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("GetCategory(missing) error = %v, want ErrNotFound", err)
		}
		if err := repo.DeleteCategory(ctx, 999999); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("DeleteCategory(missing) error = %v, want ErrNotFound", err)
		}
	})
}
