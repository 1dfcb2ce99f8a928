package repository

import (
	"context"
	"testing"
	"time"

	"kalban_greenbag/internal/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds SQL against the postgres dialect without a server and records every statement.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var statements []string
	capture := func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture_update", capture))

	return db, &statements
}

func TestOrderListComposesFiltersNewestFirst(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewOrderRepository(db)
	userID := uuid.New()

	_, err := repo.List(context.Background(), OrderFilter{UserID: &userID, Status: "ACTIVE"}, paging.Request{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `FROM "orders"`)
	assert.Contains(t, sql, "user_id = $1 AND status = $2")
	assert.Contains(t, sql, "ORDER BY created_at DESC,id DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
}

func TestOrderCountIgnoresPaging(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewOrderRepository(db)
	code := int64(778899)

	_, err := repo.Count(context.Background(), OrderFilter{OrderCode: &code})
	require.NoError(t, err)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, "count(*)")
	assert.Contains(t, sql, "order_code = $1")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "ORDER BY")
}

func TestUpdateTotalAmountTouchesOnlyTotal(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewOrderRepository(db)

	err := repo.UpdateTotalAmount(context.Background(), uuid.New(), decimal.RequireFromString("150.25"))
	// a dry run affects no rows
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `UPDATE "orders" SET "total_amount"=$1`)
	assert.NotContains(t, sql, `"status"`)
	assert.Contains(t, sql, "WHERE id = ")
}

func TestOrderUpdateWritesOnlyChangedColumns(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewOrderRepository(db)
	code := int64(424242)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	err := repo.Update(context.Background(), uuid.New(), OrderChanges{OrderCode: &code, ModifiedBy: "carol", UpdatedAt: at})
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `UPDATE "orders" SET "modified_by"=$1,"order_code"=$2,"updated_at"=$3 WHERE id = $4`)
	assert.NotContains(t, sql, `"status"`)
	assert.NotContains(t, sql, `"total_amount"`)
	assert.NotContains(t, sql, `"user_id"`)
}

func TestOrderUpdateStatusUsesGivenTime(t *testing.T) {
	db, statements := dryRunDB(t)
	var vars []interface{}
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture_vars", func(tx *gorm.DB) {
		vars = tx.Statement.Vars
	}))
	repo := NewOrderRepository(db)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	err := repo.UpdateStatus(context.Background(), uuid.New(), "INACTIVE", "bob", at)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, *statements, 1)

	assert.Contains(t, (*statements)[0], `SET "modified_by"=$1,"status"=$2,"updated_at"=$3`)
	require.GreaterOrEqual(t, len(vars), 3)
	assert.Equal(t, at, vars[2])
}

func TestCustomizationUpdateWritesOnlyChangedColumns(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewProductCustomizationRepository(db)
	inactive := "INACTIVE"

	err := repo.Update(context.Background(), uuid.New(), CustomizationChanges{
		Status:      &inactive,
		ClearReason: true,
		ModifiedBy:  "erin",
		UpdatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `UPDATE "product_customizations" SET`)
	assert.Contains(t, sql, `"reason"=$`)
	assert.Contains(t, sql, `"status"=$`)
	assert.NotContains(t, sql, `"total_price"`)
	assert.NotContains(t, sql, `"product_id"`)
	assert.NotContains(t, sql, `"custom_value"`)
}

func TestCustomizationListByUser(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewProductCustomizationRepository(db)
	userID := uuid.New()

	_, err := repo.List(context.Background(), CustomizationFilter{UserID: &userID}, paging.Request{Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `FROM "product_customizations"`)
	assert.Contains(t, sql, "user_id = $1")
	assert.NotContains(t, sql, "status =")
	assert.Contains(t, sql, "LIMIT 5")
	assert.NotContains(t, sql, "OFFSET")
}

func TestTimeWindowContains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: &start, End: &end}

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(end))
	assert.False(t, w.Contains(start.Add(-time.Second)))

	assert.True(t, TimeWindow{}.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, TimeWindow{Start: &start}.Contains(end.AddDate(5, 0, 0)))
}
