package tests

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/adapter/storage"
	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/core/service"
	"github.com/rl1809/stockledger/internal/port"
)

type testEnv struct {
	redis    *redis.Client
	mysql    *sql.DB
	store    *storage.MySQLAdapter
	journal  *storage.RedisAdapter
	invSheet string
	salSheet string
	cleanup  func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/stockledger?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	env := &testEnv{
		redis:    rdb,
		mysql:    db,
		store:    storage.NewMySQLAdapter(db),
		journal:  storage.NewRedisAdapter(rdb, "stockledger:test:"+suffix),
		invSheet: "it-inventory-" + suffix,
		salSheet: "it-sales-" + suffix,
	}
	if err := env.store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	env.cleanup = func() {
		env.store.Truncate(ctx, env.invSheet)
		env.store.Truncate(ctx, env.salSheet)
		env.journal.Clear(ctx)
		rdb.Close()
		db.Close()
	}
	return env
}

func (e *testEnv) seed(t *testing.T, items ...domain.Item) {
	if err := storage.Seed(context.Background(), e.store, e.invSheet, e.salSheet, items, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (e *testEnv) newService(store port.TableStore, now time.Time) *service.ReconcileService {
	parser := record.NewParser(record.MinInventoryFields)
	logger := zap.NewNop()
	cache := service.NewInventoryCache(store, parser, e.invSheet, logger)
	recorder := service.NewSaleRecorder(store, parser, e.salSheet, logger).WithClock(func() time.Time { return now })
	return service.NewReconcileService(cache, recorder, e.journal, logger)
}

// failingInventoryWrites lets the ledger append through and fails every
// inventory write.
type failingInventoryWrites struct {
	port.TableStore
}

func (f failingInventoryWrites) WriteRows(context.Context, string, int, [][]any) error {
	return errors.New("write quota exceeded")
}

var day = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

func TestIntegration_SellAndRevenue(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	env.seed(t,
		domain.Item{SKU: "A1", Name: "Widget", Stock: 10, Price: decimal.RequireFromString("3.50"), Category: "Tools"},
		domain.Item{SKU: "B2", Name: "Gadget", Stock: 4, Price: decimal.RequireFromString("12"), Category: "Gear"},
	)

	svc := env.newService(env.store, day)
	if _, err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if _, err := svc.Sell(ctx, "a1", 2); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, err := svc.SellTo(ctx, "B2", 1, "Acme"); err != nil {
		t.Fatalf("sell to: %v", err)
	}

	// A fresh session sees the persisted stock.
	items, err := env.newService(env.store, day).Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if items[0].Stock != 8 || items[1].Stock != 3 {
		t.Errorf("expected stock 8 and 3, got %d and %d", items[0].Stock, items[1].Stock)
	}

	rev, err := svc.RevenueForDate(ctx, "2024-01-05")
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if len(rev.Matches) != 2 {
		t.Errorf("expected 2 sales, got %d", len(rev.Matches))
	}
	if !rev.Total.Equal(decimal.RequireFromString("19")) {
		t.Errorf("expected total 19, got %s", rev.Total)
	}
	if rev.Matches[1].Customer != "Acme" {
		t.Errorf("expected customer Acme, got %q", rev.Matches[1].Customer)
	}
}

func TestIntegration_SellsStopAtZeroStock(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	initialStock := 10
	env.seed(t, domain.Item{SKU: "C3", Name: "Thing", Stock: initialStock, Price: decimal.NewFromInt(1), Category: "Misc"})

	svc := env.newService(env.store, day)
	if _, err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	var sold, rejected int
	for i := 0; i < 12; i++ {
		_, err := svc.Sell(ctx, "C3", 1)
		switch {
		case err == nil:
			sold++
		case errors.Is(err, service.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if sold != initialStock || rejected != 2 {
		t.Errorf("expected %d sold and 2 rejected, got %d and %d", initialStock, sold, rejected)
	}

	rows, err := env.store.ReadAll(ctx, env.salSheet)
	if err != nil {
		t.Fatalf("read sales: %v", err)
	}
	if len(rows)-1 != initialStock {
		t.Errorf("expected %d ledger rows, got %d", initialStock, len(rows)-1)
	}
}

func TestIntegration_PersistFailureIsJournalled(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	env.seed(t, domain.Item{SKU: "A1", Name: "Widget", Stock: 5, Price: decimal.NewFromInt(2), Category: "Tools"})

	svc := env.newService(failingInventoryWrites{env.store}, day)
	if _, err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	_, err := svc.Sell(ctx, "A1", 3)
	var inconsistent *service.InconsistentStateError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("expected InconsistentStateError, got: %v", err)
	}

	// Ledger is ahead: one sale, stock unchanged remotely.
	sales, _ := env.store.ReadAll(ctx, env.salSheet)
	if len(sales) != 2 {
		t.Errorf("expected the sale in the ledger, got %d rows", len(sales))
	}
	inv, _ := env.store.ReadAll(ctx, env.invSheet)
	if inv[1][2] != "5" {
		t.Errorf("expected remote stock 5, got %s", inv[1][2])
	}

	divs, err := svc.Divergences(ctx)
	if err != nil {
		t.Fatalf("list divergences: %v", err)
	}
	if len(divs) != 1 || divs[0].SKU != "A1" || divs[0].Quantity != 3 {
		t.Errorf("expected one divergence for 3 x A1, got %+v", divs)
	}
}
