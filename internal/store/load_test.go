package store

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localgov-gh/revhub/internal/clock"
	"github.com/localgov-gh/revhub/internal/codes"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	"github.com/localgov-gh/revhub/internal/migration"
	"github.com/localgov-gh/revhub/internal/seed"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive.
	sqlDB.SetMaxOpenConns(1)
	if err := migration.RunMigrations(sqlDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func newGormStore(t *testing.T, db *gorm.DB) *Store {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	gen := codes.NewSeededGenerator(11, func() time.Time { return testNow })
	return New(NewGormRemote(db), node, gen, clock.Fixed{At: testNow}, zap.NewNop())
}

func TestLoadRoundTripsThroughDatabase(t *testing.T) {
	db := setupTestDB(t, "load_roundtrip")
	writer := newGormStore(t, db)
	ctx := context.Background()

	district, pending, err := writer.CreateDistrict(ctx, DistrictDraft{Name: "Accra Metropolitan", Region: "Greater Accra"})
	if err != nil {
		t.Fatalf("create district: %v", err)
	}
	if err := pending.Err(); err != nil {
		t.Fatalf("persist district: %v", err)
	}
	biz, pending, err := writer.CreateBusiness(ctx, BusinessDraft{Name: "Accra Bakery", OwnerName: "Ama Mensah", District: district.Name})
	if err != nil {
		t.Fatalf("create business: %v", err)
	}
	if err := pending.Err(); err != nil {
		t.Fatalf("persist business: %v", err)
	}
	col, pending, err := writer.CreateCollection(ctx, CollectionDraft{
		BusinessID:    biz.ID,
		CollectorID:   "col-1",
		Amount:        50000,
		PaymentMethod: collectiondomain.PaymentMethodCash,
		Status:        collectiondomain.CollectionStatusPaid,
	})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}
	if err := pending.Err(); err != nil {
		t.Fatalf("persist collection: %v", err)
	}

	reader := newGormStore(t, db)
	if err := reader.Load(ctx, NewGormBulkSource(db)); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := len(reader.Districts()); got != 1 {
		t.Fatalf("districts = %d, want 1", got)
	}
	loadedBiz, ok := reader.FindBusiness(biz.ID)
	if !ok {
		t.Fatalf("business did not round trip")
	}
	if loadedBiz.BusinessCode != biz.BusinessCode {
		t.Fatalf("business code = %q, want %q", loadedBiz.BusinessCode, biz.BusinessCode)
	}
	loadedCol, ok := reader.FindCollection(col.ID)
	if !ok {
		t.Fatalf("collection did not round trip")
	}
	if loadedCol.Amount != 50000 || loadedCol.Status != collectiondomain.CollectionStatusPaid {
		t.Fatalf("collection round trip = %+v", loadedCol)
	}

	// The reloaded region index scopes exactly like the writer's.
	if reader.Resolver() == nil {
		t.Fatalf("resolver missing after load")
	}
}

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	db := setupTestDB(t, "seed_idempotent")

	if err := seed.EnsureDemoData(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := seed.EnsureDemoData(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	st := newGormStore(t, db)
	if err := st.Load(context.Background(), NewGormBulkSource(db)); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := len(st.Districts()); got != 2 {
		t.Fatalf("districts = %d, want 2", got)
	}
	if got := len(st.Businesses()); got != 3 {
		t.Fatalf("businesses = %d, want 3", got)
	}
	if got := len(st.Collections()); got != 3 {
		t.Fatalf("collections = %d, want 3", got)
	}
	if got := len(st.Users()); got != 2 {
		t.Fatalf("users = %d, want 2", got)
	}
}
