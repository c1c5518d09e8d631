package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/data/repos/testutil"
	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
)

func TestRegisterIsIdempotent(t *testing.T) {
	db := testutil.SQLite(t)
	repo := NewSchemaCatalogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	created, err := repo.Register(dbc, &catalog.Entry{AttributeName: "Priority", DataType: "string", DefaultValue: "high"})
	if err != nil || !created {
		t.Fatalf("first Register: created=%v err=%v", created, err)
	}
	created, err = repo.Register(dbc, &catalog.Entry{AttributeName: "Priority", DataType: "string", DefaultValue: "low"})
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if created {
		t.Fatalf("second Register should report existing attribute")
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].DefaultValue != "high" {
		t.Fatalf("expected one Priority entry with the original default, got %+v", all)
	}
}

func TestRegisterInsideTransaction(t *testing.T) {
	db := testutil.SQLite(t)
	tx := testutil.Tx(t, db)
	repo := NewSchemaCatalogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if _, err := repo.Register(dbc, &catalog.Entry{AttributeName: "Status", DataType: "string"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := repo.Register(dbc, &catalog.Entry{AttributeName: "Status", DataType: "string"}); err != nil {
		t.Fatalf("Register duplicate: %v", err)
	}
	// the transaction must still be usable after the swallowed conflict
	if _, err := repo.Register(dbc, &catalog.Entry{AttributeName: "Tissue", DataType: "string"}); err != nil {
		t.Fatalf("Register after conflict: %v", err)
	}
	all, err := repo.List(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %v %+v", err, all)
	}
}

func TestListOrdersByRegistrationTime(t *testing.T) {
	db := testutil.SQLite(t)
	repo := NewSchemaCatalogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Zeta", "Alpha", "Mid"} {
		e := &catalog.Entry{AttributeName: name, DataType: "string", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := repo.Register(dbc, e); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}
	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, e := range all {
		names = append(names, e.AttributeName)
	}
	if fmt.Sprint(names) != "[Zeta Alpha Mid]" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestMarkPropagated(t *testing.T) {
	db := testutil.SQLite(t)
	repo := NewSchemaCatalogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	if _, err := repo.Register(dbc, &catalog.Entry{AttributeName: "Priority", DataType: "string"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := repo.GetByName(dbc, "Priority")
	if err != nil || got.State() != catalog.StateRegisteredPendingPropagation {
		t.Fatalf("expected pending state, got %v (err %v)", got.State(), err)
	}
	if err := repo.MarkPropagated(dbc, "Priority", 3, time.Now().UTC()); err != nil {
		t.Fatalf("MarkPropagated: %v", err)
	}
	got, err = repo.GetByName(dbc, "Priority")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.State() != catalog.StatePropagated || got.PropagatedDocuments != 3 {
		t.Fatalf("unexpected entry after propagation: %+v", got)
	}
	missing, err := repo.GetByName(dbc, "Nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown attribute: %+v %v", missing, err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, true},
		{"pg other", &pgconn.PgError{Code: pgerrcode.UndefinedTable}, false},
		{"message only", errors.New(`ERROR: duplicate key value violates unique constraint "idx_schema_evolution_log_attribute_name"`), false},
		{"message mentions unique", errors.New("UNIQUE constraint failed: column renamed upstream"), false},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKey(tc.err); got != tc.want {
				t.Fatalf("IsDuplicateKey = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSQLiteUniqueViolationIsTranslated(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	if err := db.WithContext(ctx).Create(&catalog.Entry{AttributeName: "Tissue", DataType: "string"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.WithContext(ctx).Create(&catalog.Entry{AttributeName: "Tissue", DataType: "string"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("IsDuplicateKey(%v) = false", err)
	}
}
