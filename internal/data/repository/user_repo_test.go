package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// fakeRow scans values into the destinations in order, or returns err.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

// fakeDB answers every QueryRow with row and records the last call.
type fakeDB struct {
	row       fakeRow
	lastQuery string
	lastArgs  []any
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.lastQuery, db.lastArgs = sql, args
	return db.row
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not used")
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }

func (db *fakeDB) Close() {}

func userRow(t *testing.T, password, role string, active bool) fakeRow {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	var phone *string
	return fakeRow{values: []any{
		int64(7), "Ana Pérez", "ana@example.com", hash, phone, role, active, time.Now(),
	}}
}

func TestUserRepository_Register(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int64(3), true, time.Now()}}}
	repo := NewUserRepository(db, zap.NewNop())

	user, err := repo.Register(context.Background(), entity.NewUser{
		Name:     "Ana Pérez",
		Email:    "  Ana@Example.COM ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID != 3 || user.Email != "ana@example.com" || user.Role != entity.RoleCustomer {
		t.Errorf("user = %+v", user)
	}
	if db.lastArgs[1] != "ana@example.com" {
		t.Errorf("email arg = %v", db.lastArgs[1])
	}
	if hash, _ := db.lastArgs[2].(string); !utils.CheckPasswordHash("secret1", hash) {
		t.Error("stored password is not a bcrypt hash of the input")
	}
}

func TestUserRepository_RegisterErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind utils.ErrorKind
	}{
		{name: "duplicate email", err: &pgconn.PgError{Code: "23505"}, wantKind: utils.KindConflict},
		{name: "wrapped duplicate", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), wantKind: utils.KindConflict},
		{name: "other constraint", err: &pgconn.PgError{Code: "23502"}, wantKind: utils.KindInternal},
		{name: "connection lost", err: errors.New("conn closed"), wantKind: utils.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewUserRepository(&fakeDB{row: fakeRow{err: tt.err}}, zap.NewNop())

			_, err := repo.Register(context.Background(), entity.NewUser{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := utils.KindOf(err); kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
			if tt.wantKind == utils.KindConflict && err.Error() != msgEmailTaken {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestUserRepository_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		row      fakeRow
		password string
		wantKind utils.ErrorKind
		wantErr  bool
	}{
		{name: "valid credentials", row: userRow(t, "secret1", "cliente", true), password: "secret1"},
		{name: "wrong password", row: userRow(t, "secret1", "cliente", true), password: "secret2", wantErr: true, wantKind: utils.KindUnauthorized},
		{name: "unknown email", row: fakeRow{err: pgx.ErrNoRows}, password: "secret1", wantErr: true, wantKind: utils.KindUnauthorized},
		{name: "database down", row: fakeRow{err: errors.New("timeout")}, password: "secret1", wantErr: true, wantKind: utils.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{row: tt.row}
			repo := NewUserRepository(db, zap.NewNop())

			user, err := repo.Authenticate(context.Background(), " ANA@example.com", tt.password)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Authenticate() error = %v", err)
				}
				if user.ID != 7 || user.Role != entity.RoleCustomer {
					t.Errorf("user = %+v", user)
				}
				return
			}

			if kind := utils.KindOf(err); kind != tt.wantKind {
				t.Errorf("kind = %v, want %v (err=%v)", kind, tt.wantKind, err)
			}
			if tt.wantKind == utils.KindUnauthorized && err.Error() != msgInvalidCredentials {
				t.Errorf("message = %q", err.Error())
			}
			if db.lastArgs[0] != "ana@example.com" {
				t.Errorf("email arg = %v", db.lastArgs[0])
			}
		})
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	db := &fakeDB{row: userRow(t, "secret1", "administrador", false)}
	repo := NewUserRepository(db, zap.NewNop())

	user, err := repo.FindByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if user.Role != entity.RoleAdmin || user.IsActive {
		t.Errorf("user = %+v", user)
	}
	if !strings.Contains(db.lastQuery, "WHERE id = $1") {
		t.Errorf("query = %s", db.lastQuery)
	}

	missing := NewUserRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}, zap.NewNop())
	if user, err := missing.FindByID(context.Background(), 404); user != nil || err != nil {
		t.Errorf("FindByID(missing) = %v, %v; want nil, nil", user, err)
	}
}
