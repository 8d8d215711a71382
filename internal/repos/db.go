package repos

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"electrostore/internal/domain"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/postgres.sql
var postgresSchema string

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx. Every repo method takes
// one so callers decide which unit of work a statement belongs to.
type Queryer = sqlx.ExtContext

type Options struct {
	Seed       bool
	BcryptCost int
}

var DefaultOptions = Options{Seed: true, BcryptCost: 12}

// OpenDB opens the store with DefaultOptions.
func OpenDB(dsn string) (*sqlx.DB, error) { return Open(dsn, DefaultOptions) }

// Open connects to sqlite (any DSN) or postgres (postgres:// URLs), applies
// the schema and optionally seeds demo data.
func Open(dsn string, opts Options) (*sqlx.DB, error) {
	driver := driverFor(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One connection: keeps :memory: databases alive and serialises
		// writers, so units of work never interleave.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	if opts.Seed {
		if err := seedIfEmpty(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		if err := seedUsers(db, opts.BcryptCost); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}
	return db, nil
}

func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

func ensureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	return err
}

// WithTx runs fn inside one transaction. fn's error (or a panic) rolls back
// every statement issued through tx.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			log.Printf("[db] rollback failed: %v", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ---------- statement helpers ----------

func get(ctx context.Context, q Queryer, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func sel(ctx context.Context, q Queryer, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q Queryer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// execOne runs a write that must touch at least one row.
func execOne(ctx context.Context, q Queryer, query string, args ...any) error {
	res, err := exec(ctx, q, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// forUpdate is the row-lock suffix for dialects that have one. sqlite locks
// the whole database on the first write instead.
func forUpdate(q Queryer) string {
	if q.DriverName() == "postgres" {
		return " FOR UPDATE"
	}
	return ""
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func now() string { return time.Now().UTC().Format("2006-01-02T15:04:05.000000Z") }

// ---------- seed ----------

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/suppliers")

	ts := now()
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('laptops','Laptops'),
	  ('phones','Phones'),
	  ('audio','Audio')`)

	tx.MustExec(tx.Rebind(`INSERT INTO products(id,category_id,name,description,brand,price,stock_quantity,discount,created_at,updated_at) VALUES
	  ('lap-001','laptops','ThinkPad X1 Carbon','14" business ultrabook','Lenovo','1499.00',12,NULL,?,?),
	  ('pho-001','phones','Pixel 9','6.3" Android phone','Google','799.00',30,'10',?,?),
	  ('aud-001','audio','WH-1000XM5','Noise cancelling headphones','Sony','349.99',25,NULL,?,?)`),
		ts, ts, ts, ts, ts, ts)

	tx.MustExec(tx.Rebind(`INSERT INTO suppliers(id,name,email,phone,created_at) VALUES
	  ('sup-001','Nordic Distribution','sales@nordic.test','+45 1234 5678',?)`), ts)
	tx.MustExec(`INSERT INTO product_suppliers(product_id,supplier_id,supply_price) VALUES
	  ('lap-001','sup-001','1100.00'),
	  ('aud-001','sup-001','210.00')`)

	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist, each with a home address.
func seedUsers(db *sqlx.DB, cost int) error {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, x := range [][4]string{
		{"u-alice", "alice@electrostore.test", "Alice", domain.RoleUser},
		{"u-bob", "bob@electrostore.test", "Bob", domain.RoleUser},
		{"u-admin", "admin@electrostore.test", "Admin", domain.RoleAdmin},
	} {
		nu, err := mk(x[0], x[1], x[2], x[3], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, nu)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, x := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`), x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO addresses(id,user_id,address,label,created_at)
			VALUES(?,?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`), "addr-"+strings.TrimPrefix(x.ID, "u-"), x.ID, "1 Main Street", "home", ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}
