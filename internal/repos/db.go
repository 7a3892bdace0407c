package repos

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"gymfit/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed catalog and trainers if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Local key-value store (sessions, guest carts, catalog cache)
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','user','trainer')),
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  category TEXT NOT NULL CHECK (category IN ('accessory','supplement')),
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Per-user carts
CREATE TABLE IF NOT EXISTS cart_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (user_id, product_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Payments
CREATE TABLE IF NOT EXISTS payments(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id);

-- Trainers, hires and their message threads
CREATE TABLE IF NOT EXISTS trainers(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  specialization TEXT NOT NULL DEFAULT '',
  experience INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  description TEXT NOT NULL DEFAULT '',
  rating NUMERIC NOT NULL DEFAULT 0,
  image TEXT NOT NULL DEFAULT '',
  available INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_trainers_user ON trainers(user_id);

CREATE TABLE IF NOT EXISTS hires(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  trainer_id TEXT NOT NULL REFERENCES trainers(id) ON DELETE CASCADE,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL CHECK (status IN ('active','completed','cancelled'))
);
CREATE INDEX IF NOT EXISTS idx_hires_user    ON hires(user_id);
CREATE INDEX IF NOT EXISTS idx_hires_trainer ON hires(trainer_id);

CREATE TABLE IF NOT EXISTS hire_messages(
  id TEXT PRIMARY KEY,
  hire_id TEXT NOT NULL REFERENCES hires(id) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  sender_id TEXT NOT NULL,
  sender_name TEXT NOT NULL,
  content TEXT NOT NULL,
  ts TEXT NOT NULL,
  UNIQUE (hire_id, seq)
);

-- Checkout saga log
CREATE TABLE IF NOT EXISTS checkout_runs(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL DEFAULT '',
  payment_id TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_checkout_runs_state ON checkout_runs(state);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/trainers")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,description,price,stock,category,image) VALUES
	  ('p-gloves','Guantes de entrenamiento','Guantes con muñequera ajustable',15990,25,'accessory','products/gloves.jpg'),
	  ('p-rope','Cuerda para saltar','Cuerda de velocidad con rodamientos',9990,40,'accessory','products/rope.jpg'),
	  ('p-whey','Proteína Whey 2lb','Proteína de suero sabor vainilla',50000,15,'supplement','products/whey.jpg'),
	  ('p-creatine','Creatina 300g','Creatina monohidratada',24990,23,'supplement','products/creatine.jpg')`)

	tx.MustExec(`INSERT INTO trainers(id,user_id,name,specialization,experience,price,description,rating,image,available) VALUES
	  ('t-carla','u-trainer','Carla Rojas','Fuerza',6,45000,'Hipertrofia y técnica de levantamiento',4.8,'trainers/carla.jpg',1),
	  ('t-diego','','Diego Soto','Cardio',3,30000,'Resistencia y pérdida de grasa',4.3,'trainers/diego.jpg',0)`)

	return tx.Commit()
}

// seedUsers ensures the demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Phone, Hash string
	}
	mk := func(id, email, name string, role domain.Role, phone, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: string(role), Phone: phone, Hash: string(h)}
	}

	users := []u{
		mk("u-test", "test@test.com", "Test User", domain.RoleUser, "+56912345678", "password123"),
		mk("u-trainer", "trainer@gymfit.test", "Carla Rojas", domain.RoleTrainer, "+56987654321", "password123"),
		mk("u-admin", "admin@gymfit.test", "Admin", domain.RoleAdmin, "+56911111111", "password123"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,phone)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Phone); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// notFound maps an empty result to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
