package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

type JobSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobRepository stores job records as opaque JSON documents owned by a user.
type JobRepository interface {
	SaveJob(ctx context.Context, userID int, id uuid.UUID, name string, data []byte) error
	GetJob(ctx context.Context, userID int, id uuid.UUID) ([]byte, error)
	ListJobs(ctx context.Context, userID int) ([]JobSummary, error)
	DeleteJob(ctx context.Context, userID int, id uuid.UUID) error
}

type Store interface {
	Repository
	JobRepository
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// InitDB opens and pings Postgres. sslmode=require is added unless the
// connection string sets its own.
func InitDB(ctx context.Context, connStr string) (*sql.DB, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr = connStr + sep + "sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveJob(ctx context.Context, userID int, id uuid.UUID, name string, data []byte) error {
	query := `INSERT INTO jobs (id, user_id, name, data, updated_at) VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = now()
		WHERE jobs.user_id = EXCLUDED.user_id`
	res, err := r.db.ExecContext(ctx, query, id, userID, name, string(data))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calcerr.NotFound("job %s", id)
	}
	return nil
}

func (r *PostgresUserRepository) GetJob(ctx context.Context, userID int, id uuid.UUID) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, "SELECT data FROM jobs WHERE id=$1 AND user_id=$2", id, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, calcerr.NotFound("job %s", id)
	}
	return data, err
}

func (r *PostgresUserRepository) ListJobs(ctx context.Context, userID int) ([]JobSummary, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, updated_at FROM jobs WHERE user_id=$1 ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobSummary{}
	for rows.Next() {
		var s JobSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) DeleteJob(ctx context.Context, userID int, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM jobs WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calcerr.NotFound("job %s", id)
	}
	return nil
}
