package repository

import (
	"context"
	"database/sql"
	"time"

	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/repository/db"
)

type RunRepo interface {
	Append(ctx context.Context, r models.RunRecord) error
	List(ctx context.Context, from, to time.Time, kind string) ([]models.RunRecord, error)
}

// OperatorRepo stores console operator accounts.
type OperatorRepo interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

type Repository struct {
	RunRepo      RunRepo
	OperatorRepo OperatorRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		RunRepo:      NewRunSQLite(conn),
		OperatorRepo: NewOperatorSQLite(conn),
	}
}

// InitDB opens the SQLite file at path and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
