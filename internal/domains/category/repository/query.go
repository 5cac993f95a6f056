package repository

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================================
// READ SIDE
// ============================================================

type postgresQueryRepository struct {
	db database.DBTX
}

func NewPostgresQueryRepository(db database.DBTX) CategoryQueryRepository {
	return &postgresQueryRepository{db: db}
}

func (r *postgresQueryRepository) FindFlat(ctx context.Context, scope model.TreeScope) ([]model.FlatCategory, error) {
	query := `SELECT id, name, slug, parent_id, status, created_at, updated_at FROM categories`
	args := []any{}

	if statuses := scope.Statuses(); statuses != nil {
		query += ` WHERE status = ANY($1::text[])`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error("FindFlat: query failed", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	result := make([]model.FlatCategory, 0)
	for rows.Next() {
		var (
			row      model.FlatCategory
			id       int64
			parentID *int64
			status   string
		)
		if err := rows.Scan(&id, &row.Name, &row.Slug, &parentID, &status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			logger.Error("FindFlat: scan error", err)
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		row.ID = model.CategoryID(id)
		if parentID != nil {
			row.ParentID = model.IDPtr(model.CategoryID(*parentID))
		}
		row.Status = model.Status(status)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error("FindFlat: rows error", err)
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return result, nil
}

func (r *postgresQueryRepository) FindByID(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	return NewPostgresRepository(r.db).FindByID(ctx, id)
}

func (r *postgresQueryRepository) FindAllAncestorsByID(ctx context.Context, id model.CategoryID) ([]*model.Category, error) {
	return findAncestors(ctx, r.db, id)
}

// ============================================================
// TRANSACTION
// ============================================================

type txRunner struct {
	pool    database.TxBeginner
	timeout time.Duration
}

// NewTxRunner: timeout <= 0 nghĩa là dùng deadline của ctx
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) TxRunner {
	return &txRunner{pool: pool, timeout: timeout}
}

func (r *txRunner) RunInTx(ctx context.Context, fn func(repo CategoryRepository) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewPostgresRepository(tx))
	})
}
