package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	// Chặn recursive CTE chạy vô hạn nếu dữ liệu lỗi có vòng lặp
	maxTraversalDepth = 64

	categoryColumns = `id, name, parent_id, status, created_at, updated_at`
)

type postgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository nhận pool (ngoài transaction) hoặc pgx.Tx
func NewPostgresRepository(db database.DBTX) CategoryRepository {
	return &postgresRepository{db: db}
}

// ============================================================
// READ
// ============================================================

func (r *postgresRepository) FindByID(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	entity, err := scanCategory(r.db.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error("FindByID: database error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id model.CategoryID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, int64(id)).Scan(&exists); err != nil {
		logger.Error("ExistsByID: database error", err)
		return false, fmt.Errorf("failed to check category exists: %w", err)
	}
	return exists, nil
}

// ExistsByName so sánh không phân biệt hoa thường, bỏ qua category đã DELETED
func (r *postgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE LOWER(name) = LOWER($1) AND status <> 'DELETED'
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		logger.Error("ExistsByName: database error", err)
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByNameExcluding(ctx context.Context, name string, excludeID model.CategoryID) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE LOWER(name) = LOWER($1) AND status <> 'DELETED' AND id <> $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name, int64(excludeID)).Scan(&exists); err != nil {
		logger.Error("ExistsByNameExcluding: database error", err)
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// FindSubtreeByIDAndStatusIn: recursive CTE đi xuống từ root,
// chỉ mở rộng qua các node có status nằm trong filter
func (r *postgresRepository) FindSubtreeByIDAndStatusIn(
	ctx context.Context,
	id model.CategoryID,
	statuses []model.Status,
) ([]*model.Category, error) {
	const query = `
		WITH RECURSIVE subtree AS (
			SELECT id, name, parent_id, status, created_at, updated_at, 1 AS depth
			FROM categories
			WHERE id = $1 AND status = ANY($2::text[])

			UNION ALL

			SELECT c.id, c.name, c.parent_id, c.status, c.created_at, c.updated_at, s.depth + 1
			FROM categories c
			INNER JOIN subtree s ON c.parent_id = s.id
			WHERE c.status = ANY($2::text[]) AND s.depth < $3
		)
		SELECT id, name, parent_id, status, created_at, updated_at
		FROM subtree
		ORDER BY depth ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, int64(id), statusStrings(statuses), maxTraversalDepth)
	if err != nil {
		logger.Error("FindSubtreeByIDAndStatusIn: query failed", err)
		return nil, fmt.Errorf("failed to get subtree: %w", err)
	}

	return collectCategories(rows, "FindSubtreeByIDAndStatusIn")
}

func (r *postgresRepository) FindAllAncestorsByID(ctx context.Context, id model.CategoryID) ([]*model.Category, error) {
	return findAncestors(ctx, r.db, id)
}

// GetDepth đếm số node từ id lên root (root = 1)
func (r *postgresRepository) GetDepth(ctx context.Context, id model.CategoryID) (int, error) {
	const query = `
		WITH RECURSIVE parent_chain AS (
			SELECT id, parent_id, 1 AS depth
			FROM categories
			WHERE id = $1

			UNION ALL

			SELECT c.id, c.parent_id, pc.depth + 1
			FROM categories c
			INNER JOIN parent_chain pc ON c.id = pc.parent_id
			WHERE pc.depth < $2
		)
		SELECT COALESCE(MAX(depth), 0) FROM parent_chain
	`

	var depth int
	if err := r.db.QueryRow(ctx, query, int64(id), maxTraversalDepth).Scan(&depth); err != nil {
		logger.Error("GetDepth: database error", err)
		return 0, fmt.Errorf("failed to get category depth: %w", err)
	}
	return depth, nil
}

func (r *postgresRepository) FindAllByID(ctx context.Context, ids []model.CategoryID) ([]*model.Category, error) {
	if len(ids) == 0 {
		return []*model.Category{}, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1::bigint[]) ORDER BY id`

	rows, err := r.db.Query(ctx, query, idInts(ids))
	if err != nil {
		logger.Error("FindAllByID: query failed", err)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return collectCategories(rows, "FindAllByID")
}

// ============================================================
// WRITE
// ============================================================

func (r *postgresRepository) Save(ctx context.Context, entity *model.Category) (*model.Category, error) {
	if entity.HasID() {
		return r.update(ctx, entity)
	}
	return r.insert(ctx, entity)
}

func (r *postgresRepository) insert(ctx context.Context, entity *model.Category) (*model.Category, error) {
	const query = `
		INSERT INTO categories (name, slug, parent_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		entity.Name(),
		entity.Slug(),
		parentParam(entity.ParentID()),
		string(entity.Status()),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if mapped := mapConstraintError(err, entity); mapped != nil {
			return nil, mapped
		}
		logger.Error("Save: insert failed", err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	if err := entity.AssignID(model.CategoryID(id)); err != nil {
		return nil, err
	}

	return entity, nil
}

func (r *postgresRepository) update(ctx context.Context, entity *model.Category) (*model.Category, error) {
	const query = `
		UPDATE categories
		SET name = $1, slug = $2, parent_id = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		entity.Name(),
		entity.Slug(),
		parentParam(entity.ParentID()),
		string(entity.Status()),
		entity.UpdatedAt(),
		int64(entity.ID()),
	)
	if err != nil {
		if mapped := mapConstraintError(err, entity); mapped != nil {
			return nil, mapped
		}
		logger.Error("Save: update failed", err)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, model.NewCategoryNotFound(entity.ID())
	}

	return entity, nil
}

// SaveAll giữ nguyên thứ tự input (parent trước child khi insert)
func (r *postgresRepository) SaveAll(ctx context.Context, entities []*model.Category) ([]*model.Category, error) {
	saved := make([]*model.Category, 0, len(entities))
	for _, entity := range entities {
		s, err := r.Save(ctx, entity)
		if err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

func (r *postgresRepository) UpdateStatusForIDs(ctx context.Context, status model.Status, ids []model.CategoryID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	const query = `
		UPDATE categories
		SET status = $1, updated_at = $2
		WHERE id = ANY($3::bigint[])
	`

	tag, err := r.db.Exec(ctx, query, string(status), time.Now(), idInts(ids))
	if err != nil {
		logger.Error("UpdateStatusForIDs: database error", err)
		return 0, fmt.Errorf("failed to update category status: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ============================================================
// HELPERS
// ============================================================

func findAncestors(ctx context.Context, db database.DBTX, id model.CategoryID) ([]*model.Category, error) {
	const query = `
		WITH RECURSIVE ancestors AS (
			SELECT id, name, parent_id, status, created_at, updated_at, 0 AS distance
			FROM categories
			WHERE id = $1

			UNION ALL

			SELECT c.id, c.name, c.parent_id, c.status, c.created_at, c.updated_at, a.distance + 1
			FROM categories c
			INNER JOIN ancestors a ON c.id = a.parent_id
			WHERE a.distance < $2
		)
		SELECT id, name, parent_id, status, created_at, updated_at
		FROM ancestors
		ORDER BY distance DESC
	`

	rows, err := db.Query(ctx, query, int64(id), maxTraversalDepth)
	if err != nil {
		logger.Error("FindAllAncestorsByID: query failed", err)
		return nil, fmt.Errorf("failed to get ancestors: %w", err)
	}

	return collectCategories(rows, "FindAllAncestorsByID")
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var (
		id        int64
		name      string
		parentID  *int64
		status    string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &parentID, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var parent *model.CategoryID
	if parentID != nil {
		parent = model.IDPtr(model.CategoryID(*parentID))
	}

	return model.Rehydrate(model.CategoryID(id), name, parent, model.Status(status), createdAt, updatedAt), nil
}

func collectCategories(rows pgx.Rows, op string) ([]*model.Category, error) {
	defer rows.Close()

	entities := make([]*model.Category, 0)
	for rows.Next() {
		entity, err := scanCategory(rows)
		if err != nil {
			logger.Error(op+": scan error", err)
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		logger.Error(op+": rows error", err)
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return entities, nil
}

func mapConstraintError(err error, entity *model.Category) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case uniqueViolation:
		logger.Error("Save: duplicate name", err)
		return model.NewDuplicateName(entity.Name())
	case foreignKeyViolation:
		logger.Error("Save: parent not found", err)
		if parent := entity.ParentID(); parent != nil {
			return model.NewParentNotFound(*parent)
		}
		return model.ErrParentNotFound
	}
	return nil
}

func parentParam(parentID *model.CategoryID) *int64 {
	if parentID == nil {
		return nil
	}
	v := int64(*parentID)
	return &v
}

func idInts(ids []model.CategoryID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func statusStrings(statuses []model.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
