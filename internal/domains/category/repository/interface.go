package repository

import (
	"context"

	"catalog-backend/internal/domains/category/model"
)

// CategoryRepository là persistence contract của write side.
// Mọi method chạy trong transaction của caller (xem TxRunner).
type CategoryRepository interface {
	// FindByID trả về (nil, nil) nếu không tồn tại
	FindByID(ctx context.Context, id model.CategoryID) (*model.Category, error)
	ExistsByID(ctx context.Context, id model.CategoryID) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByNameExcluding(ctx context.Context, name string, excludeID model.CategoryID) (bool, error)

	// FindSubtreeByIDAndStatusIn trả về subtree gốc id, chỉ đi qua các node
	// có status thuộc statuses (root cũng phải thỏa). Thứ tự không đảm bảo.
	FindSubtreeByIDAndStatusIn(ctx context.Context, id model.CategoryID, statuses []model.Status) ([]*model.Category, error)

	// FindAllAncestorsByID trả về chuỗi từ root xuống tới chính id (root-first)
	FindAllAncestorsByID(ctx context.Context, id model.CategoryID) ([]*model.Category, error)

	// GetDepth: root = 1, không tồn tại = 0
	GetDepth(ctx context.Context, id model.CategoryID) (int, error)

	FindAllByID(ctx context.Context, ids []model.CategoryID) ([]*model.Category, error)

	// Save insert (và gọi AssignID) nếu category chưa có id, ngược lại update
	Save(ctx context.Context, category *model.Category) (*model.Category, error)
	SaveAll(ctx context.Context, categories []*model.Category) ([]*model.Category, error)

	// UpdateStatusForIDs bulk update, không đi qua entity
	UpdateStatusForIDs(ctx context.Context, status model.Status, ids []model.CategoryID) (int64, error)
}

// CategoryQueryRepository phục vụ read side (cây hiển thị)
type CategoryQueryRepository interface {
	// FindFlat trả về danh sách phẳng theo scope, order by name
	FindFlat(ctx context.Context, scope model.TreeScope) ([]model.FlatCategory, error)
	FindByID(ctx context.Context, id model.CategoryID) (*model.Category, error)
	FindAllAncestorsByID(ctx context.Context, id model.CategoryID) ([]*model.Category, error)
}

// TxRunner chạy fn trong 1 transaction; fn nhận repository gắn với transaction đó.
// fn trả error → rollback, ngược lại commit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repo CategoryRepository) error) error
}
