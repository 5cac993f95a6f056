package service

import (
	"context"
	"io"

	"catalog-backend/internal/domains/category/model"
)

// CategoryService là use case layer mà handler gọi vào
type CategoryService interface {
	// Write side, mỗi command 1 transaction
	Create(ctx context.Context, req model.CreateCategoryReq) (*model.CategoryResp, error)
	Update(ctx context.Context, id model.CategoryID, req model.UpdateCategoryReq) (*model.CategoryResp, error)
	ChangeStatus(ctx context.Context, id model.CategoryID, req model.ChangeStatusReq) (*model.StatusChangeResp, error)
	Delete(ctx context.Context, id model.CategoryID) (*model.DeleteResp, error)

	// Read side
	GetByID(ctx context.Context, id model.CategoryID) (*model.CategoryResp, error)
	GetAncestors(ctx context.Context, id model.CategoryID) (*model.CategoryBreadcrumbResp, error)
	GetTree(ctx context.Context, scope model.TreeScope) ([]*model.CategoryView, error)
	ExportTree(ctx context.Context, scope model.TreeScope, w io.Writer) error
}

// EventPublisher đẩy domain event ra ngoài (asynq) sau khi commit
type EventPublisher interface {
	Publish(ctx context.Context, event model.CategoryEvent) error
}

// TreeExporter ghi danh sách node (pre-order) ra writer
type TreeExporter interface {
	Export(w io.Writer, rows []model.FlatViewRow) error
}
