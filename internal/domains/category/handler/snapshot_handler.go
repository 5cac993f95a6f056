package handler

import (
	"context"
	"net/http"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const snapshotURLExpiry = 15 * time.Minute

// SnapshotStore là phần của MinIOStorage mà admin API cần
type SnapshotStore interface {
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type SnapshotItem struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	DownloadURL  string    `json:"download_url"`
}

// SnapshotHandler liệt kê các bản export định kỳ đã lưu
type SnapshotHandler struct {
	store SnapshotStore
}

func NewSnapshotHandler(store SnapshotStore) *SnapshotHandler {
	return &SnapshotHandler{store: store}
}

// List - GET /v1/admin/categories/snapshots?scope=live (mới nhất trước)
func (h *SnapshotHandler) List(c *gin.Context) {
	if h.store == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "SNAPSHOTS_DISABLED", "category snapshots are not enabled")
		return
	}

	scope, err := model.ParseTreeScope(c.DefaultQuery("scope", string(model.ScopeLive)))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.CodeInvalidArgument, "invalid tree scope")
		return
	}

	ctx := c.Request.Context()
	objects, err := h.store.List(ctx, model.SnapshotPrefix(scope))
	if err != nil {
		logger.Error("list category snapshots failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	items := make([]SnapshotItem, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		o := objects[i]
		link, err := h.store.PresignedURL(ctx, o.Key, snapshotURLExpiry)
		if err != nil {
			logger.Error("presign category snapshot failed", err)
			response.InternalServerError(c, "Internal server error")
			return
		}
		items = append(items, SnapshotItem{
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified,
			DownloadURL:  link,
		})
	}

	response.SuccessWithTotal(c, http.StatusOK, items, len(items))
}
