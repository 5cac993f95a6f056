package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/service"
	"catalog-backend/internal/infrastructure/storage"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const snapshotContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SnapshotStore là phần của MinIOStorage mà snapshot job cần
type SnapshotStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	RemoveObjects(ctx context.Context, keys []string) error
}

// CategorySnapshotHandler export cây category ra xlsx, upload lên object storage
// và chỉ giữ lại `retention` bản mới nhất cho mỗi scope
type CategorySnapshotHandler struct {
	service   service.CategoryService
	store     SnapshotStore
	retention int
	now       func() time.Time
}

func NewCategorySnapshotHandler(svc service.CategoryService, store SnapshotStore, retention int) *CategorySnapshotHandler {
	if retention < 1 {
		retention = 1
	}
	return &CategorySnapshotHandler{
		service:   svc,
		store:     store,
		retention: retention,
		now:       time.Now,
	}
}

func (h *CategorySnapshotHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.SnapshotPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	scope, err := model.ParseTreeScope(string(payload.Scope))
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	// ========== STEP 1: Export ==========
	var buf bytes.Buffer
	if err := h.service.ExportTree(ctx, scope, &buf); err != nil {
		log.Error().Err(err).Str("scope", string(scope)).Msg("Failed to export category snapshot")
		return fmt.Errorf("export tree: %w", err)
	}

	// ========== STEP 2: Upload ==========
	prefix := model.SnapshotPrefix(scope)
	key := fmt.Sprintf("%scategories_%s.xlsx", prefix, h.now().UTC().Format("20060102_150405"))

	location, err := h.store.Upload(ctx, key, buf.Bytes(), snapshotContentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload category snapshot")
		return fmt.Errorf("upload snapshot: %w", err)
	}

	// ========== STEP 3: Retention ==========
	// Lỗi dọn dẹp không làm fail task: snapshot mới đã lưu xong
	pruned, err := h.prune(ctx, prefix)
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to prune old category snapshots")
	}

	log.Info().
		Str("scope", string(scope)).
		Str("location", location).
		Int("bytes", buf.Len()).
		Int("pruned", pruned).
		Msg("Category snapshot stored")

	return nil
}

func (h *CategorySnapshotHandler) prune(ctx context.Context, prefix string) (int, error) {
	objects, err := h.store.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(objects) <= h.retention {
		return 0, nil
	}

	// List trả về cũ nhất trước
	stale := objects[:len(objects)-h.retention]
	keys := make([]string, 0, len(stale))
	for _, o := range stale {
		keys = append(keys, o.Key)
	}

	if err := h.store.RemoveObjects(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}
