package job

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/service"
	"catalog-backend/pkg/cache"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// CategoryEventHandler xử lý mọi category:* event: xóa cached tree và ghi audit log
type CategoryEventHandler struct {
	cache cache.Cache
}

func NewCategoryEventHandler(c cache.Cache) *CategoryEventHandler {
	return &CategoryEventHandler{cache: c}
}

// EventTypes là các task type handler đăng ký với ServeMux
func EventTypes() []string {
	return []string{
		model.TypeCategoryCreated,
		model.TypeCategoryUpdated,
		model.TypeCategoryStatusChanged,
		model.TypeCategoryDeleted,
	}
}

func (h *CategoryEventHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var event model.CategoryEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		log.Error().Err(err).Str("type", task.Type()).Msg("Failed to unmarshal category event payload")
		// Payload sai format thì retry cũng vô ích
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if event.Type == "" {
		event.Type = task.Type()
	}

	if h.cache != nil {
		if err := h.cache.DeletePattern(ctx, service.TreeCachePattern); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.EventID).
				Msg("Failed to invalidate category tree cache")
			return fmt.Errorf("invalidate cache: %w", err)
		}
	}

	log.Info().
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Str("status", event.Status.String()).
		Interface("category_ids", event.CategoryIDs).
		Time("occurred_at", event.OccurredAt).
		Msg("Category event processed")

	return nil
}
