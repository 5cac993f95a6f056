package main

import (
	categoryJob "catalog-backend/internal/domains/category/job"
	"catalog-backend/internal/domains/category/model"
	"catalog-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// HandlerRegistry giữ mọi job handler của worker
type HandlerRegistry struct {
	categoryEvents    *categoryJob.CategoryEventHandler
	categorySnapshots *categoryJob.CategorySnapshotHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		categoryEvents:    c.CategoryEventHandler,
		categorySnapshots: c.CategorySnapshotHandler,
	}
}

// RegisterHandlers: cùng 1 handler cho mọi category:* event
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	for _, taskType := range categoryJob.EventTypes() {
		mux.HandleFunc(taskType, r.categoryEvents.ProcessTask)
	}

	if r.categorySnapshots != nil {
		mux.HandleFunc(model.TypeCategorySnapshot, r.categorySnapshots.ProcessTask)
	}
}
