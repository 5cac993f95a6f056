package model

import (
	"time"

	"github.com/google/uuid"
)

// Task types cho asynq (queue = "default")
const (
	TypeCategoryCreated       = "category:created"
	TypeCategoryUpdated       = "category:updated"
	TypeCategoryStatusChanged = "category:status_changed"
	TypeCategoryDeleted       = "category:deleted"

	// Task định kỳ do scheduler enqueue (queue = "low")
	TypeCategorySnapshot = "category:export_snapshot"
)

// CategoryEvent được publish SAU KHI transaction commit thành công
type CategoryEvent struct {
	EventID     string       `json:"event_id"`
	Type        string       `json:"type"`
	CategoryIDs []CategoryID `json:"category_ids"`
	Status      Status       `json:"status,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

func NewCategoryEvent(eventType string, ids []CategoryID, status Status) CategoryEvent {
	return CategoryEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		CategoryIDs: ids,
		Status:      status,
		OccurredAt:  time.Now().UTC(),
	}
}

// SnapshotPayload của task TypeCategorySnapshot
type SnapshotPayload struct {
	Scope TreeScope `json:"scope"`
}

// SnapshotPrefix là thư mục chứa snapshot của scope trong bucket
func SnapshotPrefix(scope TreeScope) string {
	return "category-snapshots/" + string(scope) + "/"
}
