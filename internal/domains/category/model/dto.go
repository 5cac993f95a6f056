package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============================================================
// REQUEST DTOs
// ============================================================

// CreateCategoryReq: POST /v1/admin/categories
//
//	Body: {"name": "Tiểu Thuyết", "parent_id": 12}
type CreateCategoryReq struct {
	Name     string      `json:"name"`
	ParentID *CategoryID `json:"parent_id"`
	// Status optional; nếu có thì bắt buộc là ACTIVE
	Status string `json:"status"`
}

func (r CreateCategoryReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(NameMinLength, NameMaxLength).Error("name must be 2-50 characters"),
		),
		validation.Field(&r.ParentID,
			validation.NilOrNotEmpty.Error("parent_id must be positive"),
			validation.Min(CategoryID(1)).Error("parent_id must be positive"),
		),
	)
}

// UpdateCategoryReq: PUT /v1/admin/categories/{id}
//
// Partial update: nil = không đổi.
// Chuyển về root: {"move_to_root": true} (vì parent_id null không phân biệt được với "không gửi").
type UpdateCategoryReq struct {
	Name       *string     `json:"name"`
	ParentID   *CategoryID `json:"parent_id"`
	MoveToRoot bool        `json:"move_to_root"`
}

func (r UpdateCategoryReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("name must not be empty"),
			validation.RuneLength(NameMinLength, NameMaxLength).Error("name must be 2-50 characters"),
		),
		validation.Field(&r.ParentID,
			validation.NilOrNotEmpty.Error("parent_id must be positive"),
			validation.Min(CategoryID(1)).Error("parent_id must be positive"),
			validation.When(r.MoveToRoot, validation.Nil.Error("parent_id and move_to_root are mutually exclusive")),
		),
	)
}

// ChangesParent: request có yêu cầu đổi parent không
func (r UpdateCategoryReq) ChangesParent() bool {
	return r.MoveToRoot || r.ParentID != nil
}

// ChangeStatusReq: PATCH /v1/admin/categories/{id}/status
type ChangeStatusReq struct {
	Status string `json:"status"`
}

func (r ChangeStatusReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("status is required")),
	)
}

// ============================================================
// RESPONSE DTOs
// ============================================================

type CategoryResp struct {
	ID        CategoryID  `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	ParentID  *CategoryID `json:"parent_id"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type BreadcrumbItem struct {
	ID     CategoryID `json:"id"`
	Name   string     `json:"name"`
	Slug   string     `json:"slug"`
	Status Status     `json:"status"`
}

type CategoryBreadcrumbResp struct {
	Items       []BreadcrumbItem `json:"items"`
	CurrentPath string           `json:"current_path"`
}

type StatusChangeResp struct {
	Status      Status       `json:"status"`
	AffectedIDs []CategoryID `json:"affected_ids"`
}

type DeleteResp struct {
	DeletedIDs []CategoryID `json:"deleted_ids"`
}

func CategoryToResp(c *Category) *CategoryResp {
	if c == nil {
		return nil
	}

	return &CategoryResp{
		ID:        c.ID(),
		Name:      c.Name(),
		Slug:      c.Slug(),
		ParentID:  c.ParentID(),
		Status:    c.Status(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
