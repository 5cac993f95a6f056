package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

const (
	NameMinLength = 2
	NameMaxLength = 50
)

// CategoryID là identity của category, luôn dương khi đã persist.
// Giá trị 0 nghĩa là category chưa được lưu (transient).
type CategoryID int64

func (id CategoryID) Int64() int64 {
	return int64(id)
}

// IDPtr tiện cho test và handler: IDPtr(3) → *CategoryID
func IDPtr(id CategoryID) *CategoryID {
	return &id
}

// ============================================================
// ENTITY: Category
// ============================================================
// Node của cây category (forest: nhiều root, parentID == nil là root).
//
// Fields để unexported: mọi thay đổi phải đi qua method để giữ invariants:
//  1. name không rỗng, 2–50 ký tự
//  2. parentID != id
//  3. không có vòng lặp (domain service kiểm tra, cần repository)
//  4. DELETED là trạng thái cuối, không sửa gì được nữa
//  5. tạo mới luôn ở trạng thái ACTIVE
type Category struct {
	id        CategoryID
	name      string
	slug      string
	parentID  *CategoryID
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewCategory tạo category mới (business creation) ở trạng thái ACTIVE
func NewCategory(name string, parentID *CategoryID) (*Category, error) {
	return NewCategoryWithStatus(name, parentID, StatusActive)
}

// NewCategoryWithStatus chỉ chấp nhận ACTIVE; tham số status tồn tại để
// request mang status khác bị từ chối rõ ràng thay vì bị bỏ qua
func NewCategoryWithStatus(name string, parentID *CategoryID, status Status) (*Category, error) {
	cleaned, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if parentID != nil && *parentID <= 0 {
		return nil, NewInvalidID(int64(*parentID))
	}

	if status != StatusActive {
		return nil, NewInvalidArgument(fmt.Sprintf("new category must be created with status ACTIVE (got %q)", status))
	}

	now := time.Now()
	return &Category{
		name:      cleaned,
		slug:      slug.Make(cleaned),
		parentID:  copyID(parentID),
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Rehydrate dựng lại entity từ dữ liệu đã lưu.
// KHÔNG validate: state trong DB đã hợp lệ tại thời điểm được lưu.
// Chỉ repository được gọi hàm này.
func Rehydrate(
	id CategoryID,
	name string,
	parentID *CategoryID,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) *Category {
	return &Category{
		id:        id,
		name:      name,
		slug:      slug.Make(name),
		parentID:  copyID(parentID),
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ============================================================
// ACCESSORS
// ============================================================

func (c *Category) ID() CategoryID       { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Slug() string         { return c.slug }
func (c *Category) Status() Status       { return c.status }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

// ParentID trả về bản copy để caller không sửa được state bên trong
func (c *Category) ParentID() *CategoryID {
	return copyID(c.parentID)
}

func (c *Category) HasID() bool     { return c.id > 0 }
func (c *Category) IsRoot() bool    { return c.parentID == nil }
func (c *Category) IsActive() bool  { return c.status == StatusActive }
func (c *Category) IsDeleted() bool { return c.status == StatusDeleted }

// ============================================================
// BEHAVIOR
// ============================================================

func (c *Category) ChangeName(newName string) error {
	if c.IsDeleted() {
		return NewCategoryImmutable(c.id)
	}

	cleaned, err := validateName(newName)
	if err != nil {
		return err
	}

	c.name = cleaned
	c.slug = slug.Make(cleaned)
	c.touch()
	return nil
}

// ChangeParent chỉ kiểm tra self-parenting.
// Cycle và depth cần repository → CategoryDomainService.ValidateParentChangeRules.
func (c *Category) ChangeParent(newParentID *CategoryID) error {
	if c.IsDeleted() {
		return NewCategoryImmutable(c.id)
	}

	if newParentID != nil {
		if *newParentID <= 0 {
			return NewInvalidID(int64(*newParentID))
		}
		if c.HasID() && *newParentID == c.id {
			return NewSelfParent(c.id)
		}
	}

	c.parentID = copyID(newParentID)
	c.touch()
	return nil
}

func (c *Category) ChangeStatus(newStatus Status) error {
	if c.IsDeleted() {
		return NewCategoryDeleted(c.id)
	}

	if !c.status.CanTransitionTo(newStatus) {
		return NewInvalidTransition(c.status, newStatus)
	}

	c.status = newStatus
	c.touch()
	return nil
}

// MarkAsDeleted idempotent: gọi lần 2 không đổi gì (kể cả updatedAt)
func (c *Category) MarkAsDeleted() {
	if c.IsDeleted() {
		return
	}
	c.status = StatusDeleted
	c.touch()
}

// AssignID gọi đúng 1 lần, sau khi repository insert thành công
func (c *Category) AssignID(value CategoryID) error {
	if value <= 0 {
		return NewInvalidID(int64(value))
	}
	if c.HasID() {
		return NewIDAlreadyAssigned(c.id)
	}
	if c.parentID != nil && *c.parentID == value {
		return NewSelfParent(value)
	}

	c.id = value
	return nil
}

func (c *Category) String() string {
	parent := "nil"
	if c.parentID != nil {
		parent = fmt.Sprintf("%d", *c.parentID)
	}
	return fmt.Sprintf("Category{ID: %d, Name: %s, ParentID: %s, Status: %s}", c.id, c.name, parent, c.status)
}

// ============================================================
// HELPERS
// ============================================================

func (c *Category) touch() {
	c.updatedAt = time.Now()
}

func validateName(name string) (string, error) {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return "", NewInvalidName(name, "must not be blank")
	}

	length := utf8.RuneCountInString(cleaned)
	if length < NameMinLength || length > NameMaxLength {
		return "", NewInvalidName(name, fmt.Sprintf("length must be between %d and %d characters (got %d)", NameMinLength, NameMaxLength, length))
	}

	return cleaned, nil
}

func copyID(id *CategoryID) *CategoryID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// IDs lấy danh sách id theo đúng thứ tự
func IDs(categories []*Category) []CategoryID {
	ids := make([]CategoryID, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID())
	}
	return ids
}
