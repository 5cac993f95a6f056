package model

import "time"

// FlatCategory là 1 row của bảng categories phục vụ read side.
// Mỗi row chỉ biết parent trực tiếp của nó (adjacency list).
type FlatCategory struct {
	ID        CategoryID
	Name      string
	Slug      string
	ParentID  *CategoryID
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryView là projection read-only dạng cây, dựng lại mỗi lần query
type CategoryView struct {
	ID       CategoryID      `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	ParentID *CategoryID     `json:"parent_id"`
	Status   Status          `json:"status"`
	Children []*CategoryView `json:"children"`
}

// FlatViewRow là 1 node sau khi duyệt cây pre-order (dùng cho export)
type FlatViewRow struct {
	ID       CategoryID
	Name     string
	Slug     string
	ParentID *CategoryID
	Status   Status
	Depth    int    // root = 1
	FullPath string // "Sách > Tiểu thuyết > Trinh thám"
}

// TreeScope là phạm vi dữ liệu của read side
type TreeScope string

const (
	ScopeActive   TreeScope = "active"   // public: chỉ ACTIVE
	ScopeInactive TreeScope = "inactive" // admin: chỉ INACTIVE
	ScopeLive     TreeScope = "live"     // admin: ACTIVE + INACTIVE
	ScopeAll      TreeScope = "all"      // admin: cả DELETED
)

// ParseTreeScope: chuỗi rỗng → ScopeActive
func ParseTreeScope(raw string) (TreeScope, error) {
	switch TreeScope(raw) {
	case "":
		return ScopeActive, nil
	case ScopeActive, ScopeInactive, ScopeLive, ScopeAll:
		return TreeScope(raw), nil
	}
	return "", NewInvalidArgument("invalid tree scope: " + raw)
}

// Statuses trả về filter status của scope; chỉ ScopeAll trả nil (không filter).
// Scope rỗng hoặc lạ được coi là ScopeActive, khớp với ParseTreeScope.
func (s TreeScope) Statuses() []Status {
	switch s {
	case ScopeInactive:
		return []Status{StatusInactive}
	case ScopeLive:
		return LiveStatuses
	case ScopeAll:
		return nil
	default:
		return []Status{StatusActive}
	}
}

func ToFlatCategory(c *Category) FlatCategory {
	return FlatCategory{
		ID:        c.ID(),
		Name:      c.Name(),
		Slug:      c.Slug(),
		ParentID:  c.ParentID(),
		Status:    c.Status(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
