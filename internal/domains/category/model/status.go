package model

import "strings"

// Status là trạng thái vòng đời của một category
//
// ACTIVE   → hiển thị cho khách
// INACTIVE → ẩn tạm thời, có thể bật lại
// DELETED  → xóa logic, trạng thái cuối (terminal)
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

// AllStatuses theo thứ tự khai báo
var AllStatuses = []Status{StatusActive, StatusInactive, StatusDeleted}

// LiveStatuses là các trạng thái chưa bị xóa
var LiveStatuses = []Status{StatusActive, StatusInactive}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo kiểm tra chuyển trạng thái s → target có hợp lệ không.
// DELETED chỉ được "chuyển" sang chính nó (thao tác idempotent).
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() {
		return false
	}

	switch s {
	case StatusDeleted:
		return target == StatusDeleted
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

// ParseStatus parse không phân biệt hoa thường: "active", " Inactive " ...
func ParseStatus(raw string) (Status, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", NewInvalidStatus(raw)
	}

	status := Status(value)
	if !status.IsValid() {
		return "", NewInvalidStatus(raw)
	}

	return status, nil
}
