package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind phân loại lỗi để caller pattern-match thay vì so sánh message
type ErrorKind string

const (
	// Input sai hình thức: tên rỗng, độ dài sai, id <= 0
	KindValidation ErrorKind = "VALIDATION"
	// Không tìm thấy category / parent
	KindNotFound ErrorKind = "NOT_FOUND"
	// Vi phạm luật nghiệp vụ: trùng tên, vòng lặp, vượt độ sâu...
	KindRuleViolation ErrorKind = "RULE_VIOLATION"
	// Lỗi DB/network, được trả nguyên vẹn từ repository
	KindInfrastructure ErrorKind = "INFRASTRUCTURE"
)

// CategoryError là base error cho category domain
type CategoryError struct {
	Kind    ErrorKind
	Code    string // VD: "CIRCULAR_REFERENCE"
	Message string
	Err     error
}

func (e *CategoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Is so sánh theo Code, nên errors.Is(err, ErrCircularReference) đúng
// cả với error tạo từ factory có message chi tiết hơn
func (e *CategoryError) Is(target error) bool {
	var t *CategoryError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidID          = "INVALID_ID"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeParentNotFound     = "PARENT_NOT_FOUND"
	CodeParentNotActive    = "PARENT_NOT_ACTIVE"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeCategoryDeleted    = "CATEGORY_DELETED"
	CodeSelfParent         = "SELF_PARENT"
	CodeCircularReference  = "CIRCULAR_REFERENCE"
	CodeDepthLimitExceeded = "DEPTH_LIMIT_EXCEEDED"
	CodeIDAlreadyAssigned  = "ID_ALREADY_ASSIGNED"
)

// ============================================
// SENTINELS (dùng với errors.Is)
// ============================================

var (
	ErrInvalidName        = &CategoryError{Kind: KindValidation, Code: CodeInvalidName, Message: "Category name is invalid"}
	ErrInvalidID          = &CategoryError{Kind: KindValidation, Code: CodeInvalidID, Message: "Category ID must be positive"}
	ErrInvalidStatus      = &CategoryError{Kind: KindValidation, Code: CodeInvalidStatus, Message: "Category status is invalid"}
	ErrInvalidArgument    = &CategoryError{Kind: KindValidation, Code: CodeInvalidArgument, Message: "Invalid argument"}
	ErrCategoryNotFound   = &CategoryError{Kind: KindNotFound, Code: CodeCategoryNotFound, Message: "Category not found"}
	ErrParentNotFound     = &CategoryError{Kind: KindNotFound, Code: CodeParentNotFound, Message: "Parent category not found"}
	ErrParentNotActive    = &CategoryError{Kind: KindRuleViolation, Code: CodeParentNotActive, Message: "Category can only be created under an 'ACTIVE' parent"}
	ErrDuplicateName      = &CategoryError{Kind: KindRuleViolation, Code: CodeDuplicateName, Message: "Category name already exists"}
	ErrInvalidTransition  = &CategoryError{Kind: KindRuleViolation, Code: CodeInvalidTransition, Message: "Invalid status transition"}
	ErrCategoryDeleted    = &CategoryError{Kind: KindRuleViolation, Code: CodeCategoryDeleted, Message: "Cannot modify a deleted category"}
	ErrSelfParent         = &CategoryError{Kind: KindRuleViolation, Code: CodeSelfParent, Message: "Category cannot be its own parent"}
	ErrCircularReference  = &CategoryError{Kind: KindRuleViolation, Code: CodeCircularReference, Message: "Circular reference detected"}
	ErrDepthLimitExceeded = &CategoryError{Kind: KindRuleViolation, Code: CodeDepthLimitExceeded, Message: "Category depth limit exceeded"}
	ErrIDAlreadyAssigned  = &CategoryError{Kind: KindRuleViolation, Code: CodeIDAlreadyAssigned, Message: "Category ID is already assigned"}
)

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewInvalidName(name string, reason string) *CategoryError {
	return &CategoryError{
		Kind:    KindValidation,
		Code:    CodeInvalidName,
		Message: fmt.Sprintf("Category name %q is invalid: %s", name, reason),
	}
}

func NewInvalidID(id int64) *CategoryError {
	return &CategoryError{
		Kind:    KindValidation,
		Code:    CodeInvalidID,
		Message: fmt.Sprintf("Category ID must be positive (got %d)", id),
	}
}

func NewInvalidStatus(raw string) *CategoryError {
	return &CategoryError{
		Kind:    KindValidation,
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("Invalid category status: %q", raw),
	}
}

func NewInvalidArgument(message string) *CategoryError {
	return &CategoryError{
		Kind:    KindValidation,
		Code:    CodeInvalidArgument,
		Message: message,
	}
}

func NewCategoryNotFound(id CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindNotFound,
		Code:    CodeCategoryNotFound,
		Message: fmt.Sprintf("Category %d not found", id),
	}
}

func NewParentNotFound(parentID CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindNotFound,
		Code:    CodeParentNotFound,
		Message: fmt.Sprintf("Parent category %d not found", parentID),
	}
}

func NewParentNotActive(parentID CategoryID, status Status) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeParentNotActive,
		Message: fmt.Sprintf("Category can only be created under an 'ACTIVE' parent (parent %d is %s)", parentID, status),
	}
}

func NewDuplicateName(name string) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeDuplicateName,
		Message: fmt.Sprintf("Category with name %q already exists", name),
	}
}

func NewInvalidTransition(from, to Status) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Cannot change category status from %s to %s", from, to),
	}
}

func NewCategoryDeleted(id CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeCategoryDeleted,
		Message: fmt.Sprintf("Cannot change status of deleted category %d", id),
	}
}

// NewCategoryImmutable: mọi thay đổi tên/parent trên category đã DELETED
func NewCategoryImmutable(id CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeCategoryDeleted,
		Message: fmt.Sprintf("Category %d is deleted and cannot be modified", id),
	}
}

func NewSelfParent(id CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeSelfParent,
		Message: fmt.Sprintf("Category %d cannot be its own parent", id),
	}
}

func NewCircularReference(id, newParentID CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeCircularReference,
		Message: fmt.Sprintf("Circular reference detected: %d is a descendant of %d", newParentID, id),
	}
}

func NewDepthLimitExceeded(depth, limit int) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeDepthLimitExceeded,
		Message: fmt.Sprintf("Category depth limit exceeded: depth %d, max %d", depth, limit),
	}
}

func NewIDAlreadyAssigned(current CategoryID) *CategoryError {
	return &CategoryError{
		Kind:    KindRuleViolation,
		Code:    CodeIDAlreadyAssigned,
		Message: fmt.Sprintf("Category ID is already assigned (%d)", current),
	}
}

// ============================================
// HELPERS
// ============================================

// KindOf trả về KindInfrastructure cho mọi error không thuộc domain
func KindOf(err error) ErrorKind {
	var ce *CategoryError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInfrastructure
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsDomainError: validation, not-found và rule violation đều là lỗi domain
func IsDomainError(err error) bool {
	return err != nil && KindOf(err) != KindInfrastructure
}

// HTTPStatus map error → HTTP status code cho handler layer
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var ce *CategoryError
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError
	}

	switch ce.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		// Parent không tồn tại là lỗi input của request, không phải resource chính
		if ce.Code == CodeParentNotFound {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	case KindRuleViolation:
		if ce.Code == CodeDuplicateName {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
