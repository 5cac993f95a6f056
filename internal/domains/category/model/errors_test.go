package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryError_IsMatchesByCode(t *testing.T) {
	err := NewCircularReference(1, 3)

	assert.True(t, errors.Is(err, ErrCircularReference))
	assert.False(t, errors.Is(err, ErrSelfParent))

	wrapped := fmt.Errorf("tx failed: %w", err)
	assert.True(t, errors.Is(wrapped, ErrCircularReference))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewInvalidName("", "blank")))
	assert.Equal(t, KindNotFound, KindOf(NewCategoryNotFound(1)))
	assert.Equal(t, KindRuleViolation, KindOf(NewDuplicateName("Books")))
	assert.Equal(t, KindInfrastructure, KindOf(errors.New("connection reset")))

	assert.True(t, IsNotFound(NewParentNotFound(2)))
	assert.True(t, IsValidation(NewInvalidID(0)))
	assert.False(t, IsDomainError(nil))
	assert.False(t, IsDomainError(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewInvalidName("x", "too short"), http.StatusBadRequest},
		{"not found", NewCategoryNotFound(1), http.StatusNotFound},
		{"parent not found", NewParentNotFound(1), http.StatusBadRequest},
		{"duplicate", NewDuplicateName("Books"), http.StatusConflict},
		{"circular", NewCircularReference(1, 2), http.StatusUnprocessableEntity},
		{"depth", NewDepthLimitExceeded(4, 3), http.StatusUnprocessableEntity},
		{"infrastructure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCategoryError_Error(t *testing.T) {
	err := &CategoryError{Code: CodeCategoryNotFound, Message: "Category 1 not found", Err: errors.New("no rows")}
	assert.Equal(t, "[CATEGORY_NOT_FOUND] Category 1 not found: no rows", err.Error())
	assert.Equal(t, "[SELF_PARENT] Category 2 cannot be its own parent", NewSelfParent(2).Error())
}
