package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryReq_Validate(t *testing.T) {
	assert.NoError(t, CreateCategoryReq{Name: "Books"}.Validate())
	assert.NoError(t, CreateCategoryReq{Name: "Novels", ParentID: IDPtr(1)}.Validate())

	assert.Error(t, CreateCategoryReq{}.Validate())
	assert.Error(t, CreateCategoryReq{Name: "B"}.Validate())
	assert.Error(t, CreateCategoryReq{Name: "Books", ParentID: IDPtr(0)}.Validate())
	assert.Error(t, CreateCategoryReq{Name: "Books", ParentID: IDPtr(-4)}.Validate())
}

func TestUpdateCategoryReq_Validate(t *testing.T) {
	name := "Comics"
	empty := ""

	assert.NoError(t, UpdateCategoryReq{}.Validate())
	assert.NoError(t, UpdateCategoryReq{Name: &name}.Validate())
	assert.NoError(t, UpdateCategoryReq{MoveToRoot: true}.Validate())

	assert.Error(t, UpdateCategoryReq{Name: &empty}.Validate())
	assert.Error(t, UpdateCategoryReq{ParentID: IDPtr(2), MoveToRoot: true}.Validate())
}

func TestUpdateCategoryReq_ChangesParent(t *testing.T) {
	assert.False(t, UpdateCategoryReq{}.ChangesParent())
	assert.True(t, UpdateCategoryReq{MoveToRoot: true}.ChangesParent())
	assert.True(t, UpdateCategoryReq{ParentID: IDPtr(3)}.ChangesParent())
}

func TestCategoryToResp(t *testing.T) {
	assert.Nil(t, CategoryToResp(nil))

	now := time.Now()
	c := Rehydrate(4, "Trinh Thám", IDPtr(2), StatusInactive, now, now)

	resp := CategoryToResp(c)
	require.NotNil(t, resp)
	assert.Equal(t, CategoryID(4), resp.ID)
	assert.Equal(t, "trinh-tham", resp.Slug)
	assert.Equal(t, CategoryID(2), *resp.ParentID)
	assert.Equal(t, StatusInactive, resp.Status)
}

func TestParseTreeScope(t *testing.T) {
	scope, err := ParseTreeScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeActive, scope)

	scope, err = ParseTreeScope("all")
	require.NoError(t, err)
	assert.Nil(t, scope.Statuses())

	assert.Equal(t, []Status{StatusActive}, TreeScope("").Statuses())
	assert.Equal(t, []Status{StatusActive}, ScopeActive.Statuses())
	assert.Equal(t, LiveStatuses, ScopeLive.Statuses())
	assert.Equal(t, []Status{StatusInactive}, ScopeInactive.Statuses())

	_, err = ParseTreeScope("everything")
	assert.Error(t, err)
}
