package service

import (
	"context"
	"errors"
	"testing"

	"catalog-backend/internal/domains/category/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Books(1) > Fiction(2) > Crime(3)
//
//	> Poetry(4)
//
// Music(5)
func seedTree() *memoryRepository {
	repo := newMemoryRepository()
	repo.add(1, "Books", nil, model.StatusActive)
	repo.add(2, "Fiction", model.IDPtr(1), model.StatusActive)
	repo.add(3, "Crime", model.IDPtr(2), model.StatusActive)
	repo.add(4, "Poetry", model.IDPtr(1), model.StatusActive)
	repo.add(5, "Music", nil, model.StatusActive)
	return repo
}

func TestDomain_IsCategoryNameUnique(t *testing.T) {
	ctx := context.Background()
	repo := seedTree()
	repo.add(6, "Archived", nil, model.StatusDeleted)
	svc := NewCategoryDomainService(repo)

	unique, err := svc.IsCategoryNameUnique(ctx, "books")
	require.NoError(t, err)
	assert.False(t, unique, "name check is case-insensitive")

	unique, err = svc.IsCategoryNameUnique(ctx, "Archived")
	require.NoError(t, err)
	assert.True(t, unique, "deleted categories release their name")

	unique, err = svc.IsCategoryNameUniqueForUpdate(ctx, "Books", 1)
	require.NoError(t, err)
	assert.True(t, unique, "renaming to own name is allowed")

	unique, err = svc.IsCategoryNameUniqueForUpdate(ctx, "Books", 2)
	require.NoError(t, err)
	assert.False(t, unique)
}

func TestDomain_ValidateParentCategory(t *testing.T) {
	ctx := context.Background()
	repo := seedTree()
	repo.add(6, "Hidden", nil, model.StatusInactive)
	svc := NewCategoryDomainService(repo)

	parent, err := svc.ValidateParentCategory(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, parent)

	parent, err = svc.ValidateParentCategory(ctx, model.IDPtr(1))
	require.NoError(t, err)
	assert.Equal(t, "Books", parent.Name())

	_, err = svc.ValidateParentCategory(ctx, model.IDPtr(99))
	assert.True(t, errors.Is(err, model.ErrParentNotFound))

	_, err = svc.ValidateParentCategory(ctx, model.IDPtr(6))
	assert.True(t, errors.Is(err, model.ErrParentNotActive))
}

func TestDomain_IsParentDepthLessThanLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryDomainService(seedTree())

	ok, err := svc.IsParentDepthLessThanLimit(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsParentDepthLessThanLimit(ctx, model.IDPtr(2))
	require.NoError(t, err)
	assert.True(t, ok, "child of depth-2 node lands at depth 3")

	ok, err = svc.IsParentDepthLessThanLimit(ctx, model.IDPtr(3))
	require.NoError(t, err)
	assert.False(t, ok, "child of depth-3 node would be depth 4")

	deep := NewCategoryDomainService(seedTree(), WithMaxDepth(4))
	ok, err = deep.IsParentDepthLessThanLimit(ctx, model.IDPtr(3))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDomain_ValidateParentChangeRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        model.CategoryID
		newParent *model.CategoryID
		wantErr   error
	}{
		{name: "move to root", id: 2, newParent: nil},
		{name: "move leaf under sibling", id: 4, newParent: model.IDPtr(2)},
		{name: "missing parent", id: 2, newParent: model.IDPtr(99), wantErr: model.ErrParentNotFound},
		{name: "self parent", id: 2, newParent: model.IDPtr(2), wantErr: model.ErrSelfParent},
		{name: "under own child", id: 1, newParent: model.IDPtr(2), wantErr: model.ErrCircularReference},
		{name: "under own grandchild", id: 1, newParent: model.IDPtr(3), wantErr: model.ErrCircularReference},
		{name: "subtree too tall", id: 2, newParent: model.IDPtr(4), wantErr: model.ErrDepthLimitExceeded},
		{name: "subtree fits under root", id: 2, newParent: model.IDPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCategoryDomainService(seedTree())
			err := svc.ValidateParentChangeRules(ctx, tt.id, tt.newParent)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDomain_ValidateParentChangeRules_DeletedParent(t *testing.T) {
	repo := seedTree()
	repo.add(6, "Gone", nil, model.StatusDeleted)
	svc := NewCategoryDomainService(repo)

	err := svc.ValidateParentChangeRules(context.Background(), 2, model.IDPtr(6))
	assert.True(t, errors.Is(err, model.ErrParentNotFound))
}

func TestDomain_ValidateParentChangeRules_DeletedDescendantsDoNotCountForDepth(t *testing.T) {
	repo := seedTree()
	repo.add(6, "Old Crime", model.IDPtr(3), model.StatusDeleted)
	svc := NewCategoryDomainService(repo)

	// Fiction(2) có chiều cao 2 nếu bỏ qua node DELETED → dưới Music(5) thành depth 3
	err := svc.ValidateParentChangeRules(context.Background(), 2, model.IDPtr(5))
	assert.NoError(t, err)
}

func TestDomain_ValidateStatusChangeRules(t *testing.T) {
	repo := seedTree()
	svc := NewCategoryDomainService(repo)
	ctx := context.Background()

	active, _ := repo.FindAllByID(ctx, []model.CategoryID{1, 2})
	assert.NoError(t, svc.ValidateStatusChangeRules(active, model.StatusInactive))
	assert.NoError(t, svc.ValidateStatusChangeRules(active, model.StatusActive), "already at target is skipped")
	assert.NoError(t, svc.ValidateStatusChangeRules(active, ""), "empty status is a no-op")

	err := svc.ValidateStatusChangeRules(active, model.Status("ARCHIVED"))
	assert.True(t, errors.Is(err, model.ErrInvalidStatus))

	repo.add(6, "Gone", nil, model.StatusDeleted)
	withDeleted, _ := repo.FindAllByID(ctx, []model.CategoryID{1, 6})

	err = svc.ValidateStatusChangeRules(withDeleted, model.StatusActive)
	assert.True(t, errors.Is(err, model.ErrCategoryDeleted))

	err = svc.ValidateStatusChangeRules(withDeleted, model.StatusDeleted)
	assert.True(t, errors.Is(err, model.ErrCategoryDeleted))

	assert.NoError(t, svc.ValidateStatusChangeRules(nil, model.StatusActive))
}

func TestDomain_GetAffectedCategories_Inactive(t *testing.T) {
	ctx := context.Background()

	t.Run("chain A > B > C with C inactive", func(t *testing.T) {
		repo := newMemoryRepository()
		repo.add(1, "A", nil, model.StatusActive)
		repo.add(2, "B", model.IDPtr(1), model.StatusActive)
		repo.add(3, "C", model.IDPtr(2), model.StatusInactive)

		ids, err := NewCategoryDomainService(repo).GetAffectedCategories(ctx, 1, model.StatusInactive)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{1, 2}, ids)
	})

	t.Run("pre-order over the whole subtree", func(t *testing.T) {
		ids, err := NewCategoryDomainService(seedTree()).GetAffectedCategories(ctx, 1, model.StatusInactive)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{1, 2, 3, 4}, ids)
	})

	t.Run("active grandchild below inactive child is still included", func(t *testing.T) {
		repo := seedTree()
		repo.add(2, "Fiction", model.IDPtr(1), model.StatusInactive)

		ids, err := NewCategoryDomainService(repo).GetAffectedCategories(ctx, 1, model.StatusInactive)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{1, 3, 4}, ids)
	})

	t.Run("root always included even when already inactive", func(t *testing.T) {
		repo := seedTree()
		repo.add(4, "Poetry", model.IDPtr(1), model.StatusInactive)

		ids, err := NewCategoryDomainService(repo).GetAffectedCategories(ctx, 4, model.StatusInactive)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{4}, ids)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := NewCategoryDomainService(seedTree()).GetAffectedCategories(ctx, 99, model.StatusInactive)
		assert.True(t, errors.Is(err, model.ErrCategoryNotFound))
	})

	t.Run("deleted category", func(t *testing.T) {
		repo := seedTree()
		repo.add(6, "Gone", nil, model.StatusDeleted)

		_, err := NewCategoryDomainService(repo).GetAffectedCategories(ctx, 6, model.StatusInactive)
		assert.True(t, errors.Is(err, model.ErrCategoryDeleted))
		assert.False(t, errors.Is(err, model.ErrCategoryNotFound))
	})
}

func TestDomain_GetAffectedCategories_Active(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryDomainService(seedTree())

	ids, err := svc.GetAffectedCategories(ctx, 3, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryID{1, 2, 3}, ids, "ancestor chain is root-first")

	ids, err = svc.GetAffectedCategories(ctx, 5, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryID{5}, ids)

	_, err = svc.GetAffectedCategories(ctx, 99, model.StatusActive)
	assert.True(t, errors.Is(err, model.ErrCategoryNotFound))

	_, err = svc.GetAffectedCategories(ctx, 3, model.StatusDeleted)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestDomain_PrepareForDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("node with two children", func(t *testing.T) {
		repo := newMemoryRepository()
		repo.add(1, "Books", nil, model.StatusActive)
		repo.add(2, "Fiction", model.IDPtr(1), model.StatusActive)
		repo.add(3, "Poetry", model.IDPtr(1), model.StatusInactive)

		deleted, err := NewCategoryDomainService(repo).PrepareForDeletion(ctx, 1)
		require.NoError(t, err)
		require.Len(t, deleted, 3)

		assert.Equal(t, model.CategoryID(1), deleted[0].ID(), "parent comes first")
		for _, c := range deleted {
			assert.True(t, c.IsDeleted())
		}

		// Không persist: repo vẫn giữ nguyên
		assert.Equal(t, model.StatusActive, repo.status(1))
	})

	t.Run("already deleted descendants are skipped", func(t *testing.T) {
		repo := seedTree()
		repo.add(6, "Old", model.IDPtr(1), model.StatusDeleted)

		deleted, err := NewCategoryDomainService(repo).PrepareForDeletion(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{1, 2, 3, 4}, model.IDs(deleted))
	})

	t.Run("missing or deleted root", func(t *testing.T) {
		repo := seedTree()
		repo.add(6, "Old", nil, model.StatusDeleted)
		svc := NewCategoryDomainService(repo)

		_, err := svc.PrepareForDeletion(ctx, 99)
		assert.True(t, errors.Is(err, model.ErrCategoryNotFound))

		_, err = svc.PrepareForDeletion(ctx, 6)
		assert.True(t, errors.Is(err, model.ErrCategoryNotFound))
	})
}

func TestPreOrder_RootMissing(t *testing.T) {
	repo := seedTree()
	nodes, _ := repo.FindAllByID(context.Background(), []model.CategoryID{2, 3})
	assert.Nil(t, preOrder(1, nodes))
}

func TestSubtreeHeight(t *testing.T) {
	repo := seedTree()
	nodes, _ := repo.FindSubtreeByIDAndStatusIn(context.Background(), 1, model.AllStatuses)

	assert.Equal(t, 3, subtreeHeight(1, nodes))
	assert.Equal(t, 2, subtreeHeight(2, nodes))
	assert.Equal(t, 1, subtreeHeight(4, nodes))
}
