//go:build integration

// Chạy với Docker: go test -tags=integration ./internal/domains/category/repository/...
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/infrastructure/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// testPool dùng chung cho cả package, container tạo 1 lần trong TestMain
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("secret"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
			return 1
		}

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect: %v\n", err)
			return 1
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			return 1
		}

		testPool = pool
		return m.Run()
	}()

	if err := testcontainers.TerminateContainer(ctr); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

// abcTree dựng A(ACTIVE) > B(ACTIVE) > C(INACTIVE) trên bảng trống
type abcTree struct {
	A, B, C model.CategoryID
}

func resetAndSeed(t *testing.T) (CategoryRepository, abcTree) {
	t.Helper()
	ctx := context.Background()

	_, err := testPool.Exec(ctx, `TRUNCATE categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	repo := NewPostgresRepository(testPool)
	save := func(name string, parent *model.CategoryID) model.CategoryID {
		c, err := model.NewCategory(name, parent)
		require.NoError(t, err)
		saved, err := repo.Save(ctx, c)
		require.NoError(t, err)
		return saved.ID()
	}

	var tree abcTree
	tree.A = save("Books", nil)
	tree.B = save("Fiction", model.IDPtr(tree.A))
	tree.C = save("Crime", model.IDPtr(tree.B))

	n, err := repo.UpdateStatusForIDs(ctx, model.StatusInactive, []model.CategoryID{tree.C})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	return repo, tree
}

func TestPostgres_GetDepth(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	for id, want := range map[model.CategoryID]int{tree.A: 1, tree.B: 2, tree.C: 3, 999: 0} {
		depth, err := repo.GetDepth(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, depth, "category %d", id)
	}
}

func TestPostgres_FindAllAncestorsByID(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	chain, err := repo.FindAllAncestorsByID(ctx, tree.C)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryID{tree.A, tree.B, tree.C}, model.IDs(chain), "root-first")

	chain, err = repo.FindAllAncestorsByID(ctx, tree.A)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryID{tree.A}, model.IDs(chain))

	chain, err = repo.FindAllAncestorsByID(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestPostgres_FindSubtreeByIDAndStatusIn(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	t.Run("traversal stops at filtered nodes", func(t *testing.T) {
		nodes, err := repo.FindSubtreeByIDAndStatusIn(ctx, tree.A, []model.Status{model.StatusActive})
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{tree.A, tree.B}, model.IDs(nodes))
	})

	t.Run("root must match the filter", func(t *testing.T) {
		nodes, err := repo.FindSubtreeByIDAndStatusIn(ctx, tree.C, []model.Status{model.StatusActive})
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("live statuses", func(t *testing.T) {
		nodes, err := repo.FindSubtreeByIDAndStatusIn(ctx, tree.A, model.LiveStatuses)
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryID{tree.A, tree.B, tree.C}, model.IDs(nodes))
		assert.Equal(t, model.StatusInactive, nodes[2].Status())
	})
}

func TestPostgres_UpdateStatusForIDs(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	n, err := repo.UpdateStatusForIDs(ctx, model.StatusInactive, []model.CategoryID{tree.A, tree.B, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := repo.FindAllByID(ctx, []model.CategoryID{tree.A, tree.B, tree.C})
	require.NoError(t, err)
	for _, c := range rows {
		assert.Equal(t, model.StatusInactive, c.Status(), c.String())
	}

	n, err = repo.UpdateStatusForIDs(ctx, model.StatusActive, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgres_SaveConstraints(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	t.Run("name unique ignoring case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "BOOKS")
		require.NoError(t, err)
		assert.True(t, exists)

		dup, err := model.NewCategory("BOOKS", nil)
		require.NoError(t, err)
		_, err = repo.Save(ctx, dup)
		assert.True(t, errors.Is(err, model.ErrDuplicateName))
	})

	t.Run("missing parent", func(t *testing.T) {
		orphan, err := model.NewCategory("Orphan", model.IDPtr(999))
		require.NoError(t, err)
		_, err = repo.Save(ctx, orphan)
		assert.True(t, errors.Is(err, model.ErrParentNotFound))
	})

	t.Run("deleted name is reusable", func(t *testing.T) {
		fiction, err := repo.FindByID(ctx, tree.B)
		require.NoError(t, err)
		require.NotNil(t, fiction)
		fiction.MarkAsDeleted()
		_, err = repo.Save(ctx, fiction)
		require.NoError(t, err)

		exists, err := repo.ExistsByName(ctx, "fiction")
		require.NoError(t, err)
		assert.False(t, exists)

		again, err := model.NewCategory("fiction", model.IDPtr(tree.A))
		require.NoError(t, err)
		_, err = repo.Save(ctx, again)
		assert.NoError(t, err)
	})
}

func TestPostgres_TraversalGuardOnCorruptCycle(t *testing.T) {
	ctx := context.Background()
	repo, tree := resetAndSeed(t)

	// A → C tạo vòng A > B > C > A, chỉ có thể xảy ra khi ghi thẳng vào DB
	_, err := testPool.Exec(ctx, `UPDATE categories SET parent_id = $1 WHERE id = $2`, int64(tree.C), int64(tree.A))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	depth, err := repo.GetDepth(ctx, tree.C)
	require.NoError(t, err)
	assert.Equal(t, maxTraversalDepth, depth)

	nodes, err := repo.FindSubtreeByIDAndStatusIn(ctx, tree.A, model.LiveStatuses)
	require.NoError(t, err)
	assert.Len(t, nodes, maxTraversalDepth)

	chain, err := repo.FindAllAncestorsByID(ctx, tree.A)
	require.NoError(t, err)
	assert.Len(t, chain, maxTraversalDepth+1)
}

func TestPostgres_QueryRepositoryAndTx(t *testing.T) {
	ctx := context.Background()
	_, tree := resetAndSeed(t)

	query := NewPostgresQueryRepository(testPool)

	active, err := query.FindFlat(ctx, model.ScopeActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := query.FindFlat(ctx, model.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	runner := NewTxRunner(testPool, 5*time.Second)
	boom := errors.New("boom")
	err = runner.RunInTx(ctx, func(repo CategoryRepository) error {
		c, err := model.NewCategory("Poetry", model.IDPtr(tree.A))
		if err != nil {
			return err
		}
		if _, err := repo.Save(ctx, c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := NewPostgresRepository(testPool).ExistsByName(ctx, "Poetry")
	require.NoError(t, err)
	assert.False(t, exists, "rolled back")
}
