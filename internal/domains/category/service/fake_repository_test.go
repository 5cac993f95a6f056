package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/repository"
)

// memoryRepository là CategoryRepository in-memory cho test domain service
type memoryRepository struct {
	rows   map[model.CategoryID]*model.Category
	nextID model.CategoryID
}

var _ repository.CategoryRepository = (*memoryRepository)(nil)

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[model.CategoryID]*model.Category), nextID: 1}
}

// add lưu thẳng 1 row đã persist, không qua rule
func (r *memoryRepository) add(id model.CategoryID, name string, parent *model.CategoryID, status model.Status) {
	now := time.Now()
	r.rows[id] = model.Rehydrate(id, name, parent, status, now, now)
	if id >= r.nextID {
		r.nextID = id + 1
	}
}

// clone để test thấy đúng dữ liệu "trong DB" chứ không phải entity đã bị mutate
func clone(c *model.Category) *model.Category {
	return model.Rehydrate(c.ID(), c.Name(), c.ParentID(), c.Status(), c.CreatedAt(), c.UpdatedAt())
}

func (r *memoryRepository) sortedIDs() []model.CategoryID {
	ids := make([]model.CategoryID, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *memoryRepository) FindByID(_ context.Context, id model.CategoryID) (*model.Category, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

func (r *memoryRepository) ExistsByID(_ context.Context, id model.CategoryID) (bool, error) {
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsByNameExcluding(ctx, name, 0)
}

func (r *memoryRepository) ExistsByNameExcluding(_ context.Context, name string, excludeID model.CategoryID) (bool, error) {
	for id, c := range r.rows {
		if id == excludeID || c.IsDeleted() {
			continue
		}
		if strings.EqualFold(c.Name(), name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) FindSubtreeByIDAndStatusIn(_ context.Context, id model.CategoryID, statuses []model.Status) ([]*model.Category, error) {
	allowed := make(map[model.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	root, ok := r.rows[id]
	if !ok || !allowed[root.Status()] {
		return nil, nil
	}

	result := []*model.Category{clone(root)}
	frontier := []model.CategoryID{id}
	for len(frontier) > 0 {
		var next []model.CategoryID
		for _, childID := range r.sortedIDs() {
			c := r.rows[childID]
			p := c.ParentID()
			if p == nil || !allowed[c.Status()] {
				continue
			}
			for _, f := range frontier {
				if *p == f {
					result = append(result, clone(c))
					next = append(next, childID)
				}
			}
		}
		frontier = next
	}
	return result, nil
}

func (r *memoryRepository) FindAllAncestorsByID(_ context.Context, id model.CategoryID) ([]*model.Category, error) {
	var chain []*model.Category
	current, ok := r.rows[id]
	for ok {
		chain = append([]*model.Category{clone(current)}, chain...)
		p := current.ParentID()
		if p == nil {
			break
		}
		current, ok = r.rows[*p]
	}
	return chain, nil
}

func (r *memoryRepository) GetDepth(ctx context.Context, id model.CategoryID) (int, error) {
	chain, _ := r.FindAllAncestorsByID(ctx, id)
	return len(chain), nil
}

func (r *memoryRepository) FindAllByID(_ context.Context, ids []model.CategoryID) ([]*model.Category, error) {
	result := make([]*model.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			result = append(result, clone(c))
		}
	}
	return result, nil
}

func (r *memoryRepository) Save(_ context.Context, c *model.Category) (*model.Category, error) {
	if !c.HasID() {
		if err := c.AssignID(r.nextID); err != nil {
			return nil, err
		}
		r.nextID++
	} else if _, ok := r.rows[c.ID()]; !ok {
		return nil, model.NewCategoryNotFound(c.ID())
	}
	r.rows[c.ID()] = clone(c)
	return c, nil
}

func (r *memoryRepository) SaveAll(ctx context.Context, categories []*model.Category) ([]*model.Category, error) {
	for _, c := range categories {
		if _, err := r.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (r *memoryRepository) UpdateStatusForIDs(_ context.Context, status model.Status, ids []model.CategoryID) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			r.rows[id] = model.Rehydrate(id, c.Name(), c.ParentID(), status, c.CreatedAt(), time.Now())
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) status(id model.CategoryID) model.Status {
	return r.rows[id].Status()
}

// memoryTxRunner chạy fn trực tiếp trên memoryRepository (không rollback)
type memoryTxRunner struct {
	repo *memoryRepository
}

func (m memoryTxRunner) RunInTx(_ context.Context, fn func(repo repository.CategoryRepository) error) error {
	return fn(m.repo)
}
