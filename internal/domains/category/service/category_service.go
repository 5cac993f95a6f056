package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/repository"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"
	"catalog-backend/pkg/metrics"
)

const (
	treeCacheKeyPrefix = "category:tree:"
	// TreeCachePattern match mọi cached tree view, dùng khi invalidate
	TreeCachePattern = treeCacheKeyPrefix + "*"

	defaultTreeCacheTTL = 10 * time.Minute
)

var ErrExportUnavailable = errors.New("category export is not configured")

type Config struct {
	MaxDepth     int
	TreeCacheTTL time.Duration
}

// Deps gom các collaborator; Cache, Publisher, Exporter, Metrics có thể nil
type Deps struct {
	Tx        repository.TxRunner
	Query     repository.CategoryQueryRepository
	Cache     cache.Cache
	Publisher EventPublisher
	Exporter  TreeExporter
	Metrics   *metrics.Collector
}

type categoryServiceImpl struct {
	tx        repository.TxRunner
	query     repository.CategoryQueryRepository
	cache     cache.Cache
	publisher EventPublisher
	exporter  TreeExporter
	metrics   *metrics.Collector
	cfg       Config
}

func NewCategoryService(deps Deps, cfg Config) CategoryService {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.TreeCacheTTL <= 0 {
		cfg.TreeCacheTTL = defaultTreeCacheTTL
	}

	return &categoryServiceImpl{
		tx:        deps.Tx,
		query:     deps.Query,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		exporter:  deps.Exporter,
		metrics:   deps.Metrics,
		cfg:       cfg,
	}
}

// ============================================================
// WRITE SIDE
// ============================================================

func (s *categoryServiceImpl) Create(ctx context.Context, req model.CreateCategoryReq) (*model.CategoryResp, error) {
	start := time.Now()

	// ========== STEP 1: Validate input ==========
	if err := req.Validate(); err != nil {
		verr := model.NewInvalidArgument(err.Error())
		s.observe("create", start, verr)
		return nil, verr
	}

	status := model.StatusActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := model.ParseStatus(req.Status)
		if err != nil {
			s.observe("create", start, err)
			return nil, err
		}
		status = parsed
	}

	name := strings.TrimSpace(req.Name)

	// ========== STEP 2: Domain rules + persist (1 transaction) ==========
	var created *model.Category
	err := s.tx.RunInTx(ctx, func(repo repository.CategoryRepository) error {
		domain := s.domain(repo)

		unique, err := domain.IsCategoryNameUnique(ctx, name)
		if err != nil {
			return err
		}
		if !unique {
			return model.NewDuplicateName(name)
		}

		if _, err := domain.ValidateParentCategory(ctx, req.ParentID); err != nil {
			return err
		}

		ok, err := domain.IsParentDepthLessThanLimit(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewDepthLimitExceeded(domain.MaxDepth()+1, domain.MaxDepth())
		}

		entity, err := model.NewCategoryWithStatus(name, req.ParentID, status)
		if err != nil {
			return err
		}

		created, err = repo.Save(ctx, entity)
		return err
	})
	s.observe("create", start, err)
	if err != nil {
		return nil, err
	}

	// ========== STEP 3: After commit ==========
	s.afterCommit(ctx, model.NewCategoryEvent(model.TypeCategoryCreated, []model.CategoryID{created.ID()}, created.Status()))

	logger.Info("category created", map[string]interface{}{
		"category_id": created.ID(),
		"name":        created.Name(),
	})

	return model.CategoryToResp(created), nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, id model.CategoryID, req model.UpdateCategoryReq) (*model.CategoryResp, error) {
	start := time.Now()

	if id <= 0 {
		verr := model.NewInvalidID(int64(id))
		s.observe("update", start, verr)
		return nil, verr
	}
	if err := req.Validate(); err != nil {
		verr := model.NewInvalidArgument(err.Error())
		s.observe("update", start, verr)
		return nil, verr
	}

	var (
		updated *model.Category
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(repo repository.CategoryRepository) error {
		domain := s.domain(repo)

		entity, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entity == nil {
			return model.NewCategoryNotFound(id)
		}
		if entity.IsDeleted() {
			return model.NewCategoryImmutable(id)
		}

		// ========== Rename ==========
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			unique, err := domain.IsCategoryNameUniqueForUpdate(ctx, name, id)
			if err != nil {
				return err
			}
			if !unique {
				return model.NewDuplicateName(name)
			}
			if err := entity.ChangeName(name); err != nil {
				return err
			}
			changed = true
		}

		// ========== Move ==========
		if req.ChangesParent() {
			var newParentID *model.CategoryID
			if !req.MoveToRoot {
				newParentID = req.ParentID
			}

			if err := domain.ValidateParentChangeRules(ctx, id, newParentID); err != nil {
				return err
			}
			// Category ACTIVE không được nằm dưới parent không ACTIVE
			if entity.IsActive() {
				if _, err := domain.ValidateParentCategory(ctx, newParentID); err != nil {
					return err
				}
			}
			if err := entity.ChangeParent(newParentID); err != nil {
				return err
			}
			changed = true
		}

		if !changed {
			updated = entity
			return nil
		}

		updated, err = repo.Save(ctx, entity)
		return err
	})
	s.observe("update", start, err)
	if err != nil {
		return nil, err
	}

	if changed {
		s.afterCommit(ctx, model.NewCategoryEvent(model.TypeCategoryUpdated, []model.CategoryID{id}, updated.Status()))
	}

	return model.CategoryToResp(updated), nil
}

// ChangeStatus áp dụng status cho cả tập affected (ancestors khi ACTIVE,
// descendants đang ACTIVE khi INACTIVE). DELETED phải đi qua Delete.
func (s *categoryServiceImpl) ChangeStatus(ctx context.Context, id model.CategoryID, req model.ChangeStatusReq) (*model.StatusChangeResp, error) {
	start := time.Now()

	if id <= 0 {
		verr := model.NewInvalidID(int64(id))
		s.observe("change_status", start, verr)
		return nil, verr
	}
	if err := req.Validate(); err != nil {
		verr := model.NewInvalidArgument(err.Error())
		s.observe("change_status", start, verr)
		return nil, verr
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		s.observe("change_status", start, err)
		return nil, err
	}

	var changedIDs []model.CategoryID
	err = s.tx.RunInTx(ctx, func(repo repository.CategoryRepository) error {
		domain := s.domain(repo)

		// ========== STEP 1: Fetch cả tập trước khi mutate ==========
		affectedIDs, err := domain.GetAffectedCategories(ctx, id, status)
		if err != nil {
			return err
		}

		categories, err := repo.FindAllByID(ctx, affectedIDs)
		if err != nil {
			return err
		}

		// ========== STEP 2: Validate ==========
		if err := domain.ValidateStatusChangeRules(categories, status); err != nil {
			return err
		}

		// ========== STEP 3: Bulk update (bỏ qua node đã đúng status) ==========
		current := make(map[model.CategoryID]model.Status, len(categories))
		for _, c := range categories {
			current[c.ID()] = c.Status()
		}

		pending := make([]model.CategoryID, 0, len(affectedIDs))
		for _, affected := range affectedIDs {
			if current[affected] != status {
				pending = append(pending, affected)
			}
		}

		if _, err := repo.UpdateStatusForIDs(ctx, status, pending); err != nil {
			return err
		}

		changedIDs = pending
		return nil
	})
	s.observe("change_status", start, err)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCascade("change_status", len(changedIDs))
	if len(changedIDs) > 0 {
		s.afterCommit(ctx, model.NewCategoryEvent(model.TypeCategoryStatusChanged, changedIDs, status))
	}

	return &model.StatusChangeResp{Status: status, AffectedIDs: changedIDs}, nil
}

// Delete: logical delete cả subtree chưa DELETED
func (s *categoryServiceImpl) Delete(ctx context.Context, id model.CategoryID) (*model.DeleteResp, error) {
	start := time.Now()

	if id <= 0 {
		verr := model.NewInvalidID(int64(id))
		s.observe("delete", start, verr)
		return nil, verr
	}

	var deletedIDs []model.CategoryID
	err := s.tx.RunInTx(ctx, func(repo repository.CategoryRepository) error {
		deleted, err := s.domain(repo).PrepareForDeletion(ctx, id)
		if err != nil {
			return err
		}

		if _, err := repo.SaveAll(ctx, deleted); err != nil {
			return err
		}

		deletedIDs = model.IDs(deleted)
		return nil
	})
	s.observe("delete", start, err)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCascade("delete", len(deletedIDs))
	s.afterCommit(ctx, model.NewCategoryEvent(model.TypeCategoryDeleted, deletedIDs, model.StatusDeleted))

	logger.Info("category subtree deleted", map[string]interface{}{
		"category_id": id,
		"deleted":     len(deletedIDs),
	})

	return &model.DeleteResp{DeletedIDs: deletedIDs}, nil
}

// ============================================================
// READ SIDE
// ============================================================

// GetByID: category đã DELETED coi như không tồn tại
func (s *categoryServiceImpl) GetByID(ctx context.Context, id model.CategoryID) (*model.CategoryResp, error) {
	if id <= 0 {
		return nil, model.NewInvalidID(int64(id))
	}

	entity, err := s.query.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil || entity.IsDeleted() {
		return nil, model.NewCategoryNotFound(id)
	}

	return model.CategoryToResp(entity), nil
}

func (s *categoryServiceImpl) GetAncestors(ctx context.Context, id model.CategoryID) (*model.CategoryBreadcrumbResp, error) {
	if id <= 0 {
		return nil, model.NewInvalidID(int64(id))
	}

	chain, err := s.query.FindAllAncestorsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 || chain[len(chain)-1].IsDeleted() {
		return nil, model.NewCategoryNotFound(id)
	}

	items := make([]model.BreadcrumbItem, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, c := range chain {
		items = append(items, model.BreadcrumbItem{
			ID:     c.ID(),
			Name:   c.Name(),
			Slug:   c.Slug(),
			Status: c.Status(),
		})
		names = append(names, c.Name())
	}

	return &model.CategoryBreadcrumbResp{
		Items:       items,
		CurrentPath: strings.Join(names, pathSeparator),
	}, nil
}

// GetTree: cache-aside theo scope. Lỗi cache chỉ log, fallback về DB.
func (s *categoryServiceImpl) GetTree(ctx context.Context, scope model.TreeScope) ([]*model.CategoryView, error) {
	// Chuẩn hóa trước khi dựng key: scope rỗng phải query và cache đúng như active
	scope, err := model.ParseTreeScope(string(scope))
	if err != nil {
		return nil, err
	}
	key := treeCacheKey(scope)

	if s.cache != nil {
		var cached []*model.CategoryView
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Error("GetTree: cache get failed", err)
		} else if found {
			s.metrics.CacheHit()
			return cached, nil
		}
		s.metrics.CacheMiss()
	}

	rows, err := s.query.FindFlat(ctx, scope)
	if err != nil {
		return nil, err
	}

	tree := BuildHierarchy(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tree, s.cfg.TreeCacheTTL); err != nil {
			logger.Error("GetTree: cache set failed", err)
		}
	}

	return tree, nil
}

func (s *categoryServiceImpl) ExportTree(ctx context.Context, scope model.TreeScope, w io.Writer) error {
	if s.exporter == nil {
		return ErrExportUnavailable
	}

	tree, err := s.GetTree(ctx, scope)
	if err != nil {
		return err
	}

	return s.exporter.Export(w, FlattenHierarchy(tree))
}

// ============================================================
// HELPERS
// ============================================================

func (s *categoryServiceImpl) domain(repo repository.CategoryRepository) *CategoryDomainService {
	return NewCategoryDomainService(repo,
		WithMaxDepth(s.cfg.MaxDepth),
		WithLogger(logger.Component("category_domain")),
	)
}

// afterCommit: invalidate cache rồi publish event. Không trả lỗi vì transaction đã commit.
func (s *categoryServiceImpl) afterCommit(ctx context.Context, event model.CategoryEvent) {
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, TreeCachePattern); err != nil {
			logger.Error("afterCommit: invalidate tree cache failed", err)
		}
	}

	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.EventPublished(event.Type, false)
		logger.Error("afterCommit: publish "+event.Type+" failed", err)
		return
	}
	s.metrics.EventPublished(event.Type, true)
}

func (s *categoryServiceImpl) observe(operation string, start time.Time, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case model.IsDomainError(err):
		outcome = "rejected"
	default:
		outcome = "error"
		logger.Error(operation+": infrastructure failure", err)
	}
	s.metrics.ObserveOperation(operation, outcome, time.Since(start))
}

func treeCacheKey(scope model.TreeScope) string {
	return treeCacheKeyPrefix + string(scope)
}
