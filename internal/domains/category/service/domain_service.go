package service

import (
	"context"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/repository"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth: root (1) > child (2) > grandchild (3)
const DefaultMaxDepth = 3

// CategoryDomainService chứa các rule của cây category cần đọc repository.
// Không persist gì cả: caller tự lưu kết quả trong cùng transaction.
// Stateless, tạo mới cho mỗi transaction (repo gắn với tx).
type CategoryDomainService struct {
	repo     repository.CategoryRepository
	maxDepth int
	log      zerolog.Logger
}

type DomainOption func(*CategoryDomainService)

// WithMaxDepth: giá trị <= 0 bị bỏ qua
func WithMaxDepth(maxDepth int) DomainOption {
	return func(s *CategoryDomainService) {
		if maxDepth > 0 {
			s.maxDepth = maxDepth
		}
	}
}

func WithLogger(log zerolog.Logger) DomainOption {
	return func(s *CategoryDomainService) {
		s.log = log
	}
}

func NewCategoryDomainService(repo repository.CategoryRepository, opts ...DomainOption) *CategoryDomainService {
	s := &CategoryDomainService{
		repo:     repo,
		maxDepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CategoryDomainService) MaxDepth() int {
	return s.maxDepth
}

// ============================================================
// NAME UNIQUENESS
// ============================================================

func (s *CategoryDomainService) IsCategoryNameUnique(ctx context.Context, name string) (bool, error) {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *CategoryDomainService) IsCategoryNameUniqueForUpdate(ctx context.Context, name string, excludeID model.CategoryID) (bool, error) {
	exists, err := s.repo.ExistsByNameExcluding(ctx, name, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ============================================================
// PARENT RULES
// ============================================================

// ValidateParentCategory trả về (nil, nil) khi parentID nil (root).
// Parent phải tồn tại và đang ACTIVE.
func (s *CategoryDomainService) ValidateParentCategory(ctx context.Context, parentID *model.CategoryID) (*model.Category, error) {
	if parentID == nil {
		return nil, nil
	}

	parent, err := s.repo.FindByID(ctx, *parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		s.log.Debug().Int64("parent_id", parentID.Int64()).Msg("parent category not found")
		return nil, model.NewParentNotFound(*parentID)
	}

	if !parent.IsActive() {
		s.log.Debug().
			Int64("parent_id", parentID.Int64()).
			Str("status", parent.Status().String()).
			Msg("parent category is not active")
		return nil, model.NewParentNotActive(*parentID, parent.Status())
	}

	return parent, nil
}

// IsParentDepthLessThanLimit: thêm 1 node lá dưới parentID có vượt max depth không.
// parentID nil (root) luôn hợp lệ.
func (s *CategoryDomainService) IsParentDepthLessThanLimit(ctx context.Context, parentID *model.CategoryID) (bool, error) {
	if parentID == nil {
		return true, nil
	}

	depth, err := s.repo.GetDepth(ctx, *parentID)
	if err != nil {
		return false, err
	}
	return depth < s.maxDepth, nil
}

// ValidateParentChangeRules kiểm tra việc chuyển categoryID sang newParentID:
//
//	newParentID nil                     → luôn hợp lệ (về root)
//	parent không tồn tại / DELETED      → PARENT_NOT_FOUND
//	newParentID == categoryID           → SELF_PARENT
//	newParentID nằm trong subtree       → CIRCULAR_REFERENCE
//	depth(parent) + chiều cao subtree   → DEPTH_LIMIT_EXCEEDED nếu > maxDepth
//
// Depth check tính cả descendants đang live của categoryID: node cần move có thể
// tự nằm trong giới hạn nhưng vẫn bị từ chối nếu lá sâu nhất của subtree vượt maxDepth.
// Descendants đã DELETED không được tính.
func (s *CategoryDomainService) ValidateParentChangeRules(ctx context.Context, categoryID model.CategoryID, newParentID *model.CategoryID) error {
	if newParentID == nil {
		return nil
	}

	// ========== STEP 1: Parent tồn tại ==========
	parent, err := s.repo.FindByID(ctx, *newParentID)
	if err != nil {
		return err
	}
	if parent == nil || parent.IsDeleted() {
		return model.NewParentNotFound(*newParentID)
	}

	// ========== STEP 2: Self parent ==========
	if *newParentID == categoryID {
		return model.NewSelfParent(categoryID)
	}

	// ========== STEP 3: Circular reference ==========
	// Lấy toàn bộ subtree (mọi status) vì parent_id của node DELETED vẫn nối cạnh
	subtree, err := s.repo.FindSubtreeByIDAndStatusIn(ctx, categoryID, model.AllStatuses)
	if err != nil {
		return err
	}
	for _, node := range subtree {
		if node.ID() == *newParentID {
			s.log.Debug().
				Int64("category_id", categoryID.Int64()).
				Int64("new_parent_id", newParentID.Int64()).
				Msg("circular reference detected")
			return model.NewCircularReference(categoryID, *newParentID)
		}
	}

	// ========== STEP 4: Depth limit ==========
	parentDepth, err := s.repo.GetDepth(ctx, *newParentID)
	if err != nil {
		return err
	}

	height := subtreeHeight(categoryID, subtree)
	if resulting := parentDepth + height; resulting > s.maxDepth {
		return model.NewDepthLimitExceeded(resulting, s.maxDepth)
	}

	return nil
}

// ============================================================
// STATUS RULES
// ============================================================

// ValidateStatusChangeRules: newStatus rỗng = không đổi status.
// Category đã DELETED luôn bị từ chối, kể cả khi target cũng là DELETED
// (xóa lại phải đi qua PrepareForDeletion).
func (s *CategoryDomainService) ValidateStatusChangeRules(categories []*model.Category, newStatus model.Status) error {
	if newStatus == "" {
		return nil
	}
	if !newStatus.IsValid() {
		return model.NewInvalidStatus(string(newStatus))
	}

	for _, c := range categories {
		if c.IsDeleted() {
			return model.NewCategoryDeleted(c.ID())
		}
		if c.Status() == newStatus {
			continue
		}
		if !c.Status().CanTransitionTo(newStatus) {
			return model.NewInvalidTransition(c.Status(), newStatus)
		}
	}

	return nil
}

// GetAffectedCategories trả về các id phải đổi status cùng lúc:
//
//	ACTIVE   → chuỗi ancestor root-first, kết thúc bằng chính categoryID
//	INACTIVE → categoryID + các descendant đang ACTIVE, pre-order
//	DELETED  → lỗi, dùng PrepareForDeletion
func (s *CategoryDomainService) GetAffectedCategories(ctx context.Context, categoryID model.CategoryID, newStatus model.Status) ([]model.CategoryID, error) {
	if newStatus == model.StatusDeleted {
		return nil, model.NewInvalidArgument("use deletion to delete categories, not status change")
	}
	if !newStatus.IsValid() {
		return nil, model.NewInvalidStatus(string(newStatus))
	}

	if newStatus == model.StatusActive {
		ancestors, err := s.repo.FindAllAncestorsByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if len(ancestors) == 0 {
			return nil, model.NewCategoryNotFound(categoryID)
		}
		return model.IDs(ancestors), nil
	}

	subtree, err := s.repo.FindSubtreeByIDAndStatusIn(ctx, categoryID, model.LiveStatuses)
	if err != nil {
		return nil, err
	}

	ordered := preOrder(categoryID, subtree)
	if len(ordered) == 0 {
		// Subtree live rỗng: hoặc không tồn tại, hoặc đã DELETED
		existing, err := s.repo.FindByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.IsDeleted() {
			return nil, model.NewCategoryDeleted(categoryID)
		}
		return nil, model.NewCategoryNotFound(categoryID)
	}

	affected := []model.CategoryID{categoryID}
	for _, node := range ordered[1:] {
		if node.IsActive() {
			affected = append(affected, node.ID())
		}
	}

	s.log.Debug().
		Int64("category_id", categoryID.Int64()).
		Str("status", newStatus.String()).
		Int("affected", len(affected)).
		Msg("computed affected categories")

	return affected, nil
}

// ============================================================
// DELETION
// ============================================================

// PrepareForDeletion lấy subtree chưa DELETED, mark DELETED trong memory
// và trả về root-first (parent trước child). Caller persist.
func (s *CategoryDomainService) PrepareForDeletion(ctx context.Context, categoryID model.CategoryID) ([]*model.Category, error) {
	subtree, err := s.repo.FindSubtreeByIDAndStatusIn(ctx, categoryID, model.LiveStatuses)
	if err != nil {
		return nil, err
	}

	// Fetch đủ cả set trước rồi mới mutate
	ordered := preOrder(categoryID, subtree)
	if len(ordered) == 0 {
		return nil, model.NewCategoryNotFound(categoryID)
	}

	for _, c := range ordered {
		c.MarkAsDeleted()
	}

	s.log.Debug().
		Int64("category_id", categoryID.Int64()).
		Int("deleted", len(ordered)).
		Msg("prepared subtree for deletion")

	return ordered, nil
}

// ============================================================
// HELPERS
// ============================================================

// preOrder duyệt subtree gốc rootID theo pre-order bằng stack.
// Thứ tự anh em giữ theo thứ tự input. Root không có trong nodes → rỗng.
func preOrder(rootID model.CategoryID, nodes []*model.Category) []*model.Category {
	var root *model.Category
	children := make(map[model.CategoryID][]*model.Category, len(nodes))
	for _, n := range nodes {
		if n.ID() == rootID {
			root = n
			continue
		}
		if p := n.ParentID(); p != nil {
			children[*p] = append(children[*p], n)
		}
	}
	if root == nil {
		return nil
	}

	result := make([]*model.Category, 0, len(nodes))
	visited := make(map[model.CategoryID]bool, len(nodes))
	stack := []*model.Category{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[n.ID()] {
			continue
		}
		visited[n.ID()] = true
		result = append(result, n)

		kids := children[n.ID()]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	return result
}

// subtreeHeight: số tầng của subtree gốc rootID (chỉ 1 node = 1).
// Node DELETED không tính vì không bao giờ sống lại.
func subtreeHeight(rootID model.CategoryID, nodes []*model.Category) int {
	children := make(map[model.CategoryID][]model.CategoryID, len(nodes))
	for _, n := range nodes {
		if n.IsDeleted() || n.ID() == rootID {
			continue
		}
		if p := n.ParentID(); p != nil {
			children[*p] = append(children[*p], n.ID())
		}
	}

	type frame struct {
		id    model.CategoryID
		level int
	}

	height := 0
	visited := make(map[model.CategoryID]bool, len(nodes))
	stack := []frame{{id: rootID, level: 1}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[f.id] {
			continue
		}
		visited[f.id] = true

		if f.level > height {
			height = f.level
		}
		for _, child := range children[f.id] {
			stack = append(stack, frame{id: child, level: f.level + 1})
		}
	}

	return height
}
