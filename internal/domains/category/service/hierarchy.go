package service

import (
	"strings"

	"catalog-backend/internal/domains/category/model"
)

const pathSeparator = " > "

// BuildHierarchy dựng forest từ danh sách phẳng (adjacency list).
//
// Pass 1: index parent → children, giữ thứ tự input.
// Pass 2: dựng từng root bằng stack, mỗi node chỉ được gắn 1 lần.
//
// Row có parent không nằm trong input (parent bị lọc theo scope) được coi là root.
// Row chỉ nằm trong vòng lặp (dữ liệu lỗi) được đưa lên làm root 1 lần,
// nên mọi row đều xuất hiện đúng 1 lần trong output.
func BuildHierarchy(rows []model.FlatCategory) []*model.CategoryView {
	if len(rows) == 0 {
		return []*model.CategoryView{}
	}

	// ========== PASS 1: index ==========
	present := make(map[model.CategoryID]bool, len(rows))
	for _, row := range rows {
		present[row.ID] = true
	}

	children := make(map[model.CategoryID][]int, len(rows))
	rootIdx := make([]int, 0)
	for i, row := range rows {
		if row.ParentID == nil || !present[*row.ParentID] || *row.ParentID == row.ID {
			rootIdx = append(rootIdx, i)
			continue
		}
		children[*row.ParentID] = append(children[*row.ParentID], i)
	}

	// ========== PASS 2: assemble ==========
	built := make([]bool, len(rows))
	forest := make([]*model.CategoryView, 0, len(rootIdx))

	for _, i := range rootIdx {
		forest = append(forest, assemble(rows, i, children, built))
	}

	// Vòng lặp: không node nào trong vòng là root → promote node đầu tiên còn sót
	for i := range rows {
		if !built[i] {
			forest = append(forest, assemble(rows, i, children, built))
		}
	}

	return forest
}

func assemble(rows []model.FlatCategory, rootIdx int, children map[model.CategoryID][]int, built []bool) *model.CategoryView {
	type frame struct {
		view *model.CategoryView
		idx  int
	}

	root := newView(rows[rootIdx])
	built[rootIdx] = true
	stack := []frame{{view: root, idx: rootIdx}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, ci := range children[rows[f.idx].ID] {
			if built[ci] {
				continue
			}
			built[ci] = true

			child := newView(rows[ci])
			f.view.Children = append(f.view.Children, child)
			stack = append(stack, frame{view: child, idx: ci})
		}
	}

	return root
}

func newView(row model.FlatCategory) *model.CategoryView {
	var parent *model.CategoryID
	if row.ParentID != nil {
		parent = model.IDPtr(*row.ParentID)
	}

	return &model.CategoryView{
		ID:       row.ID,
		Name:     row.Name,
		Slug:     row.Slug,
		ParentID: parent,
		Status:   row.Status,
		Children: []*model.CategoryView{},
	}
}

// FlattenHierarchy duyệt forest pre-order, kèm depth (root = 1) và full path
func FlattenHierarchy(forest []*model.CategoryView) []model.FlatViewRow {
	type frame struct {
		view  *model.CategoryView
		depth int
		path  []string
	}

	rows := make([]model.FlatViewRow, 0)
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{view: forest[i], depth: 1})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		path := append(append([]string{}, f.path...), f.view.Name)
		rows = append(rows, model.FlatViewRow{
			ID:       f.view.ID,
			Name:     f.view.Name,
			Slug:     f.view.Slug,
			ParentID: f.view.ParentID,
			Status:   f.view.Status,
			Depth:    f.depth,
			FullPath: strings.Join(path, pathSeparator),
		})

		for i := len(f.view.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{view: f.view.Children[i], depth: f.depth + 1, path: path})
		}
	}

	return rows
}

// CountNodes đếm tổng số node trong forest
func CountNodes(forest []*model.CategoryView) int {
	count := 0
	stack := append([]*model.CategoryView{}, forest...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}
