package service

import (
	"context"
	"io"

	"catalog-backend/internal/domains/category/model"

	"github.com/stretchr/testify/mock"
)

type mockQueryRepository struct {
	mock.Mock
}

func (m *mockQueryRepository) FindFlat(ctx context.Context, scope model.TreeScope) ([]model.FlatCategory, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FlatCategory), args.Error(1)
}

func (m *mockQueryRepository) FindByID(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *mockQueryRepository) FindAllAncestorsByID(ctx context.Context, id model.CategoryID) ([]*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event model.CategoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) Export(w io.Writer, rows []model.FlatViewRow) error {
	args := m.Called(w, rows)
	return args.Error(0)
}
