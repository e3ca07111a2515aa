package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-tasks-api/backend/internal/models"
	"go-tasks-api/backend/internal/repositories"
)

// MockTaskStore は TaskStore をまるごと置き換えるテスト用のモックです。
type MockTaskStore struct {
	mock.Mock
}

var _ repositories.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Insert(ctx context.Context, in *models.TaskInsert) (*models.Task, error) {
	args := m.Called(ctx, in)
	t, _ := args.Get(0).(*models.Task)
	return t, args.Error(1)
}

func (m *MockTaskStore) FindMany(ctx context.Context) ([]models.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) FindOne(ctx context.Context, id int) (*models.Task, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Task)
	return t, args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, id int, p *models.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, id, p)
	t, _ := args.Get(0).(*models.Task)
	return t, args.Error(1)
}

func (m *MockTaskStore) Delete(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
