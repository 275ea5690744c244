package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, in)
	return taskArg(args, 0), args.Error(1)
}

func (m *MockTaskService) GetAllTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, filter)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskService) GetTaskWithSubtasks(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	return taskArg(args, 0), args.Error(1)
}

func (m *MockTaskService) GetUnassignedTasks(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskService) GetAssignedTasksForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskService) AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, taskID, userID)
	return taskArg(args, 0), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	args := m.Called(ctx, id, patch)
	return taskArg(args, 0), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.DeleteResult, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.DeleteResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) GetUserTaskHistory(ctx context.Context, userID uuid.UUID) (*domain.TaskHistory, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*domain.TaskHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	args := m.Called(ctx, name, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func taskArg(args mock.Arguments, i int) *domain.Task {
	if v := args.Get(i); v != nil {
		return v.(*domain.Task)
	}
	return nil
}

func tasksArg(args mock.Arguments, i int) []*domain.Task {
	if v := args.Get(i); v != nil {
		return v.([]*domain.Task)
	}
	return nil
}
