package schedule

import (
	"context"
	"fmt"
	"time"

	"shiftdesk/internal/domain/auth"
)

const (
	TaskOpen = "OPEN"
	TaskDone = "DONE"
)

// Task is a unit of work a manager hands to a worker, optionally tied to a
// shift. Completion feeds the ranking report.
type Task struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	ShiftID   string    `json:"shiftId,omitempty"`
	WorkerID  string    `json:"workerId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskInput struct {
	StoreID  string `json:"storeId"`
	ShiftID  string `json:"shiftId"`
	WorkerID string `json:"workerId"`
	Title    string `json:"title"`
}

func (s *Service) CreateTask(ctx context.Context, actor auth.Actor, input TaskInput) (Task, error) {
	if input.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.WorkerID == "" {
		return Task{}, fmt.Errorf("%w: workerId is required", ErrInvalidInput)
	}
	if input.StoreID == "" {
		storeID, err := s.store.WorkerStoreID(ctx, input.WorkerID)
		if err != nil {
			return Task{}, err
		}
		input.StoreID = storeID
	}
	if !actor.CanManageStore(input.StoreID) {
		return Task{}, fmt.Errorf("%w: not your store", ErrForbidden)
	}

	id, err := s.store.CreateTask(ctx, input, actor.UserID)
	if err != nil {
		return Task{}, err
	}
	return s.store.GetTask(ctx, id)
}

func (s *Service) CompleteTask(ctx context.Context, actor auth.Actor, taskID string) (Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.WorkerID != actor.UserID && !actor.CanManageStore(task.StoreID) {
		return Task{}, fmt.Errorf("%w: not your task", ErrForbidden)
	}
	if task.Status == TaskDone {
		return Task{}, fmt.Errorf("%w: task is already done", ErrInvalidState)
	}

	if err := s.store.UpdateTaskStatus(ctx, taskID, TaskDone); err != nil {
		return Task{}, err
	}
	return s.store.GetTask(ctx, taskID)
}

func (s *Service) ListTasks(ctx context.Context, actor auth.Actor, storeID, workerID, status string) ([]Task, error) {
	if actor.Role == auth.RoleStaff {
		workerID = actor.UserID
		storeID = ""
	} else if storeID != "" && !actor.CanManageStore(storeID) {
		return nil, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	return s.store.ListTasks(ctx, storeID, workerID, status)
}
