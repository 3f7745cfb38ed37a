package schedule

import (
	"context"
	"errors"
	"testing"

	"shiftdesk/internal/domain/auth"
)

func TestCreateTaskResolvesStoreFromWorker(t *testing.T) {
	store := newFakeStore()
	store.workerStores["w1"] = "store-1"
	svc := NewService(store)

	task, err := svc.CreateTask(context.Background(), manager, TaskInput{WorkerID: "w1", Title: "restock fridge"})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.StoreID != "store-1" || task.Status != TaskOpen {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestCreateTaskForbiddenOutsideStore(t *testing.T) {
	store := newFakeStore()
	store.workerStores["w1"] = "store-2"
	svc := NewService(store)

	if _, err := svc.CreateTask(context.Background(), manager, TaskInput{WorkerID: "w1", Title: "clean"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCompleteTask(t *testing.T) {
	store := newFakeStore()
	store.workerStores["w1"] = "store-1"
	svc := NewService(store)

	task, err := svc.CreateTask(context.Background(), manager, TaskInput{WorkerID: "w1", Title: "close register"})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}

	other := auth.Actor{UserID: "w2", Role: auth.RoleStaff, StoreID: "store-1"}
	if _, err := svc.CompleteTask(context.Background(), other, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another worker, got %v", err)
	}

	worker := auth.Actor{UserID: "w1", Role: auth.RoleStaff, StoreID: "store-1"}
	done, err := svc.CompleteTask(context.Background(), worker, task.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != TaskDone {
		t.Fatalf("expected DONE, got %s", done.Status)
	}

	if _, err := svc.CompleteTask(context.Background(), worker, task.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState completing twice, got %v", err)
	}
}
