package core

import "context"

type StoreAPI interface {
	ListWorkers(ctx context.Context, storeID string, includeInactive bool) ([]Worker, error)
	GetWorker(ctx context.Context, workerID string) (Worker, error)
	WorkerEmailExists(ctx context.Context, email string) (bool, error)
	CreateWorker(ctx context.Context, input WorkerInput, passwordHash string) (string, error)
	UpdateWorker(ctx context.Context, workerID string, input WorkerInput) error
	DeactivateWorker(ctx context.Context, workerID string) error

	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, storeID string) (Store, error)
	CreateStore(ctx context.Context, input StoreInput) (string, error)
	UpdateStore(ctx context.Context, storeID string, input StoreInput) error
	CountActiveStaff(ctx context.Context, storeID string) (int, error)
	DeleteStore(ctx context.Context, storeID string) error
}
