package core

import (
	"context"
	"fmt"
	"strings"

	"shiftdesk/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListWorkers(ctx context.Context, actor auth.Actor, storeID string, includeInactive bool) ([]Worker, error) {
	if actor.Role == auth.RoleManager {
		storeID = actor.StoreID
	}
	return s.store.ListWorkers(ctx, storeID, includeInactive)
}

func (s *Service) GetWorker(ctx context.Context, actor auth.Actor, workerID string) (Worker, error) {
	worker, err := s.store.GetWorker(ctx, workerID)
	if err != nil {
		return Worker{}, err
	}
	if !actor.IsOwner() && actor.UserID != workerID && !actor.CanManageStore(worker.StoreID) {
		return Worker{}, ErrForbidden
	}
	return worker, nil
}

func (s *Service) CreateWorker(ctx context.Context, actor auth.Actor, input WorkerInput) (string, error) {
	if !auth.ValidRole(input.Role) {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Name) == "" {
		return "", fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if input.HourlyRate < 0 {
		return "", fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidInput)
	}
	// Owners have no home store; everyone else does.
	if input.Role != auth.RoleOwner && input.StoreID == "" {
		return "", fmt.Errorf("%w: store is required for %s", ErrInvalidInput, input.Role)
	}
	if !actor.IsOwner() {
		if input.Role != auth.RoleStaff || !actor.CanManageStore(input.StoreID) {
			return "", ErrForbidden
		}
	}

	exists, err := s.store.WorkerEmailExists(ctx, input.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: email already in use", ErrConflict)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", err
	}
	return s.store.CreateWorker(ctx, input, hash)
}

func (s *Service) UpdateWorker(ctx context.Context, actor auth.Actor, workerID string, input WorkerInput) error {
	worker, err := s.store.GetWorker(ctx, workerID)
	if err != nil {
		return err
	}
	if !actor.IsOwner() && !actor.CanManageStore(worker.StoreID) {
		return ErrForbidden
	}
	if !auth.ValidRole(input.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	if input.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidInput)
	}
	return s.store.UpdateWorker(ctx, workerID, input)
}

// DeactivateWorker soft-deletes: time logs and payroll keep referencing the
// worker row.
func (s *Service) DeactivateWorker(ctx context.Context, actor auth.Actor, workerID string) error {
	worker, err := s.store.GetWorker(ctx, workerID)
	if err != nil {
		return err
	}
	if !actor.IsOwner() && !actor.CanManageStore(worker.StoreID) {
		return ErrForbidden
	}
	return s.store.DeactivateWorker(ctx, workerID)
}

func (s *Service) ListStores(ctx context.Context, actor auth.Actor) ([]Store, error) {
	return s.store.ListStores(ctx)
}

func (s *Service) GetStore(ctx context.Context, actor auth.Actor, storeID string) (Store, error) {
	return s.store.GetStore(ctx, storeID)
}

func (s *Service) CreateStore(ctx context.Context, actor auth.Actor, input StoreInput) (string, error) {
	if !actor.IsOwner() {
		return "", ErrForbidden
	}
	if strings.TrimSpace(input.Name) == "" {
		return "", fmt.Errorf("%w: store name is required", ErrInvalidInput)
	}
	if input.MinHoursBeforeGive < 0 || input.MaxStaffPerShift < 0 {
		return "", fmt.Errorf("%w: policy values must not be negative", ErrInvalidInput)
	}
	return s.store.CreateStore(ctx, input)
}

func (s *Service) UpdateStore(ctx context.Context, actor auth.Actor, storeID string, input StoreInput) error {
	if !actor.CanManageStore(storeID) {
		return ErrForbidden
	}
	if _, err := s.store.GetStore(ctx, storeID); err != nil {
		return err
	}
	if input.MinHoursBeforeGive < 0 || input.MaxStaffPerShift < 0 {
		return fmt.Errorf("%w: policy values must not be negative", ErrInvalidInput)
	}
	return s.store.UpdateStore(ctx, storeID, input)
}

func (s *Service) DeleteStore(ctx context.Context, actor auth.Actor, storeID string) error {
	if !actor.IsOwner() {
		return ErrForbidden
	}
	if _, err := s.store.GetStore(ctx, storeID); err != nil {
		return err
	}
	staff, err := s.store.CountActiveStaff(ctx, storeID)
	if err != nil {
		return err
	}
	if staff > 0 {
		return fmt.Errorf("%w: store still has %d active staff", ErrConflict, staff)
	}
	return s.store.DeleteStore(ctx, storeID)
}
