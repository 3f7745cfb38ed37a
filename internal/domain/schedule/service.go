package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftdesk/internal/domain/auth"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) CreateShift(ctx context.Context, actor auth.Actor, input ShiftInput) (string, error) {
	if !actor.CanManageStore(input.StoreID) {
		return "", ErrForbidden
	}
	if !input.End.After(input.Start) {
		return "", fmt.Errorf("%w: shift end must be after start", ErrInvalidInput)
	}
	if input.RequiredSlots < 1 {
		return "", fmt.Errorf("%w: requiredSlots must be at least 1", ErrInvalidInput)
	}
	if err := s.checkSlotCap(ctx, input.StoreID, input.RequiredSlots); err != nil {
		return "", err
	}
	if input.TemplateID != "" {
		tpl, err := s.store.GetTemplate(ctx, input.TemplateID)
		if err != nil {
			return "", err
		}
		if tpl.StoreID != input.StoreID {
			return "", fmt.Errorf("%w: template belongs to another store", ErrInvalidInput)
		}
		if !MatchesTemplateDay(tpl, input.Start) {
			return "", fmt.Errorf("%w: shift date does not fall on the template weekday", ErrInvalidInput)
		}
	}
	return s.store.CreateShift(ctx, input, actor.UserID)
}

// checkSlotCap enforces the store's max_staff_per_shift policy; zero means
// uncapped.
func (s *Service) checkSlotCap(ctx context.Context, storeID string, requiredSlots int) error {
	max, err := s.store.StoreMaxStaff(ctx, storeID)
	if err != nil {
		return err
	}
	if max > 0 && requiredSlots > max {
		return fmt.Errorf("%w: store allows at most %d staff per shift", ErrCapacity, max)
	}
	return nil
}

func (s *Service) UpdateShift(ctx context.Context, actor auth.Actor, shiftID string, start, end time.Time, requiredSlots int) error {
	shift, err := s.store.GetShift(ctx, shiftID)
	if err != nil {
		return err
	}
	if !actor.CanManageStore(shift.StoreID) {
		return ErrForbidden
	}
	if !end.After(start) {
		return fmt.Errorf("%w: shift end must be after start", ErrInvalidInput)
	}
	if requiredSlots < 1 {
		return fmt.Errorf("%w: requiredSlots must be at least 1", ErrInvalidInput)
	}
	if err := s.checkSlotCap(ctx, shift.StoreID, requiredSlots); err != nil {
		return err
	}
	assigned, err := s.store.CountAssignments(ctx, shiftID)
	if err != nil {
		return err
	}
	if requiredSlots < assigned {
		return fmt.Errorf("%w: %d workers already assigned", ErrInvalidState, assigned)
	}
	return s.store.UpdateShift(ctx, shiftID, start, end, requiredSlots)
}

func (s *Service) GetShift(ctx context.Context, actor auth.Actor, shiftID string) (Shift, error) {
	return s.store.GetShift(ctx, shiftID)
}

func (s *Service) ListShifts(ctx context.Context, actor auth.Actor, storeID string, from, to time.Time) ([]Shift, error) {
	if actor.Role != auth.RoleOwner && storeID == "" {
		storeID = actor.StoreID
	}
	return s.store.ListShifts(ctx, storeID, from, to)
}

func (s *Service) CreateTemplate(ctx context.Context, actor auth.Actor, input TemplateInput) (string, error) {
	if !actor.CanManageStore(input.StoreID) {
		return "", ErrForbidden
	}
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		return "", fmt.Errorf("%w: dayOfWeek must be 0..6", ErrInvalidInput)
	}
	if input.EndMinute <= input.StartMinute || input.StartMinute < 0 || input.EndMinute > 24*60 {
		return "", fmt.Errorf("%w: invalid template time window", ErrInvalidInput)
	}
	if input.RequiredSlots < 1 {
		return "", fmt.Errorf("%w: requiredSlots must be at least 1", ErrInvalidInput)
	}
	return s.store.CreateTemplate(ctx, input)
}

func (s *Service) ListTemplates(ctx context.Context, actor auth.Actor, storeID string) ([]Template, error) {
	if actor.Role != auth.RoleOwner && storeID == "" {
		storeID = actor.StoreID
	}
	return s.store.ListTemplates(ctx, storeID)
}

// AssignStaff binds workers to a shift. Workers already on the shift are
// skipped. The whole call fails when the remaining workers would exceed
// requiredSlots, and template-backed shifts only accept workers who registered
// for that template and date.
func (s *Service) AssignStaff(ctx context.Context, actor auth.Actor, shiftID string, workerIDs []string) (AssignResult, error) {
	shift, err := s.store.GetShift(ctx, shiftID)
	if err != nil {
		return AssignResult{}, err
	}
	if !actor.CanManageStore(shift.StoreID) {
		return AssignResult{}, ErrForbidden
	}

	var result AssignResult
	var newWorkers []string
	for _, workerID := range workerIDs {
		if _, err := s.store.GetAssignment(ctx, shiftID, workerID); err == nil {
			result.Skipped = append(result.Skipped, workerID)
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return AssignResult{}, err
		}
		newWorkers = append(newWorkers, workerID)
	}

	assigned, err := s.store.CountAssignments(ctx, shiftID)
	if err != nil {
		return AssignResult{}, err
	}
	if assigned+len(newWorkers) > shift.RequiredSlots {
		return AssignResult{}, fmt.Errorf("%w: shift allows %d slots, %d already assigned", ErrCapacity, shift.RequiredSlots, assigned)
	}

	if shift.TemplateID != "" {
		total, err := s.store.CountActiveRegistrations(ctx, shift.TemplateID, shift.Start)
		if err != nil {
			return AssignResult{}, err
		}
		if total == 0 {
			return AssignResult{}, fmt.Errorf("%w: no one has registered for this shift yet", ErrInvalidState)
		}
		for _, workerID := range newWorkers {
			reg, err := s.store.GetRegistration(ctx, shift.TemplateID, workerID, shift.Start)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return AssignResult{}, err
			}
			if err != nil || reg.Status != RegistrationRegistered {
				return AssignResult{}, fmt.Errorf("%w: worker %s has not registered for this shift", ErrForbidden, workerID)
			}
		}
	}

	// Manager assignment is binding, so new assignments start CONFIRMED.
	for _, workerID := range newWorkers {
		if _, err := s.store.InsertAssignment(ctx, shiftID, workerID, AssignmentConfirmed); err != nil {
			return AssignResult{}, err
		}
		result.Assigned = append(result.Assigned, workerID)
	}
	return result, nil
}

func (s *Service) RemoveAssignment(ctx context.Context, actor auth.Actor, shiftID, workerID string) error {
	shift, err := s.store.GetShift(ctx, shiftID)
	if err != nil {
		return err
	}
	if !actor.CanManageStore(shift.StoreID) {
		return ErrForbidden
	}
	if _, err := s.store.GetAssignment(ctx, shiftID, workerID); err != nil {
		return err
	}
	return s.store.DeleteAssignment(ctx, shiftID, workerID)
}

func (s *Service) UpdateAssignmentStatus(ctx context.Context, actor auth.Actor, shiftID, status string) error {
	if status != AssignmentConfirmed && status != AssignmentDeclined {
		return fmt.Errorf("%w: status must be CONFIRMED or DECLINED", ErrInvalidInput)
	}
	if _, err := s.store.GetAssignment(ctx, shiftID, actor.UserID); err != nil {
		return err
	}
	return s.store.UpdateAssignmentStatus(ctx, shiftID, actor.UserID, status)
}

func (s *Service) ListAssignments(ctx context.Context, actor auth.Actor, shiftID string) ([]Assignment, error) {
	if _, err := s.store.GetShift(ctx, shiftID); err != nil {
		return nil, err
	}
	return s.store.ListAssignments(ctx, shiftID)
}

// RegisterShift records a worker's willingness to take a template instance on
// a given date. A cancelled registration for the same slot is reactivated.
func (s *Service) RegisterShift(ctx context.Context, actor auth.Actor, templateID string, date time.Time) (string, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return "", err
	}
	workerStore, err := s.store.WorkerStoreID(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	if workerStore != tpl.StoreID {
		return "", fmt.Errorf("%w: template belongs to another store", ErrForbidden)
	}
	if !MatchesTemplateDay(tpl, date) {
		return "", fmt.Errorf("%w: date does not fall on the template weekday", ErrInvalidInput)
	}

	existing, err := s.store.GetRegistration(ctx, templateID, actor.UserID, date)
	if err == nil {
		if existing.Status == RegistrationRegistered {
			return "", fmt.Errorf("%w: already registered for this shift", ErrConflict)
		}
		if err := s.store.ReactivateRegistration(ctx, existing.ID); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return s.store.InsertRegistration(ctx, templateID, actor.UserID, date)
}

func (s *Service) CancelRegistration(ctx context.Context, actor auth.Actor, templateID string, date time.Time) error {
	reg, err := s.store.GetRegistration(ctx, templateID, actor.UserID, date)
	if err != nil {
		return err
	}
	if reg.Status != RegistrationRegistered {
		return fmt.Errorf("%w: registration is not active", ErrInvalidState)
	}
	return s.store.CancelRegistration(ctx, reg.ID)
}

func (s *Service) ListRegistrations(ctx context.Context, actor auth.Actor, templateID string, date time.Time) ([]Registration, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageStore(tpl.StoreID) {
		return nil, ErrForbidden
	}
	return s.store.ListRegistrations(ctx, templateID, date)
}
