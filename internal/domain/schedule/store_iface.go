package schedule

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateShift(ctx context.Context, input ShiftInput, createdBy string) (string, error)
	GetShift(ctx context.Context, shiftID string) (Shift, error)
	UpdateShift(ctx context.Context, shiftID string, start, end time.Time, requiredSlots int) error
	ListShifts(ctx context.Context, storeID string, from, to time.Time) ([]Shift, error)

	CreateTemplate(ctx context.Context, input TemplateInput) (string, error)
	GetTemplate(ctx context.Context, templateID string) (Template, error)
	ListTemplates(ctx context.Context, storeID string) ([]Template, error)

	CountAssignments(ctx context.Context, shiftID string) (int, error)
	ListAssignments(ctx context.Context, shiftID string) ([]Assignment, error)
	GetAssignment(ctx context.Context, shiftID, workerID string) (Assignment, error)
	InsertAssignment(ctx context.Context, shiftID, workerID, status string) (string, error)
	DeleteAssignment(ctx context.Context, shiftID, workerID string) error
	UpdateAssignmentStatus(ctx context.Context, shiftID, workerID, status string) error

	CountActiveRegistrations(ctx context.Context, templateID string, date time.Time) (int, error)
	GetRegistration(ctx context.Context, templateID, workerID string, date time.Time) (Registration, error)
	InsertRegistration(ctx context.Context, templateID, workerID string, date time.Time) (string, error)
	ReactivateRegistration(ctx context.Context, registrationID string) error
	CancelRegistration(ctx context.Context, registrationID string) error
	ListRegistrations(ctx context.Context, templateID string, date time.Time) ([]Registration, error)

	CreateTask(ctx context.Context, input TaskInput, createdBy string) (string, error)
	GetTask(ctx context.Context, taskID string) (Task, error)
	ListTasks(ctx context.Context, storeID, workerID, status string) ([]Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, status string) error

	WorkerStoreID(ctx context.Context, workerID string) (string, error)
	// StoreMaxStaff returns the store's max_staff_per_shift policy; zero
	// means uncapped.
	StoreMaxStaff(ctx context.Context, storeID string) (int, error)
}
