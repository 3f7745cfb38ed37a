package schedule

import "time"

const (
	AssignmentAssigned  = "ASSIGNED"
	AssignmentConfirmed = "CONFIRMED"
	AssignmentDeclined  = "DECLINED"

	RegistrationRegistered = "REGISTERED"
	RegistrationCancelled  = "CANCELLED"
)

type Shift struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"storeId"`
	TemplateID    string    `json:"templateId,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	RequiredSlots int       `json:"requiredSlots"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Template is a recurring weekly pattern. Concrete shifts instantiated from it
// carry a TemplateID; worker registrations attach to (template, date).
type Template struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"storeId"`
	DayOfWeek     int       `json:"dayOfWeek"` // 0 = Sunday, matching time.Weekday
	StartMinute   int       `json:"startMinute"`
	EndMinute     int       `json:"endMinute"`
	RequiredSlots int       `json:"requiredSlots"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Assignment struct {
	ID        string    `json:"id"`
	ShiftID   string    `json:"shiftId"`
	WorkerID  string    `json:"workerId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Registration struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	WorkerID   string    `json:"workerId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ShiftInput struct {
	StoreID       string    `json:"storeId"`
	TemplateID    string    `json:"templateId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	RequiredSlots int       `json:"requiredSlots"`
}

type TemplateInput struct {
	StoreID       string `json:"storeId"`
	DayOfWeek     int    `json:"dayOfWeek"`
	StartMinute   int    `json:"startMinute"`
	EndMinute     int    `json:"endMinute"`
	RequiredSlots int    `json:"requiredSlots"`
}

// AssignResult reports what AssignStaff actually did: workers already on the
// shift are skipped, not errors.
type AssignResult struct {
	Assigned []string `json:"assigned"`
	Skipped  []string `json:"skipped"`
}
