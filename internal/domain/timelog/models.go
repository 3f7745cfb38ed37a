package timelog

import "time"

const (
	RecordedSelf   = "SELF"
	RecordedAuto   = "AUTO"
	RecordedManual = "MANUAL"
)

type TimeLog struct {
	ID              string     `json:"id"`
	WorkerID        string     `json:"workerId"`
	StoreID         string     `json:"storeId"`
	ShiftID         string     `json:"shiftId,omitempty"`
	CheckIn         time.Time  `json:"checkIn"`
	CheckOut        *time.Time `json:"checkOut,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	RecordedBy      string     `json:"recordedBy"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type ManualLogInput struct {
	WorkerID string    `json:"workerId"`
	StoreID  string    `json:"storeId"`
	ShiftID  string    `json:"shiftId"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// OpenShiftLog is an open log tied to a shift, as seen by the
// auto-checkout sweep.
type OpenShiftLog struct {
	LogID    string
	WorkerID string
	ShiftID  string
	CheckIn  time.Time
	ShiftEnd time.Time
}

type WorkerSummary struct {
	WorkerID     string  `json:"workerId"`
	TotalMinutes int     `json:"totalMinutes"`
	TotalHours   float64 `json:"totalHours"`
	LogCount     int     `json:"logCount"`
}

type StoreSummary struct {
	StoreID      string          `json:"storeId"`
	TotalMinutes int             `json:"totalMinutes"`
	Workers      []WorkerSummary `json:"workers"`
}
