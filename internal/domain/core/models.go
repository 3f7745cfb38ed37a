package core

import "time"

type Worker struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	StoreID    string    `json:"storeId,omitempty"`
	HourlyRate float64   `json:"hourlyRate"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Store struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	OpeningHour       int       `json:"openingHour"`
	ClosingHour       int       `json:"closingHour"`
	ManagerID         string    `json:"managerId,omitempty"`
	MinHoursBeforeGive int      `json:"minHoursBeforeGive"`
	MaxStaffPerShift  int       `json:"maxStaffPerShift"`
	AllowCrossStoreSwap bool    `json:"allowCrossStoreSwap"`
	CreatedAt         time.Time `json:"createdAt"`
}

type WorkerInput struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	StoreID    string  `json:"storeId"`
	HourlyRate float64 `json:"hourlyRate"`
}

type StoreInput struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	OpeningHour         int    `json:"openingHour"`
	ClosingHour         int    `json:"closingHour"`
	ManagerID           string `json:"managerId"`
	MinHoursBeforeGive  int    `json:"minHoursBeforeGive"`
	MaxStaffPerShift    int    `json:"maxStaffPerShift"`
	AllowCrossStoreSwap bool   `json:"allowCrossStoreSwap"`
}
