package ranking

// WorkerStats is the raw per-worker tally a ranking run starts from.
type WorkerStats struct {
	WorkerID       string
	Name           string
	TotalShifts    int
	AttendedShifts int
	PunctualShifts int
	TotalMinutes   int
	TasksAssigned  int
	TasksCompleted int
}

// RankedWorker is one row of the report, best first.
type RankedWorker struct {
	Rank            int     `json:"rank"`
	WorkerID        string  `json:"workerId"`
	Name            string  `json:"name"`
	TotalShifts     int     `json:"totalShifts"`
	AttendedShifts  int     `json:"attendedShifts"`
	AttendanceRate  float64 `json:"attendanceRate"`
	PunctualityRate float64 `json:"punctualityRate"`
	TaskCompletion  float64 `json:"taskCompletionRate"`
	TotalHours      float64 `json:"totalHours"`
	Score           float64 `json:"performanceScore"`
}
