package ranking

import (
	"math"
	"sort"
)

const (
	weightAttendance  = 0.4
	weightPunctuality = 0.3
	weightTasks       = 0.3
)

// BuildRanking turns raw tallies into the sorted report. A worker with no
// shifts (or no tasks) scores 100 on that axis rather than 0, so new hires
// do not sink to the bottom of the list.
func BuildRanking(stats []WorkerStats) []RankedWorker {
	ranked := make([]RankedWorker, 0, len(stats))
	for _, st := range stats {
		attendance := rate(st.AttendedShifts, st.TotalShifts)
		punctuality := rate(st.PunctualShifts, st.AttendedShifts)
		tasks := rate(st.TasksCompleted, st.TasksAssigned)
		ranked = append(ranked, RankedWorker{
			WorkerID:        st.WorkerID,
			Name:            st.Name,
			TotalShifts:     st.TotalShifts,
			AttendedShifts:  st.AttendedShifts,
			AttendanceRate:  attendance,
			PunctualityRate: punctuality,
			TaskCompletion:  tasks,
			TotalHours:      math.Round(float64(st.TotalMinutes)/60*100) / 100,
			Score:           round2(attendance*weightAttendance + punctuality*weightPunctuality + tasks*weightTasks),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.AttendanceRate != b.AttendanceRate {
			return a.AttendanceRate > b.AttendanceRate
		}
		// Equal imperfect attendance: the worker who missed out of fewer
		// shifts ranks higher.
		if a.AttendanceRate < 100 && a.TotalShifts != b.TotalShifts {
			return a.TotalShifts < b.TotalShifts
		}
		if a.PunctualityRate != b.PunctualityRate {
			return a.PunctualityRate > b.PunctualityRate
		}
		if a.TotalHours != b.TotalHours {
			return a.TotalHours > b.TotalHours
		}
		return a.Name < b.Name
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func rate(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
