package payroll

import "math"

// ComputeGross is the hourly formula: logged minutes at the worker's rate.
func ComputeGross(totalMinutes int, hourlyRate float64) float64 {
	return round2(float64(totalMinutes) / 60 * hourlyRate)
}

// ComputeShiftPay applies the store rule to one worked shift. Hours past the
// daily overtime threshold earn the overtime multiplier; late arrival and
// early leave are penalized per minute at their own rates.
func ComputeShiftPay(rule Rule, actualHours float64, lateMinutes, earlyLeaveMinutes int) WorkLog {
	baseHours := math.Min(actualHours, rule.DailyOvertimeThreshold)
	overtimeHours := math.Max(0, actualHours-rule.DailyOvertimeThreshold)

	basePay := baseHours * rule.HourlyWage
	overtimePay := overtimeHours * rule.HourlyWage * rule.OvertimeMultiplier
	penalty := float64(lateMinutes)*rule.LatePenaltyPerMinute +
		float64(earlyLeaveMinutes)*rule.EarlyLeavePenaltyPerMinute

	return WorkLog{
		RuleID:            rule.ID,
		ActualHours:       actualHours,
		BaseHours:         baseHours,
		OvertimeHours:     overtimeHours,
		BasePay:           round2(basePay),
		OvertimePay:       round2(overtimePay),
		LateMinutes:       lateMinutes,
		EarlyLeaveMinutes: earlyLeaveMinutes,
		Penalty:           round2(penalty),
		TotalPay:          round2(basePay + overtimePay - penalty),
	}
}

// SummarizePeriod folds shift pays and adjustment line items into the
// period total. Bonuses add, penalties subtract.
func SummarizePeriod(workerID, month string, workLogs []WorkLog, adjustments []Adjustment) PeriodSummary {
	summary := PeriodSummary{WorkerID: workerID, Month: month, WorkLogs: workLogs, Lines: adjustments}
	for _, wl := range workLogs {
		summary.ShiftPay += wl.TotalPay
	}
	for _, adj := range adjustments {
		switch adj.Type {
		case AdjustmentBonus:
			summary.Bonuses += adj.Amount
		case AdjustmentPenalty:
			summary.Penalties += adj.Amount
		}
	}
	summary.ShiftPay = round2(summary.ShiftPay)
	summary.Bonuses = round2(summary.Bonuses)
	summary.Penalties = round2(summary.Penalties)
	summary.Total = round2(summary.ShiftPay + summary.Bonuses - summary.Penalties)
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
