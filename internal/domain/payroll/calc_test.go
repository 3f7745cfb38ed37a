package payroll

import "testing"

func TestComputeGross(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		rate    float64
		want    float64
	}{
		{"zero minutes", 0, 15, 0},
		{"whole hours", 480, 12.5, 100},
		{"partial hour", 90, 10, 15},
		{"rounds to cents", 50, 10, 8.33},
	}
	for _, tt := range tests {
		if got := ComputeGross(tt.minutes, tt.rate); got != tt.want {
			t.Fatalf("%s: ComputeGross(%d, %v) = %v, want %v", tt.name, tt.minutes, tt.rate, got, tt.want)
		}
	}
}

func TestComputeShiftPay(t *testing.T) {
	rule := Rule{
		ID:                         "r1",
		HourlyWage:                 10,
		DailyOvertimeThreshold:     8,
		OvertimeMultiplier:         1.5,
		LatePenaltyPerMinute:       0.5,
		EarlyLeavePenaltyPerMinute: 0.25,
	}

	t.Run("no overtime no penalty", func(t *testing.T) {
		wl := ComputeShiftPay(rule, 6, 0, 0)
		if wl.BaseHours != 6 || wl.OvertimeHours != 0 {
			t.Fatalf("unexpected hours split: %+v", wl)
		}
		if wl.BasePay != 60 || wl.OvertimePay != 0 || wl.TotalPay != 60 {
			t.Fatalf("unexpected pay: %+v", wl)
		}
	})

	t.Run("overtime at multiplier", func(t *testing.T) {
		wl := ComputeShiftPay(rule, 10, 0, 0)
		if wl.BaseHours != 8 || wl.OvertimeHours != 2 {
			t.Fatalf("unexpected hours split: %+v", wl)
		}
		// 8×10 + 2×10×1.5
		if wl.BasePay != 80 || wl.OvertimePay != 30 || wl.TotalPay != 110 {
			t.Fatalf("unexpected pay: %+v", wl)
		}
	})

	t.Run("distinct penalty rates", func(t *testing.T) {
		wl := ComputeShiftPay(rule, 8, 10, 20)
		// 10×0.5 + 20×0.25
		if wl.Penalty != 10 {
			t.Fatalf("expected penalty 10, got %v", wl.Penalty)
		}
		if wl.TotalPay != 70 {
			t.Fatalf("expected total 70, got %v", wl.TotalPay)
		}
	})

	t.Run("rule id carried", func(t *testing.T) {
		if wl := ComputeShiftPay(rule, 1, 0, 0); wl.RuleID != "r1" {
			t.Fatalf("expected rule id on work log, got %q", wl.RuleID)
		}
	})
}

func TestSummarizePeriod(t *testing.T) {
	workLogs := []WorkLog{
		{TotalPay: 100},
		{TotalPay: 85.5},
	}
	adjustments := []Adjustment{
		{Type: AdjustmentBonus, Amount: 50},
		{Type: AdjustmentPenalty, Amount: 20},
		{Type: AdjustmentBonus, Amount: 10},
	}

	summary := SummarizePeriod("w1", "2026-03", workLogs, adjustments)
	if summary.ShiftPay != 185.5 {
		t.Fatalf("expected shift pay 185.5, got %v", summary.ShiftPay)
	}
	if summary.Bonuses != 60 || summary.Penalties != 20 {
		t.Fatalf("unexpected adjustment totals: %+v", summary)
	}
	if summary.Total != 225.5 {
		t.Fatalf("expected total 225.5, got %v", summary.Total)
	}
}

func TestSummarizePeriodEmpty(t *testing.T) {
	summary := SummarizePeriod("w1", "2026-03", nil, nil)
	if summary.Total != 0 {
		t.Fatalf("expected zero total, got %v", summary.Total)
	}
}
