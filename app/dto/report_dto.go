package dto

import "time"

// TicketReportRequest bounds the reporting window
type TicketReportRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	GroupID   *uint      `json:"group_id,omitempty"`
}

// StatusCount is one row of the per-status breakdown
type StatusCount struct {
	StatusName string `json:"status_name"`
	Count      int64  `json:"count"`
}

// GroupCount is one row of the per-group breakdown
type GroupCount struct {
	GroupID   uint   `json:"group_id"`
	GroupName string `json:"group_name"`
	Count     int64  `json:"count"`
}

// TicketReportResponse summarizes ticket volume for the window
type TicketReportResponse struct {
	Message  string        `json:"message"`
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByGroup  []GroupCount  `json:"by_group"`
}
