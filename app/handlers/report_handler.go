package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ReportHandlerInterface defines the contract for report handlers
type ReportHandlerInterface interface {
	Summary(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	flow businessflow.ReportFlow
}

// NewReportHandler creates a new report handler
func NewReportHandler(flow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{flow: flow}
}

func reportRequest(c fiber.Ctx) *dto.TicketReportRequest {
	var req dto.TicketReportRequest
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			req.StartDate = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			req.EndDate = &t
		}
	}
	if v := c.Query("group_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			groupID := uint(id)
			req.GroupID = &groupID
		}
	}
	return &req
}

// Ticket Report
// @Description Summarize ticket volume for a window: total, per-status, and per-group counts.
// @Tags Reports
// @Produce json
// @Param from query string false "RFC3339 window start"
// @Param to query string false "RFC3339 window end"
// @Param group_id query int false "Routing group ID"
// @Success 200 {object} dto.APIResponse{data=dto.TicketReportResponse} "Report generated successfully"
// @Router /api/v1/reports/tickets [get]
func (h *ReportHandler) Summary(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.TicketReport(ctx, reportRequest(c))
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", "REPORT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Report generated successfully", result)
}

// Export Tickets XLSX
// @Description Download the tickets for a window as an Excel workbook with a summary sheet.
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "RFC3339 window start"
// @Param to query string false "RFC3339 window end"
// @Param group_id query int false "Routing group ID"
// @Success 200 {file} binary "Workbook"
// @Router /api/v1/reports/tickets/export [get]
func (h *ReportHandler) Export(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	filename, data, err := h.flow.ExportTicketsXLSX(ctx, reportRequest(c))
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export report", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
