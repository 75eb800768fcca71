package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/xuri/excelize/v2"
)

// ReportFlow summarizes ticket volume and exports it as a workbook
type ReportFlow interface {
	TicketReport(ctx context.Context, req *dto.TicketReportRequest) (*dto.TicketReportResponse, error)
	ExportTicketsXLSX(ctx context.Context, req *dto.TicketReportRequest) (string, []byte, error)
}

// ReportFlowImpl implements ReportFlow
type ReportFlowImpl struct {
	ticketRepo   repository.TicketRepository
	customerRepo repository.CustomerRepository
	cfg          config.TicketingConfig
}

func NewReportFlow(
	ticketRepo repository.TicketRepository,
	customerRepo repository.CustomerRepository,
	cfg config.TicketingConfig,
) ReportFlow {
	return &ReportFlowImpl{
		ticketRepo:   ticketRepo,
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// TicketReport returns total, per-status, and per-group counts for the window
func (f *ReportFlowImpl) TicketReport(ctx context.Context, req *dto.TicketReportRequest) (*dto.TicketReportResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE",
			"Start date cannot be after end date", ErrStartDateAfterEndDate)
	}
	filter := reportFilter(req)

	total, err := f.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	byStatus, err := f.ticketRepo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to group tickets by status: %w", err)
	}
	byGroup, err := f.ticketRepo.CountByGroup(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to group tickets by category: %w", err)
	}

	resp := &dto.TicketReportResponse{
		Message:  "Report generated successfully",
		Total:    total,
		ByStatus: make([]dto.StatusCount, 0, len(byStatus)),
		ByGroup:  make([]dto.GroupCount, 0, len(byGroup)),
	}
	for _, row := range byStatus {
		resp.ByStatus = append(resp.ByStatus, dto.StatusCount{
			StatusName: row.StatusName,
			Count:      row.Count,
		})
	}
	for _, row := range byGroup {
		resp.ByGroup = append(resp.ByGroup, dto.GroupCount{
			GroupID:   row.GroupID,
			GroupName: row.GroupName,
			Count:     row.Count,
		})
	}
	return resp, nil
}

// ExportTicketsXLSX builds a workbook with the raw tickets for the window and
// a summary sheet with the per-status breakdown.
func (f *ReportFlowImpl) ExportTicketsXLSX(ctx context.Context, req *dto.TicketReportRequest) (string, []byte, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return "", nil, NewBusinessError("INVALID_DATE_RANGE",
			"Start date cannot be after end date", ErrStartDateAfterEndDate)
	}
	filter := reportFilter(req)

	tickets, err := f.ticketRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_TICKETS_FAILED", "Failed to fetch tickets for export", err)
	}

	customersByID, err := f.loadCustomers(ctx, tickets)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_CUSTOMERS_FAILED", "Failed to fetch customers for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Tickets"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "ticket_number", "title", "status", "closed", "group_id", "customer", "phone", "circuit_number", "created_by", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, t := range tickets {
		customerName := ""
		phone := ""
		if c, ok := customersByID[t.CustomerID]; ok {
			customerName = c.FullName
			phone = c.PhoneNumber
		}
		circuit := ""
		if t.CircuitNumber != nil {
			circuit = *t.CircuitNumber
		}
		closed := "no"
		if t.IsClosed(f.cfg.ClosedStatuses) {
			closed = "yes"
		}
		record := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.TicketNumber,
			t.Title,
			t.StatusName,
			closed,
			strconv.FormatUint(uint64(t.GroupID), 10),
			customerName,
			phone,
			circuit,
			t.CreatedBy,
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	summary := "Summary"
	_, _ = xl.NewSheet(summary)
	summaryHeader := []string{"status", "count"}
	_ = xl.SetSheetRow(summary, "A1", &summaryHeader)

	byStatus, err := f.ticketRepo.CountByStatus(ctx, filter)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_TICKETS_FAILED", "Failed to summarize tickets for export", err)
	}
	for ri, row := range byStatus {
		record := []string{row.StatusName, strconv.FormatInt(row.Count, 10)}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(summary, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return fmt.Sprintf("tickets_%s.xlsx", time.Now().UTC().Format("20060102")), buf.Bytes(), nil
}

func (f *ReportFlowImpl) loadCustomers(ctx context.Context, tickets []*models.Ticket) (map[uint]*models.Customer, error) {
	ids := make([]uint, 0, len(tickets))
	seen := make(map[uint]struct{}, len(tickets))
	for _, t := range tickets {
		if _, ok := seen[t.CustomerID]; !ok {
			seen[t.CustomerID] = struct{}{}
			ids = append(ids, t.CustomerID)
		}
	}
	result := make(map[uint]*models.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	customers, err := f.customerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		result[c.ID] = c
	}
	return result, nil
}

func reportFilter(req *dto.TicketReportRequest) models.TicketFilter {
	return models.TicketFilter{
		GroupID:       req.GroupID,
		CreatedAfter:  req.StartDate,
		CreatedBefore: req.EndDate,
	}
}
