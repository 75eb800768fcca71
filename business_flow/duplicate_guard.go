package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
)

// DuplicateGuardFlow checks whether a candidate ticket submission collides
// with tickets that are still open. The check is advisory: it never blocks
// allocation or finalization on its own, the caller decides what to do with
// the conflicts.
type DuplicateGuardFlow interface {
	CheckDuplicates(ctx context.Context, req *dto.DuplicateCheckRequest, metadata *ClientMetadata) (*dto.DuplicateCheckResponse, error)
}

// DuplicateGuardFlowImpl implements DuplicateGuardFlow
type DuplicateGuardFlowImpl struct {
	ticketRepo   repository.TicketRepository
	customerRepo repository.CustomerRepository
	cfg          config.TicketingConfig
}

func NewDuplicateGuardFlow(
	ticketRepo repository.TicketRepository,
	customerRepo repository.CustomerRepository,
	cfg config.TicketingConfig,
) DuplicateGuardFlow {
	return &DuplicateGuardFlowImpl{
		ticketRepo:   ticketRepo,
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// CheckDuplicates collects open tickets of the same customer (whatever their
// circuit) and open tickets on the same circuit (whoever their customer).
// A ticket counts as open when its status does not contain any configured
// closed status name, case-insensitively.
func (f *DuplicateGuardFlowImpl) CheckDuplicates(ctx context.Context, req *dto.DuplicateCheckRequest, metadata *ClientMetadata) (*dto.DuplicateCheckResponse, error) {
	customer, err := getCustomer(ctx, f.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DuplicateCheckResponse{
		CustomerConflicts: []dto.ConflictingTicket{},
		CircuitConflicts:  []dto.ConflictingTicket{},
	}

	byCustomer, err := f.ticketRepo.OpenByCustomer(ctx, customer.ID, f.cfg.ClosedStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer tickets: %w", err)
	}
	for _, t := range byCustomer {
		resp.CustomerConflicts = append(resp.CustomerConflicts, toConflictingTicket(t))
	}

	if req.CircuitNumber != nil && *req.CircuitNumber != "" {
		byCircuit, err := f.ticketRepo.OpenByCircuit(ctx, *req.CircuitNumber, f.cfg.ClosedStatuses)
		if err != nil {
			return nil, fmt.Errorf("failed to query circuit tickets: %w", err)
		}
		for _, t := range byCircuit {
			if t.CustomerID == customer.ID {
				// already reported as a customer conflict
				continue
			}
			resp.CircuitConflicts = append(resp.CircuitConflicts, toConflictingTicket(t))
		}
	}

	if resp.HasConflicts() && metadata != nil {
		log.Printf("Duplicate check found %d customer and %d circuit conflicts for customer %d (ip: %s)",
			len(resp.CustomerConflicts), len(resp.CircuitConflicts), customer.ID, metadata.IPAddress)
	}

	return resp, nil
}

func toConflictingTicket(t *models.Ticket) dto.ConflictingTicket {
	return dto.ConflictingTicket{
		TicketNumber: t.TicketNumber,
		Title:        t.Title,
		StatusName:   t.StatusName,
		CustomerID:   t.CustomerID,
		CreatedAt:    t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
