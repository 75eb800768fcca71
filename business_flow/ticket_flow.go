package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/app/services"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ticketFinalizations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ticket_finalizations_total",
		Help: "Ticket finalization attempts partitioned by outcome",
	},
	[]string{"outcome"},
)

// TicketFlow turns a held reservation into a persisted ticket and serves the
// ticket listing and status transitions.
type TicketFlow interface {
	Finalize(ctx context.Context, req *dto.FinalizeTicketRequest, ownerID string, metadata *ClientMetadata) (*dto.FinalizeTicketResponse, error)
	ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error)
	UpdateStatus(ctx context.Context, ticketID uint, req *dto.UpdateTicketStatusRequest, metadata *ClientMetadata) error
}

// TicketFlowImpl implements TicketFlow
type TicketFlowImpl struct {
	db           *gorm.DB
	ticketRepo   repository.TicketRepository
	lockRepo     repository.TicketLockRepository
	customerRepo repository.CustomerRepository
	categoryRepo repository.TicketCategoryRepository
	notifier     services.NotificationService
	rc           *redis.Client
	cacheCfg     config.CacheConfig
}

func NewTicketFlow(
	db *gorm.DB,
	ticketRepo repository.TicketRepository,
	lockRepo repository.TicketLockRepository,
	customerRepo repository.CustomerRepository,
	categoryRepo repository.TicketCategoryRepository,
	notifier services.NotificationService,
	rc *redis.Client,
	cacheCfg config.CacheConfig,
) TicketFlow {
	return &TicketFlowImpl{
		db:           db,
		ticketRepo:   ticketRepo,
		lockRepo:     lockRepo,
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
		rc:           rc,
		cacheCfg:     cacheCfg,
	}
}

// Finalize persists the ticket under the reserved number and consumes the
// lock, all in one transaction. The lock must still be pending, unexpired,
// and owned by the caller; a reservation that fails any of these is never
// silently replaced with a fresh number, the operator has to reserve again.
func (f *TicketFlowImpl) Finalize(ctx context.Context, req *dto.FinalizeTicketRequest, ownerID string, metadata *ClientMetadata) (*dto.FinalizeTicketResponse, error) {
	var (
		ticket   *models.Ticket
		customer *models.Customer
		category *models.TicketCategory
	)

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		lock, err := f.lockRepo.ByNumber(txCtx, req.TicketNumber)
		if err != nil {
			return err
		}
		if lock == nil {
			// reaped or released; treat like an expired lease
			return NewBusinessError("RESERVATION_EXPIRED",
				"Ticket number reservation has expired, please reserve again", ErrLockExpired)
		}
		if lock.Status == models.LockStatusUsed {
			return NewBusinessError("TICKET_NUMBER_USED",
				"Ticket number was already used", ErrLockAlreadyUsed)
		}
		if lock.OwnerID != ownerID {
			return NewBusinessError("RESERVATION_NOT_YOURS",
				"Ticket number is reserved by another operator", ErrLockOwnershipMismatch)
		}
		if !lock.IsPending() {
			return NewBusinessError("RESERVATION_EXPIRED",
				"Ticket number reservation has expired, please reserve again", ErrLockExpired)
		}

		customer, err = getCustomer(txCtx, f.customerRepo, req.CustomerID)
		if err != nil {
			return err
		}
		if req.CircuitNumber != nil && *req.CircuitNumber != "" && !customer.HasCircuit(*req.CircuitNumber) {
			return NewBusinessError("CIRCUIT_NOT_OWNED",
				"Circuit number does not belong to the customer", ErrCircuitNotOwned)
		}

		category, err = f.categoryRepo.ByID(txCtx, req.GroupID)
		if err != nil {
			return err
		}
		if category == nil {
			return NewBusinessError("CATEGORY_NOT_FOUND",
				"Ticket category not found", ErrCategoryNotFound)
		}

		existing, err := f.ticketRepo.ByTicketNumber(txCtx, req.TicketNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return NewBusinessError("TICKET_NUMBER_USED",
				"A ticket with this number already exists", ErrTicketNumberExists)
		}

		ticket = &models.Ticket{
			TicketNumber:  req.TicketNumber,
			CustomerID:    customer.ID,
			CircuitNumber: req.CircuitNumber,
			Title:         req.Title,
			Content:       req.Content,
			StatusName:    models.TicketStatusOpen,
			GroupID:       category.ID,
			CreatedBy:     ownerID,
			Files:         pq.StringArray(req.Files),
		}
		if err := f.ticketRepo.Save(txCtx, ticket); err != nil {
			return fmt.Errorf("failed to save ticket: %w", err)
		}

		used, err := f.lockRepo.MarkUsed(txCtx, req.TicketNumber, ownerID, utils.UTCNow())
		if err != nil {
			return err
		}
		if !used {
			// the pending lock vanished between the read above and this
			// update, which means the reaper or a release got there first
			return NewBusinessError("RESERVATION_EXPIRED",
				"Ticket number reservation has expired, please reserve again", ErrLockExpired)
		}
		return nil
	})
	if err != nil {
		ticketFinalizations.WithLabelValues(finalizeOutcome(err)).Inc()
		return nil, err
	}

	ticketFinalizations.WithLabelValues("success").Inc()
	dropActiveReservation(ctx, f.rc, f.cacheCfg.RedisPrefix, ownerID)

	if f.notifier != nil {
		if err := f.notifier.NotifyTicketCreated(ctx, customer, ticket); err != nil {
			log.Printf("failed to notify customer %d about ticket %s: %v", customer.ID, ticket.TicketNumber, err)
		}
		if category.OnCallMobile != nil {
			if err := f.notifier.NotifyOnCall(ctx, *category.OnCallMobile, ticket); err != nil {
				log.Printf("failed to page on-call for group %d about ticket %s: %v", category.ID, ticket.TicketNumber, err)
			}
		}
	}

	return &dto.FinalizeTicketResponse{
		Message:      "Ticket created successfully",
		ID:           ticket.ID,
		UUID:         ticket.UUID.String(),
		TicketNumber: ticket.TicketNumber,
		StatusName:   ticket.StatusName,
		CreatedAt:    ticket.CreatedAt.Format(time.RFC3339),
	}, nil
}

func finalizeOutcome(err error) string {
	switch {
	case errors.Is(err, ErrLockExpired):
		return "lock_expired"
	case errors.Is(err, ErrLockOwnershipMismatch):
		return "ownership_mismatch"
	case errors.Is(err, ErrLockAlreadyUsed), errors.Is(err, ErrTicketNumberExists):
		return "already_used"
	default:
		return "error"
	}
}

// ListTickets returns a filtered, paginated page of tickets enriched with
// customer contact details.
func (f *TicketFlowImpl) ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE",
			"Start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	filter := models.TicketFilter{
		CustomerID:    req.CustomerID,
		StatusName:    req.StatusName,
		GroupID:       req.GroupID,
		CreatedAfter:  req.StartDate,
		CreatedBefore: req.EndDate,
	}

	total, err := f.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	rows, err := f.ticketRepo.ByFilter(ctx, filter, "id DESC", int(pageSize), int((page-1)*pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	customerIDs := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, t := range rows {
		if _, ok := seen[t.CustomerID]; !ok {
			seen[t.CustomerID] = struct{}{}
			customerIDs = append(customerIDs, t.CustomerID)
		}
	}

	customersByID := make(map[uint]*models.Customer, len(customerIDs))
	if len(customerIDs) > 0 {
		customers, err := f.customerRepo.FindByIDs(ctx, customerIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load ticket customers: %w", err)
		}
		for _, c := range customers {
			customersByID[c.ID] = c
		}
	}

	items := make([]dto.TicketItem, 0, len(rows))
	for _, t := range rows {
		item := dto.TicketItem{
			ID:            t.ID,
			TicketNumber:  t.TicketNumber,
			Title:         t.Title,
			StatusName:    t.StatusName,
			GroupID:       t.GroupID,
			CustomerID:    t.CustomerID,
			CircuitNumber: t.CircuitNumber,
			CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		}
		if c, ok := customersByID[t.CustomerID]; ok {
			item.CustomerName = &c.FullName
			item.CustomerPhone = &c.PhoneNumber
		}
		items = append(items, item)
	}

	return &dto.ListTicketsResponse{
		Message: "Tickets retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

// UpdateStatus moves a ticket to a new workflow status and notifies the
// customer best effort.
func (f *TicketFlowImpl) UpdateStatus(ctx context.Context, ticketID uint, req *dto.UpdateTicketStatusRequest, metadata *ClientMetadata) error {
	ticket, err := f.ticketRepo.ByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}

	if err := f.ticketRepo.UpdateStatus(ctx, ticket.ID, req.StatusName); err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	ticket.StatusName = req.StatusName

	if f.notifier != nil {
		customer, err := f.customerRepo.ByID(ctx, ticket.CustomerID)
		if err == nil && customer != nil {
			if err := f.notifier.NotifyTicketStatusChanged(ctx, customer, ticket); err != nil {
				log.Printf("failed to notify customer %d about ticket %s status: %v", customer.ID, ticket.TicketNumber, err)
			}
		}
	}
	return nil
}
