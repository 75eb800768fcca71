package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"github.com/lib/pq"
)

// CustomerFlow covers subscriber registration and maintenance
type CustomerFlow interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerItem, error)
	UpdateCustomer(ctx context.Context, customerID uint, req *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerItem, error)
	GetCustomer(ctx context.Context, customerID uint) (*dto.CustomerItem, error)
	ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error)
}

// CustomerFlowImpl implements CustomerFlow
type CustomerFlowImpl struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerFlow(customerRepo repository.CustomerRepository) CustomerFlow {
	return &CustomerFlowImpl{customerRepo: customerRepo}
}

// CreateCustomer registers a new subscriber
func (f *CustomerFlowImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerItem, error) {
	customer := &models.Customer{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Address:        req.Address,
		CircuitNumbers: pq.StringArray(req.CircuitNumbers),
		IsActive:       utils.ToPtr(true),
	}
	if customer.CircuitNumbers == nil {
		customer.CircuitNumbers = pq.StringArray{}
	}
	if err := f.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	item := toCustomerItem(customer)
	return &item, nil
}

// UpdateCustomer applies partial updates to a subscriber
func (f *CustomerFlowImpl) UpdateCustomer(ctx context.Context, customerID uint, req *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerItem, error) {
	customer, err := f.customerRepo.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}

	if req.FullName != nil {
		customer.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		customer.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.CircuitNumbers != nil {
		customer.CircuitNumbers = pq.StringArray(req.CircuitNumbers)
	}
	if req.IsActive != nil {
		customer.IsActive = req.IsActive
	}
	customer.UpdatedAt = utils.UTCNow()

	if err := f.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	item := toCustomerItem(customer)
	return &item, nil
}

// GetCustomer returns a single subscriber by ID
func (f *CustomerFlowImpl) GetCustomer(ctx context.Context, customerID uint) (*dto.CustomerItem, error) {
	customer, err := f.customerRepo.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}
	item := toCustomerItem(customer)
	return &item, nil
}

// ListCustomers returns a filtered, paginated page of subscribers
func (f *CustomerFlowImpl) ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	filter := models.CustomerFilter{
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		CircuitNumber: req.CircuitNumber,
	}

	total, err := f.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	rows, err := f.customerRepo.ByFilter(ctx, filter, "id DESC", int(pageSize), int((page-1)*pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	items := make([]dto.CustomerItem, 0, len(rows))
	for _, c := range rows {
		items = append(items, toCustomerItem(c))
	}
	return &dto.ListCustomersResponse{
		Message: "Customers retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

func toCustomerItem(c *models.Customer) dto.CustomerItem {
	return dto.CustomerItem{
		ID:             c.ID,
		UUID:           c.UUID.String(),
		FullName:       c.FullName,
		PhoneNumber:    c.PhoneNumber,
		Email:          c.Email,
		Address:        c.Address,
		CircuitNumbers: c.CircuitNumbers,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
