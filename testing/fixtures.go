// Package testing provides test utilities and database setup for testing the ticketing system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/utils"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active operator with the given role.
// The password is always "TestPass123!".
func (tf *TestFixtures) CreateTestUser(role string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     fmt.Sprintf("operator_%d", rand.Intn(100000000)),
		FullName:     "Test Operator",
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestCustomer creates an active customer with the given circuit numbers
func (tf *TestFixtures) CreateTestCustomer(circuits ...string) (*models.Customer, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	customer := &models.Customer{
		FullName:       "Ayşe Yılmaz",
		PhoneNumber:    fmt.Sprintf("+90%s", randomDigits),
		CircuitNumbers: pq.StringArray(circuits),
		IsActive:       utils.ToPtr(true),
	}
	if customer.CircuitNumbers == nil {
		customer.CircuitNumbers = pq.StringArray{}
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateTestCategory creates a ticket category
func (tf *TestFixtures) CreateTestCategory(name string) (*models.TicketCategory, error) {
	category := &models.TicketCategory{
		Name:     name,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}

	return category, nil
}

// CreateTestCounter seeds a sequence counter at the given value
func (tf *TestFixtures) CreateTestCounter(name string, lastValue int64) (*models.SequenceCounter, error) {
	counter := &models.SequenceCounter{
		Name:      name,
		LastValue: lastValue,
	}

	if err := tf.DB.DB.Create(counter).Error; err != nil {
		return nil, fmt.Errorf("failed to create test counter: %w", err)
	}

	return counter, nil
}

// CreateTestLock creates a pending lock on the given ticket number
func (tf *TestFixtures) CreateTestLock(ticketNumber, ownerID string, ttl time.Duration) (*models.TicketLock, error) {
	lock := &models.TicketLock{
		TicketNumber: ticketNumber,
		OwnerID:      ownerID,
		Status:       models.LockStatusPending,
		ExpiresAt:    utils.UTCNowAdd(ttl),
	}

	if err := tf.DB.DB.Create(lock).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lock: %w", err)
	}

	return lock, nil
}

// CreateTestTicket creates a ticket for the customer in the given status
func (tf *TestFixtures) CreateTestTicket(customer *models.Customer, groupID uint, statusName string, circuitNumber *string) (*models.Ticket, error) {
	ticket := &models.Ticket{
		TicketNumber:  fmt.Sprintf("1-%06d", rand.Intn(900000)+100000),
		CustomerID:    customer.ID,
		CircuitNumber: circuitNumber,
		Title:         "Hat kesik",
		Content:       "Müşteri hattında ses yok",
		StatusName:    statusName,
		GroupID:       groupID,
		CreatedBy:     "user:1",
		Files:         pq.StringArray{},
	}

	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}

	return ticket, nil
}

// CreateTestShift creates a shift for the user over the given window
func (tf *TestFixtures) CreateTestShift(userID uint, startsAt, endsAt time.Time) (*models.Shift, error) {
	shift := &models.Shift{
		UserID:   userID,
		StartsAt: startsAt.UTC(),
		EndsAt:   endsAt.UTC(),
	}

	if err := tf.DB.DB.Create(shift).Error; err != nil {
		return nil, fmt.Errorf("failed to create test shift: %w", err)
	}

	return shift, nil
}

// CreateTestMessage creates a message between two operators
func (tf *TestFixtures) CreateTestMessage(senderID, recipientID uint, body string) (*models.Message, error) {
	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}

	if err := tf.DB.DB.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create test message: %w", err)
	}

	return message, nil
}
