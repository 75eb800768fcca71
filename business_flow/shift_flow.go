package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
)

// ShiftFlow covers operator work scheduling
type ShiftFlow interface {
	CreateShift(ctx context.Context, req *dto.CreateShiftRequest, metadata *ClientMetadata) (*dto.ShiftItem, error)
	ListShifts(ctx context.Context, req *dto.ListShiftsRequest) (*dto.ListShiftsResponse, error)
	DeleteShift(ctx context.Context, shiftID uint, metadata *ClientMetadata) error
}

// ShiftFlowImpl implements ShiftFlow
type ShiftFlowImpl struct {
	shiftRepo repository.ShiftRepository
	userRepo  repository.UserRepository
}

func NewShiftFlow(shiftRepo repository.ShiftRepository, userRepo repository.UserRepository) ShiftFlow {
	return &ShiftFlowImpl{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
	}
}

// CreateShift schedules a working interval. The interval must be well formed
// and must not overlap any existing shift of the same operator.
func (f *ShiftFlowImpl) CreateShift(ctx context.Context, req *dto.CreateShiftRequest, metadata *ClientMetadata) (*dto.ShiftItem, error) {
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, NewBusinessError("SHIFT_INVERTED", "Shift must end after it starts", ErrShiftInverted)
	}

	user, err := getUser(ctx, f.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	overlapping, err := f.shiftRepo.Overlapping(ctx, user.ID, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlapping shifts: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, NewBusinessError("SHIFT_OVERLAP", "Shift overlaps an existing shift", ErrShiftOverlap)
	}

	shift := &models.Shift{
		UserID:   user.ID,
		StartsAt: req.StartsAt.UTC(),
		EndsAt:   req.EndsAt.UTC(),
		Note:     req.Note,
	}
	if err := f.shiftRepo.Save(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}

	item := toShiftItem(shift, user)
	return &item, nil
}

// ListShifts returns shifts matching the filter, earliest first
func (f *ShiftFlowImpl) ListShifts(ctx context.Context, req *dto.ListShiftsRequest) (*dto.ListShiftsResponse, error) {
	filter := models.ShiftFilter{
		UserID:      req.UserID,
		StartsAfter: req.StartsAfter,
		EndsBefore:  req.EndsBefore,
	}

	rows, err := f.shiftRepo.ByFilter(ctx, filter, "starts_at ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	userIDs := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, s := range rows {
		if _, ok := seen[s.UserID]; !ok {
			seen[s.UserID] = struct{}{}
			userIDs = append(userIDs, s.UserID)
		}
	}
	usersByID := make(map[uint]*models.User, len(userIDs))
	for _, id := range userIDs {
		user, err := f.userRepo.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			usersByID[id] = user
		}
	}

	items := make([]dto.ShiftItem, 0, len(rows))
	for _, s := range rows {
		items = append(items, toShiftItem(s, usersByID[s.UserID]))
	}
	return &dto.ListShiftsResponse{
		Message: "Shifts retrieved successfully",
		Items:   items,
	}, nil
}

// DeleteShift removes a scheduled shift
func (f *ShiftFlowImpl) DeleteShift(ctx context.Context, shiftID uint, metadata *ClientMetadata) error {
	shift, err := f.shiftRepo.ByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if shift == nil {
		return NewBusinessError("SHIFT_NOT_FOUND", "Shift not found", ErrShiftNotFound)
	}
	if err := f.shiftRepo.Delete(ctx, shift.ID); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

func toShiftItem(s *models.Shift, user *models.User) dto.ShiftItem {
	item := dto.ShiftItem{
		ID:       s.ID,
		UserID:   s.UserID,
		StartsAt: s.StartsAt.Format(time.RFC3339),
		EndsAt:   s.EndsAt.Format(time.RFC3339),
		Note:     s.Note,
	}
	if user != nil {
		item.UserName = &user.FullName
	}
	return item
}
