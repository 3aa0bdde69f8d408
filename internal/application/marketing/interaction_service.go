// Package marketing contains application services for interaction tracking
// and client requests.
package marketing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/marketing"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RecordInteractionRequest is the payload for recording a storefront action
type RecordInteractionRequest struct {
	ActionType marketing.ActionType `json:"action_type" binding:"required"`
	TargetType marketing.TargetType `json:"target_type" binding:"required"`
	TargetID   uuid.UUID            `json:"target_id" binding:"required"`
}

// CreateRequestRequest is the payload for filing a client request
type CreateRequestRequest struct {
	RequestType marketing.RequestType `json:"request_type" binding:"required"`
	ProductID   *uuid.UUID            `json:"product_id"`
	OrderID     *uuid.UUID            `json:"order_id"`
	Message     string                `json:"message" binding:"required,max=4000"`
}

// InteractionResponse is the API shape of an interaction row
type InteractionResponse struct {
	ID           uuid.UUID            `json:"id"`
	ClientID     uuid.UUID            `json:"client_id"`
	ActionType   marketing.ActionType `json:"action_type"`
	TargetType   marketing.TargetType `json:"target_type"`
	TargetID     uuid.UUID            `json:"target_id"`
	ViewCount    int64                `json:"view_count"`
	LastViewedAt time.Time            `json:"last_viewed_at"`
}

// RequestResponse is the API shape of a client request
type RequestResponse struct {
	ID          uuid.UUID             `json:"id"`
	ClientID    uuid.UUID             `json:"client_id"`
	RequestType marketing.RequestType `json:"request_type"`
	ProductID   *uuid.UUID            `json:"product_id,omitempty"`
	OrderID     *uuid.UUID            `json:"order_id,omitempty"`
	Message     string                `json:"message"`
	IsProcessed bool                  `json:"is_processed"`
	ProcessedAt *time.Time            `json:"processed_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// InteractionService records storefront interactions and client requests
type InteractionService struct {
	interactions marketing.UserInteractionRepository
	requests     marketing.UserRequestRepository
	logger       *zap.Logger
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	interactions marketing.UserInteractionRepository,
	requests marketing.UserRequestRepository,
	logger *zap.Logger,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		requests:     requests,
		logger:       logger,
	}
}

// Record upserts an interaction: a repeat action on the same target bumps the
// view counter instead of inserting a new row. The target-validation hook
// rejects targets that no longer exist.
func (s *InteractionService) Record(ctx context.Context, clientID uuid.UUID, req RecordInteractionRequest) (*InteractionResponse, error) {
	interaction, err := s.interactions.FindByClientAndTarget(ctx, clientID, req.TargetType, req.TargetID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		interaction, err = marketing.NewUserInteraction(clientID, req.ActionType, req.TargetType, req.TargetID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		interaction.RecordRepeat(time.Now())
	}

	if err := s.interactions.Save(ctx, interaction); err != nil {
		return nil, err
	}
	return toInteractionResponse(interaction), nil
}

// ViewCount totals recorded views for one target
func (s *InteractionService) ViewCount(ctx context.Context, target marketing.TargetType, targetID uuid.UUID) (int64, error) {
	return s.interactions.CountByTarget(ctx, target, targetID)
}

// CreateRequest files a new client request
func (s *InteractionService) CreateRequest(ctx context.Context, clientID uuid.UUID, req CreateRequestRequest) (*RequestResponse, error) {
	request, err := marketing.NewUserRequest(clientID, req.RequestType, req.ProductID, req.OrderID, req.Message)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	return toRequestResponse(request), nil
}

// ProcessRequest marks a request handled by the acting staff member
func (s *InteractionService) ProcessRequest(ctx context.Context, requestID uuid.UUID) (*RequestResponse, error) {
	staffID, ok := shared.ActorFrom(ctx)
	if !ok {
		return nil, shared.NewDomainError("NO_ACTOR", "processing a request requires a staff session")
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := request.MarkProcessed(staffID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	return toRequestResponse(request), nil
}

// ListUnprocessed lists requests awaiting staff attention, oldest first
func (s *InteractionService) ListUnprocessed(ctx context.Context, filter shared.Filter) ([]RequestResponse, error) {
	requests, err := s.requests.FindUnprocessed(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = *toRequestResponse(&requests[i])
	}
	return responses, nil
}

func toInteractionResponse(i *marketing.UserInteraction) *InteractionResponse {
	return &InteractionResponse{
		ID:           i.ID,
		ClientID:     i.ClientID,
		ActionType:   i.ActionType,
		TargetType:   i.TargetType,
		TargetID:     i.TargetID,
		ViewCount:    i.ViewCount,
		LastViewedAt: i.LastViewedAt,
	}
}

func toRequestResponse(r *marketing.UserRequest) *RequestResponse {
	return &RequestResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		RequestType: r.RequestType,
		ProductID:   r.ProductID,
		OrderID:     r.OrderID,
		Message:     r.Message,
		IsProcessed: r.IsProcessed,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
	}
}
