package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/HanapBahay/service-booking/internal/domain/booking"
	roomDomain "github.com/HanapBahay/service-booking/internal/domain/room"
	"github.com/HanapBahay/service-booking/internal/payment"
	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
	"github.com/HanapBahay/service-booking/internal/pkg/kafka"
)

// EventPublisher is the outbound port for lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// GatewayProofRecorder stores the payment id the gateway reported for a
// booking as a proof record. *ProofService satisfies it.
type GatewayProofRecorder interface {
	RecordGatewayProof(ctx context.Context, bookingID, tenantID uuid.UUID, paymentID string) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	CheckInDate  time.Time `json:"check_in_date" binding:"required"`
	CheckOutDate time.Time `json:"check_out_date" binding:"required"`
	Message      string    `json:"message"`
}

// ApproveBookingRequest is the owner-approval payload.
type ApproveBookingRequest struct {
	Message string `json:"message"`
}

// RejectBookingRequest is the owner-rejection payload. Reason is required.
type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VerifyPaymentRequest is the owner's payment-review payload.
type VerifyPaymentRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
	Remarks   string `json:"remarks"`
}

// CancelBookingRequest is the cancellation payload.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CheckoutSessionDTO is returned to the tenant after a session is created.
type CheckoutSessionDTO struct {
	PaymentID   string `json:"payment_id"`
	ClientKey   string `json:"client_key"`
	CheckoutURL string `json:"checkout_url"`
}

// BookingDTO is the response representation of a booking. Amounts serialize
// as decimal strings; dates as ISO-8601.
type BookingDTO struct {
	ID              uuid.UUID                      `json:"id"`
	Reference       string                         `json:"reference"`
	TenantID        uuid.UUID                      `json:"tenant_id"`
	RoomID          uuid.UUID                      `json:"room_id"`
	BoardingHouseID uuid.UUID                      `json:"boarding_house_id"`
	OwnerID         uuid.UUID                      `json:"owner_id"`
	Status          string                         `json:"status"`
	CheckInDate     time.Time                      `json:"check_in_date"`
	CheckOutDate    time.Time                      `json:"check_out_date"`
	TotalAmount     decimal.Decimal                `json:"total_amount"`
	Currency        string                         `json:"currency"`
	PaymentProofID  string                         `json:"payment_proof_id,omitempty"`
	Session         *bookingDomain.CheckoutSession `json:"checkout_session,omitempty"`
	OwnerMessage    string                         `json:"owner_message,omitempty"`
	TenantMessage   string                         `json:"tenant_message,omitempty"`
	ExpiresAt       *time.Time                     `json:"expires_at,omitempty"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: role gate, then state machine, then store, then event emission.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	roomRepo roomDomain.RoomRepository
	gateway  payment.Gateway
	producer EventPublisher
	proofs   GatewayProofRecorder
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	roomRepo roomDomain.RoomRepository,
	gateway payment.Gateway,
	producer EventPublisher,
	proofs GatewayProofRecorder,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		roomRepo: roomRepo,
		gateway:  gateway,
		producer: producer,
		proofs:   proofs,
		logger:   logger,
	}
}

// CreateBooking creates a PENDING_REQUEST booking for the tenant against a
// room. Owner and price are resolved through the room; availability overlap
// is checked here, at creation, and never re-checked by later transitions.
func (s *BookingService) CreateBooking(ctx context.Context, tenantID, roomID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	rm, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsBookable() {
		return nil, domain.NewValidationError("room is not open for booking")
	}

	total, err := rm.PriceStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.CountActiveOverlapping(ctx, roomID, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check room availability: %w", err)
	}
	if overlapping > 0 {
		return nil, domain.NewConflictError("room is not available for the selected dates")
	}

	bk, err := bookingDomain.NewBooking(
		tenantID,
		rm.ID(),
		rm.BoardingHouseID(),
		rm.OwnerID(),
		req.CheckInDate,
		req.CheckOutDate,
		total,
		domain.CurrencyPHP,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishLifecycle(ctx, bookingDomain.BookingRequested, bk, bookingDomain.StatusPendingRequest, req.Message)

	result := toBookingDTO(bk)
	return &result, nil
}

// ApproveBooking moves a PENDING_REQUEST booking to AWAITING_PAYMENT.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, ownerID uuid.UUID, req ApproveBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(auth.RoleOwner, ownerID, bookingDomain.ActionApprove); err != nil {
		return nil, err
	}

	oldStatus := bk.Status()
	if err := bk.Approve(req.Message); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycle(ctx, bookingDomain.BookingApproved, bk, oldStatus, req.Message)

	result := toBookingDTO(bk)
	return &result, nil
}

// RejectBooking moves a PENDING_REQUEST booking to REJECTED_BOOKING.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, ownerID uuid.UUID, req RejectBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(auth.RoleOwner, ownerID, bookingDomain.ActionReject); err != nil {
		return nil, err
	}

	oldStatus := bk.Status()
	if err := bk.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycle(ctx, bookingDomain.BookingRejected, bk, oldStatus, req.Reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a PENDING_REQUEST booking on behalf of its tenant
// or its owner.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, role auth.Role, actorID uuid.UUID, req CancelBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(role, actorID, bookingDomain.ActionCancel); err != nil {
		return nil, err
	}

	oldStatus := bk.Status()
	if err := bk.Cancel(role, req.Reason); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycle(ctx, bookingDomain.BookingCancelled, bk, oldStatus, req.Reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// CreateCheckoutSession asks the gateway for a checkout session on an
// AWAITING_PAYMENT booking. The status does not change; the session is
// recorded on the booking and its URL returned to the tenant.
func (s *BookingService) CreateCheckoutSession(ctx context.Context, bookingID, tenantID uuid.UUID) (*CheckoutSessionDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(auth.RoleTenant, tenantID, bookingDomain.ActionCreateCheckout); err != nil {
		return nil, err
	}

	// Refuse before contacting the gateway. A wrong-state or duplicate
	// request must not leave an orphaned session at the provider.
	if err := bk.CanAttachCheckoutSession(); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, bk)
	if err != nil {
		return nil, err
	}

	if err := bk.AttachCheckoutSession(session); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("payment_id", session.PaymentID),
	)

	return &CheckoutSessionDTO{
		PaymentID:   session.PaymentID,
		ClientKey:   session.ClientKey,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

// ApplyGatewayRedirect reconciles a gateway redirect into a transition.
// A success redirect submits the payment for owner review; a cancel
// redirect abandons the session and leaves the booking AWAITING_PAYMENT.
func (s *BookingService) ApplyGatewayRedirect(ctx context.Context, req payment.TransitionRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(bookingDomain.ActorSystem, uuid.Nil, bookingDomain.ActionPaymentResult); err != nil {
		return nil, err
	}

	session := bk.Session()
	if session == nil {
		return nil, domain.NewConflictError("booking has no active checkout session")
	}

	oldStatus := bk.Status()
	switch req.Outcome {
	case payment.OutcomeSuccess:
		if err := bk.SubmitPayment(session.PaymentID); err != nil {
			return nil, err
		}
		if err := s.commit(ctx, bk); err != nil {
			return nil, err
		}
		s.recordGatewayProof(ctx, bk, session.PaymentID)
		s.publishLifecycle(ctx, bookingDomain.BookingPaymentSubmitted, bk, oldStatus, "")

	case payment.OutcomeCancel:
		if err := bk.AbandonCheckoutSession(session.PaymentID); err != nil {
			return nil, err
		}
		if err := s.commit(ctx, bk); err != nil {
			return nil, err
		}
		s.publishLifecycle(ctx, bookingDomain.BookingPaymentFailed, bk, oldStatus, "checkout abandoned")

	default:
		return nil, domain.NewValidationError("unknown gateway outcome")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ApplyGatewayResult reconciles a definitive gateway webhook verdict. Unlike
// a cancel redirect, a failure verdict here is terminal: PAYMENT_FAILED.
func (s *BookingService) ApplyGatewayResult(ctx context.Context, bookingID uuid.UUID, paymentID string, paid bool, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(bookingDomain.ActorSystem, uuid.Nil, bookingDomain.ActionPaymentResult); err != nil {
		return nil, err
	}

	oldStatus := bk.Status()
	if paid {
		if err := bk.SubmitPayment(paymentID); err != nil {
			return nil, err
		}
	} else {
		if err := bk.FailPayment(paymentID, reason); err != nil {
			return nil, err
		}
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	eventType := bookingDomain.BookingPaymentSubmitted
	if paid {
		s.recordGatewayProof(ctx, bk, paymentID)
	} else {
		eventType = bookingDomain.BookingPaymentFailed
	}
	s.publishLifecycle(ctx, eventType, bk, oldStatus, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// VerifyPayment resolves the owner's review of a submitted payment.
// NewStatus must name COMPLETED_BOOKING or REJECTED_BOOKING.
func (s *BookingService) VerifyPayment(ctx context.Context, bookingID, ownerID uuid.UUID, req VerifyPaymentRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Authorize(auth.RoleOwner, ownerID, bookingDomain.ActionVerifyPayment); err != nil {
		return nil, err
	}

	var approve bool
	switch bookingDomain.BookingStatus(req.NewStatus) {
	case bookingDomain.StatusCompleted:
		approve = true
	case bookingDomain.StatusRejected:
		approve = false
	default:
		return nil, domain.NewValidationError("new_status must be COMPLETED_BOOKING or REJECTED_BOOKING")
	}

	oldStatus := bk.Status()
	if err := bk.VerifyPayment(approve, req.Remarks); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk); err != nil {
		return nil, err
	}

	eventType := bookingDomain.BookingCompleted
	if !approve {
		eventType = bookingDomain.BookingRejected
	}
	s.publishLifecycle(ctx, eventType, bk, oldStatus, req.Remarks)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, restricted to its participants.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, role auth.Role, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch role {
	case auth.RoleAdmin:
	case auth.RoleTenant:
		if bk.TenantID() != actorID {
			return nil, domain.NewForbiddenError("you cannot view this booking")
		}
	case auth.RoleOwner:
		if bk.OwnerID() != actorID {
			return nil, domain.NewForbiddenError("you cannot view this booking")
		}
	default:
		return nil, domain.NewForbiddenError("you cannot view this booking")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetTenantBookings retrieves paginated bookings requested by a tenant.
func (s *BookingService) GetTenantBookings(ctx context.Context, tenantID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByTenantID(ctx, tenantID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetOwnerBookings retrieves paginated bookings against an owner's houses.
func (s *BookingService) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetBookingByReference resolves a booking by its human-facing reference,
// the code quoted in support requests (admin).
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*BookingDTO, error) {
	bk, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// DeleteBooking soft-deletes a booking (admin). Lifecycle status is
// untouched; this is administrative removal, not a transition.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	bk.MarkDeleted()
	return s.commit(ctx, bk)
}

// --- Helpers ---

// commit bumps the version and writes through the repository's
// compare-and-swap, serializing concurrent transitions per booking.
func (s *BookingService) commit(ctx context.Context, bk *bookingDomain.Booking) error {
	bk.IncrementVersion()
	return s.repo.Update(ctx, bk)
}

// publishLifecycle emits exactly one lifecycle event for a committed
// transition. Delivery is best-effort: failures are logged and never fail
// the transition itself.
func (s *BookingService) publishLifecycle(ctx context.Context, eventType string, bk *bookingDomain.Booking, oldStatus bookingDomain.BookingStatus, message string) {
	evt := bookingDomain.LifecycleEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		OldStatus:  oldStatus,
		NewStatus:  bk.Status(),
		TenantID:   bk.TenantID(),
		OwnerID:    bk.OwnerID(),
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, bk.ID().String(), evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, bookingDomain.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish lifecycle event",
			zap.String("event_type", eventType),
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

// recordGatewayProof stores the confirmed payment id as a proof record.
// Best-effort like event publishing; the transition is already committed.
func (s *BookingService) recordGatewayProof(ctx context.Context, bk *bookingDomain.Booking, paymentID string) {
	if err := s.proofs.RecordGatewayProof(ctx, bk.ID(), bk.TenantID(), paymentID); err != nil {
		s.logger.Error("failed to record gateway proof",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		Reference:       bk.Reference(),
		TenantID:        bk.TenantID(),
		RoomID:          bk.RoomID(),
		BoardingHouseID: bk.BoardingHouseID(),
		OwnerID:         bk.OwnerID(),
		Status:          string(bk.Status()),
		CheckInDate:     bk.CheckInDate(),
		CheckOutDate:    bk.CheckOutDate(),
		TotalAmount:     bk.TotalAmount(),
		Currency:        bk.Currency(),
		PaymentProofID:  bk.PaymentProofID(),
		Session:         bk.Session(),
		OwnerMessage:    bk.OwnerMessage(),
		TenantMessage:   bk.TenantMessage(),
		ExpiresAt:       bk.ExpiresAt(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
