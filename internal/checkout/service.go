package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/internal/bookings"
	"github.com/wisatago/wisatago-backend/internal/cart"
	"github.com/wisatago/wisatago-backend/pkg/config"
	"github.com/wisatago/wisatago-backend/pkg/db"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/enums"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ticketSigner interface {
	Payload(code string, issuedAt time.Time) string
}

// CheckoutRequest is the payload converting cart items into a booking.
type CheckoutRequest struct {
	CartItemIDs   []uuid.UUID `json:"cart_ids" validate:"required,min=1"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
}

// CheckoutResult reports the booking produced by a successful checkout.
type CheckoutResult struct {
	BookingCode string `json:"booking_code"`
	GrandTotal  int64  `json:"grand_total"`
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error)
}

type service struct {
	tx        txRunner
	cartRepo  *cart.Repository
	bookings  *bookings.Repository
	signer    ticketSigner
	ticketing config.TicketingConfig
	now       func() time.Time
	newCode   func(length int) (string, error)
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo *cart.Repository,
	bookingsRepo *bookings.Repository,
	signer ticketSigner,
	ticketing config.TicketingConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if bookingsRepo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if signer == nil {
		return nil, fmt.Errorf("ticket signer required")
	}
	return &service{
		tx:        tx,
		cartRepo:  cartRepo,
		bookings:  bookingsRepo,
		signer:    signer,
		ticketing: ticketing,
		now:       time.Now,
		newCode:   NewBookingCode,
	}, nil
}

// Execute converts the caller's cart items into one immutable booking.
// Subtotals are frozen from the destination prices read inside the
// transaction, and the cart delete count doubles as the guard against a
// concurrent checkout consuming the same items.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if len(req.CartItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_ids must not be empty")
	}
	seen := make(map[uuid.UUID]struct{}, len(req.CartItemIDs))
	for _, id := range req.CartItemIDs {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_ids contains an empty id")
		}
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_ids contains duplicates")
		}
		seen[id] = struct{}{}
	}

	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var result *CheckoutResult
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		bookingsRepo := s.bookings.WithTx(tx)

		items, err := cartRepo.FindManyForUpdate(ctx, req.CartItemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
		}
		if len(items) != len(req.CartItemIDs) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more cart items no longer exist")
		}
		for _, item := range items {
			if item.UserID != userID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
			}
			if item.Destination == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart item missing destination")
			}
		}

		now := s.now().UTC()
		var grandTotal int64
		details := make([]models.BookingDetail, 0, len(items))
		for _, item := range items {
			subtotal := item.Destination.Price * int64(item.Quantity)
			grandTotal += subtotal
			details = append(details, models.BookingDetail{
				DestinationID: item.DestinationID,
				Quantity:      item.Quantity,
				VisitDate:     item.VisitDate,
				Subtotal:      subtotal,
			})
		}

		code, err := s.freshCode(ctx, bookingsRepo)
		if err != nil {
			return err
		}

		paidAt := now
		booking, err := bookingsRepo.Create(ctx, &models.Booking{
			UserID:        userID,
			Code:          code,
			Status:        enums.BookingStatusSuccess,
			PaymentMethod: method,
			GrandTotal:    grandTotal,
			QRPayload:     s.signer.Payload(code, now),
			PaidAt:        &paidAt,
		})
		if err != nil {
			// freshCode checks for collisions, but a concurrent checkout can
			// still land the same code between the check and the insert.
			if db.IsUniqueViolation(err, "idx_bookings_code") {
				return pkgerrors.New(pkgerrors.CodeConflict, "booking code collision, please retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
		}

		for i := range details {
			details[i].BookingID = booking.ID
		}
		if err := bookingsRepo.CreateDetails(ctx, details); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking details")
		}

		deleted, err := cartRepo.DeleteMany(ctx, req.CartItemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart items")
		}
		if deleted != int64(len(req.CartItemIDs)) {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart items were checked out concurrently")
		}

		result = &CheckoutResult{BookingCode: booking.Code, GrandTotal: booking.GrandTotal}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func (s *service) freshCode(ctx context.Context, repo *bookings.Repository) (string, error) {
	attempts := s.ticketing.CodeMaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		code, err := s.newCode(s.ticketing.CodeLength)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate booking code")
		}
		exists, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check booking code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique booking code")
}
