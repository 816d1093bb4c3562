package handlers

import (
	"context"
	"errors"
	"net/http"

	"carrent/models"
	"carrent/services/booking"
	"carrent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusByCode maps booking error codes to HTTP statuses.
var statusByCode = map[string]int{
	booking.CodeInvalidRate:        http.StatusBadRequest,
	booking.CodeInvalidTimeRange:   http.StatusBadRequest,
	booking.CodeCarNotFound:        http.StatusNotFound,
	booking.CodeNotAuthenticated:   http.StatusUnauthorized,
	booking.CodeSchedulingConflict: http.StatusConflict,
	booking.CodeBookingNotFound:    http.StatusNotFound,
	booking.CodeAlreadyTerminal:    http.StatusConflict,
	booking.CodeInvalidTransition:  http.StatusConflict,
	booking.CodePersistenceFailure: http.StatusInternalServerError,
}

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// QuoteHandler previews the day count and price of a rental window.
func (h *BookingHandler) QuoteHandler(c *gin.Context) {
	var input models.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}
	calc, err := h.Service.Quote(input.PickupAt, input.ReturnAt, input.DailyRate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

// PlaceBookingHandler books a car for the authenticated user.
func (h *BookingHandler) PlaceBookingHandler(c *gin.Context) {
	var input models.PlaceBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	res, err := h.Service.PlaceBooking(c.Request.Context(), c.GetString(utils.ContextUserID), input.CarID, input.PickupAt, input.ReturnAt).
		Await(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	getLogger(c).Info("booking placed", zap.String("bookingID", res.BookingID), zap.String("carID", input.CarID))
	c.JSON(http.StatusCreated, res)
}

// ListMyBookingsHandler returns the caller's bookings.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	list, err := h.Service.ListUserBookings(c.Request.Context(), c.GetString(utils.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GetBookingHandler returns one of the caller's bookings with its reminders.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	details, ok := h.ownedBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, details)
}

// CancelBookingHandler cancels one of the caller's bookings.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	if _, ok := h.ownedBooking(c); !ok {
		return
	}
	b, err := h.Service.CancelBooking(c.Request.Context(), c.Param("id")).Await(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBookingHandler marks a booking as returned. Admin only.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.Service.MarkCompleted(c.Request.Context(), c.Param("id")).Await(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ReviewBookingHandler records an administrative review decision. Admin only.
func (h *BookingHandler) ReviewBookingHandler(c *gin.Context) {
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}
	b, err := h.Service.ReviewBooking(c.Request.Context(), c.Param("id"), input.Decision).Await(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ownedBooking loads the booking named in the path and checks it belongs to the caller.
// Bookings of other users are reported as not found.
func (h *BookingHandler) ownedBooking(c *gin.Context) (*models.BookingDetails, bool) {
	details, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if details.Booking.UserID != c.GetString(utils.ContextUserID) {
		h.respondError(c, booking.ErrBookingNotFound)
		return nil, false
	}
	return details, true
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var be *booking.BookingError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		utils.JSONError(c, status, be.Code, be.Message)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		utils.JSONError(c, http.StatusGatewayTimeout, "timeout", "The request took too long. Check the booking before retrying.")
		return
	}
	h.Logger.Error("booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internalError", "An unexpected error occurred. Please try again later.")
}
