package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/helpers"
	"github.com/davinrk/venuely/internal/models"
)

type BookingRequest struct {
	EventID      *uuid.UUID `json:"event_id"`
	VenueID      *uuid.UUID `json:"venue_id"`
	EventDate    string     `json:"event_date" binding:"required"`
	EndDate      string     `json:"end_date"`
	NumberOfDays int        `json:"number_of_days"`
	BasePrice    int        `json:"base_price"`
	ServiceFee   int        `json:"service_fee"`
	TotalAmount  int        `json:"total_amount"`
}

type ApproveBookingRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type BookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// resolveBookingPricing fills the derived fields the client may omit: the
// inclusive day count and the total as basePrice*days + serviceFee.
func resolveBookingPricing(booking *models.Booking, suppliedDays, suppliedTotal int) {
	if suppliedDays > 0 {
		booking.NumberOfDays = suppliedDays
	} else {
		booking.NumberOfDays = helpers.DaysBetweenInclusive(booking.EventDate, booking.EndDate)
	}
	if booking.NumberOfDays < 1 {
		booking.NumberOfDays = 1
	}

	if suppliedTotal > 0 {
		booking.TotalAmount = suppliedTotal
	} else {
		booking.TotalAmount = booking.BasePrice*booking.NumberOfDays + booking.ServiceFee
	}
}

func CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if (req.EventID == nil) == (req.VenueID == nil) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Exactly one of event_id or venue_id is required.")
		return
	}

	userID, _, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	eventDate, err := helpers.ParseDate(req.EventDate)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format.")
		return
	}
	endDate := eventDate
	if req.EndDate != "" {
		endDate, err = helpers.ParseDate(req.EndDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end date format.")
			return
		}
	}

	booking := models.Booking{
		UserID:         userID,
		EventID:        req.EventID,
		VenueID:        req.VenueID,
		EventDate:      eventDate,
		EndDate:        endDate,
		BasePrice:      req.BasePrice,
		ServiceFee:     req.ServiceFee,
		InvoiceNumber:  helpers.GenerateInvoiceNumber(time.Now()),
		BookingStatus:  models.BookingPendingApproval,
		ApprovalStatus: models.ApprovalPending,
	}

	if req.EventID != nil {
		var event models.Event
		if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Referenced event not found.")
			return
		}
		if booking.BasePrice == 0 {
			booking.BasePrice = event.BasePrice
		}
	} else {
		var venue models.Venue
		if err := gormDB.Where("id = ?", req.VenueID).First(&venue).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Referenced venue not found.")
			return
		}
		if booking.BasePrice == 0 {
			booking.BasePrice = venue.PricePerDay
		}
	}

	resolveBookingPricing(&booking, req.NumberOfDays, req.TotalAmount)

	if err := gormDB.Create(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully.",
		"data":    booking,
	})
}

// loadBookingForViewer returns the booking when the requester is its owner,
// the organizer of the booked event, or an admin.
func loadBookingForViewer(c *gin.Context, gormDB *gorm.DB) (*models.Booking, bool) {
	bookingID := c.Param("bookingId")

	userID, role, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, false
	}

	var booking models.Booking
	if err := gormDB.Preload("Event").Preload("Venue").Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return nil, false
	}

	if role == models.RoleAdmin || booking.UserID == userID {
		return &booking, true
	}
	if booking.Event != nil && booking.Event.OrganizerID == userID {
		return &booking, true
	}

	helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to access this booking.")
	return nil, false
}

func GetBooking(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking, ok := loadBookingForViewer(c, gormDB)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingQRCode renders the booking's invoice number as a PNG for check-in.
func GetBookingQRCode(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking, ok := loadBookingForViewer(c, gormDB)
	if !ok {
		return
	}

	qrImage, err := qrcode.Encode(booking.InvoiceNumber, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	userID, role, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	if role != models.RoleAdmin && booking.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to cancel this booking.")
		return
	}

	if models.IsTerminalBookingStatus(booking.BookingStatus) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Booking is already "+booking.BookingStatus+" and cannot be cancelled.")
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "Cancelled by user"
	}

	booking.BookingStatus = models.BookingCancelled
	booking.CancellationReason = reason

	if err := gormDB.Save(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully.",
		"data":    booking,
	})
}

// ApproveBooking is the organizer's decision on a pending booking. Approval
// confirms it; rejection cancels it with a reason. A booking that has already
// been decided cannot be decided again.
func ApproveBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")

	var req ApproveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, role, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Preload("Event").Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	// Event bookings are decided by the event's organizer; venue bookings by
	// an admin.
	if role != models.RoleAdmin {
		if booking.Event == nil || booking.Event.OrganizerID != userID {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to approve this booking.")
			return
		}
	}

	if booking.ApprovalStatus != models.ApprovalPending {
		helpers.RespondWithError(c, http.StatusBadRequest, "Booking has already been "+booking.ApprovalStatus+".")
		return
	}

	if req.Approved {
		if !models.AllowedTransition(booking.BookingStatus, models.BookingConfirmed) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Booking cannot be confirmed from status "+booking.BookingStatus+".")
			return
		}
		booking.BookingStatus = models.BookingConfirmed
		booking.ApprovalStatus = models.ApprovalApproved
	} else {
		if !models.AllowedTransition(booking.BookingStatus, models.BookingCancelled) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Booking cannot be cancelled from status "+booking.BookingStatus+".")
			return
		}
		reason := req.Reason
		if reason == "" {
			reason = "Rejected by organizer"
		}
		booking.BookingStatus = models.BookingCancelled
		booking.ApprovalStatus = models.ApprovalRejected
		booking.CancellationReason = reason
	}

	if err := gormDB.Save(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking " + booking.ApprovalStatus + ".",
		"data":    booking,
	})
}

// UpdateBookingStatus moves a booking along the lifecycle. The target must be
// on the allow-list and reachable from the current status; anything else is
// rejected without touching the record.
func UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("bookingId")

	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !models.IsUpdatableBookingStatus(req.Status) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Status must be one of: Pending Confirmation, Confirmed, Completed, Cancelled.")
		return
	}

	userID, role, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Preload("Event").Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	if role != models.RoleAdmin {
		if booking.Event == nil || booking.Event.OrganizerID != userID {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this booking.")
			return
		}
	}

	if !models.AllowedTransition(booking.BookingStatus, req.Status) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Cannot transition booking from "+booking.BookingStatus+" to "+req.Status+".")
		return
	}

	booking.BookingStatus = req.Status

	if err := gormDB.Save(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully.",
		"data":    booking,
	})
}

// organizerEventIDs resolves the ids of all events owned by the organizer.
// Bookings are then filtered against that set.
func organizerEventIDs(gormDB *gorm.DB, organizerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := gormDB.Model(&models.Event{}).
		Where("organizer_id = ?", organizerID).
		Pluck("id", &ids).Error
	return ids, err
}

func GetPendingBookings(c *gin.Context) {
	listOrganizerBookings(c, true)
}

func GetOrganizerBookings(c *gin.Context) {
	listOrganizerBookings(c, false)
}

func listOrganizerBookings(c *gin.Context, pendingOnly bool) {
	userID, _, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	eventIDs, err := organizerEventIDs(gormDB, userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving organizer events.")
		return
	}

	bookings := []models.Booking{}
	if len(eventIDs) > 0 {
		query := gormDB.Preload("Event").Preload("User").Where("event_id IN ?", eventIDs)
		if pendingOnly {
			query = query.Where("approval_status = ?", models.ApprovalPending)
		}
		if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bookings retrieved successfully.",
		"data":    bookings,
	})
}

func GetBookingStats(c *gin.Context) {
	userID, _, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	eventIDs, err := organizerEventIDs(gormDB, userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving organizer events.")
		return
	}

	stats := gin.H{
		"total_bookings":     0,
		"pending_bookings":   0,
		"confirmed_bookings": 0,
		"cancelled_bookings": 0,
		"total_revenue":      0,
	}

	if len(eventIDs) > 0 {
		var total, pending, confirmed, cancelled int64
		gormDB.Model(&models.Booking{}).Where("event_id IN ?", eventIDs).Count(&total)
		gormDB.Model(&models.Booking{}).Where("event_id IN ? AND approval_status = ?", eventIDs, models.ApprovalPending).Count(&pending)
		gormDB.Model(&models.Booking{}).Where("event_id IN ? AND booking_status = ?", eventIDs, models.BookingConfirmed).Count(&confirmed)
		gormDB.Model(&models.Booking{}).Where("event_id IN ? AND booking_status = ?", eventIDs, models.BookingCancelled).Count(&cancelled)

		var revenue int64
		gormDB.Model(&models.Booking{}).
			Where("event_id IN ? AND booking_status NOT IN ?", eventIDs, []string{models.BookingCancelled}).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue)

		stats["total_bookings"] = total
		stats["pending_bookings"] = pending
		stats["confirmed_bookings"] = confirmed
		stats["cancelled_bookings"] = cancelled
		stats["total_revenue"] = revenue
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking stats retrieved successfully.",
		"data":    stats,
	})
}

func GetRecentBookings(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var bookings []models.Booking
	err := gormDB.Preload("Event").Preload("Venue").Preload("User").
		Order("created_at DESC").Limit(10).Find(&bookings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recent bookings retrieved successfully.",
		"data":    bookings,
	})
}

func GetAllBookings(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "20")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	var totalCount int64
	gormDB.Model(&models.Booking{}).Count(&totalCount)

	var bookings []models.Booking
	offset := (pageNum - 1) * limitNum
	err = gormDB.Preload("Event").Preload("Venue").Preload("User").
		Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    bookings,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}
