package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/helpers"
	"github.com/davinrk/venuely/internal/models"
)

type monthlyRow struct {
	Month int   `json:"month"`
	Value int64 `json:"value"`
}

// fillMonthlySeries spreads aggregation rows into a 12-slot array indexed by
// calendar month (slot 0 = January). Months missing from the rows stay zero.
func fillMonthlySeries(rows []monthlyRow) [12]int64 {
	var series [12]int64
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			series[row.Month-1] = row.Value
		}
	}
	return series
}

type categoryCount struct {
	CategoryID int    `json:"category_id"`
	Title      string `json:"title"`
	Bookings   int64  `json:"bookings"`
}

func GetAdminStats(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var totalUsers, totalOrganizers, totalEvents, totalBookings int64
	gormDB.Model(&models.User{}).Count(&totalUsers)
	gormDB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleOrganizer).
		Count(&totalOrganizers)
	gormDB.Model(&models.Event{}).Count(&totalEvents)
	gormDB.Model(&models.Booking{}).Count(&totalBookings)

	var totalRevenue int64
	gormDB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue)

	since := time.Now().AddDate(-1, 0, 0)

	var userRows []monthlyRow
	gormDB.Model(&models.User{}).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS value").
		Where("created_at >= ?", since).
		Group("month").Scan(&userRows)

	var bookingRows []monthlyRow
	gormDB.Model(&models.Booking{}).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS value").
		Where("created_at >= ?", since).
		Group("month").Scan(&bookingRows)

	var revenueRows []monthlyRow
	gormDB.Model(&models.Booking{}).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, COALESCE(SUM(total_amount), 0) AS value").
		Where("created_at >= ?", since).
		Group("month").Scan(&revenueRows)

	topCategories := []categoryCount{}
	gormDB.Model(&models.Booking{}).
		Select("events.category_id AS category_id, event_categories.title AS title, COUNT(*) AS bookings").
		Joins("JOIN events ON events.id = bookings.event_id").
		Joins("JOIN event_categories ON event_categories.category_id = events.category_id").
		Group("events.category_id, event_categories.title").
		Order("bookings DESC").
		Limit(6).
		Scan(&topCategories)

	c.JSON(http.StatusOK, gin.H{
		"message": "Stats retrieved successfully.",
		"data": gin.H{
			"total_users":      totalUsers,
			"total_organizers": totalOrganizers,
			"total_events":     totalEvents,
			"total_bookings":   totalBookings,
			"total_revenue":    totalRevenue,
			"monthly_users":    fillMonthlySeries(userRows),
			"monthly_bookings": fillMonthlySeries(bookingRows),
			"monthly_revenue":  fillMonthlySeries(revenueRows),
			"top_categories":   topCategories,
		},
	})
}

func AdminListUsers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var users []models.User
	if err := gormDB.Preload("Role").Order("created_at DESC").Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully.",
		"data":    users,
	})
}

type UserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func AdminUpdateUserStatus(c *gin.Context) {
	userID := c.Param("id")

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	switch req.Status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusPending, models.UserStatusRejected:
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Status must be one of: Active, Inactive, Pending, Rejected.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	user.Status = req.Status

	if err := gormDB.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully.",
		"data":    user,
	})
}

func AdminListOrganizers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var organizers []models.User
	err := gormDB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleOrganizer).
		Order("users.created_at DESC").
		Find(&organizers).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving organizers.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Organizers retrieved successfully.",
		"data":    organizers,
	})
}

func AdminApproveOrganizer(c *gin.Context) {
	decideOrganizer(c, models.UserStatusActive, "Organizer approved successfully.")
}

func AdminRejectOrganizer(c *gin.Context) {
	decideOrganizer(c, models.UserStatusRejected, "Organizer rejected.")
}

func decideOrganizer(c *gin.Context, status, message string) {
	userID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	if user.Role.Name != models.RoleOrganizer {
		helpers.RespondWithError(c, http.StatusBadRequest, "User is not an organizer.")
		return
	}
	if user.Status != models.UserStatusPending {
		helpers.RespondWithError(c, http.StatusBadRequest, "Organizer is not pending approval.")
		return
	}

	user.Status = status

	if err := gormDB.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update organizer.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    user,
	})
}

func AdminListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	err := gormDB.Preload("Organizer").Preload("Venue").
		Order("created_at DESC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Events retrieved successfully.",
		"data":    events,
	})
}

func AdminListBookings(c *gin.Context) {
	GetAllBookings(c)
}

// AdminOverrideBookingStatus is the administrative escape hatch: it applies
// any allow-listed status without consulting the transition table, including
// from terminal states.
func AdminOverrideBookingStatus(c *gin.Context) {
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

	booking.BookingStatus = req.Status

	if err := gormDB.Save(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status overridden successfully.",
		"data":    booking,
	})
}
