//go:build integration

package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/davinrk/venuely/internal/middleware"
	"github.com/davinrk/venuely/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "integration-test-secret")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "venuely_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	for _, table := range []string{"bookings", "events", "venues", "event_categories", "users", "roles"} {
		testDB.Exec("DROP TABLE IF EXISTS " + table + " CASCADE")
	}

	err = testDB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Venue{},
		&models.EventCategory{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	for _, name := range []string{models.RoleAdmin, models.RoleOrganizer, models.RoleUser} {
		testDB.Create(&models.Role{Name: name})
	}

	code := m.Run()
	os.Exit(code)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanTables() {
	testDB.Exec("DELETE FROM bookings")
	testDB.Exec("DELETE FROM events")
	testDB.Exec("DELETE FROM venues")
	testDB.Exec("DELETE FROM event_categories")
	testDB.Exec("DELETE FROM users")
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(testDB))

	auth := middleware.JWTAuthMiddleware()

	r.POST("/booking/create", auth, CreateBooking)
	r.GET("/booking/:bookingId", auth, GetBooking)
	r.PUT("/booking/:bookingId/cancel", auth, CancelBooking)
	r.PUT("/booking/:bookingId/status", auth, middleware.RequireOrganizer(), UpdateBookingStatus)
	r.PUT("/booking/approve/:bookingId", auth, middleware.RequireOrganizer(), ApproveBooking)
	r.GET("/category", ListCategories)
	r.DELETE("/category/:id", auth, middleware.RequireAdmin(), DeleteCategory)
	r.GET("/admin/stats", auth, middleware.RequireAdmin(), GetAdminStats)

	return r
}

func createTestUser(t *testing.T, roleName string) *models.User {
	t.Helper()

	var role models.Role
	require.NoError(t, testDB.Where("name = ?", roleName).First(&role).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     "Test " + roleName,
		Email:    fmt.Sprintf("%s-%s@example.com", strings.ToLower(roleName), uuid.New().String()[:8]),
		Password: string(hashed),
		Status:   models.UserStatusActive,
		RoleID:   role.ID,
	}
	require.NoError(t, testDB.Create(user).Error)
	user.Role = role
	return user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role.Name,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return signed
}

func createTestEvent(t *testing.T, organizer *models.User, basePrice int) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:        "Test Event",
		Date:        time.Now().AddDate(0, 1, 0),
		EndDate:     time.Now().AddDate(0, 1, 2),
		City:        "Jakarta",
		CategoryID:  1,
		BasePrice:   basePrice,
		Status:      models.EventStatusActive,
		OrganizerID: organizer.ID,
	}
	require.NoError(t, testDB.Create(event).Error)
	return event
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateBooking_DerivesDaysAndTotal(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	user := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 1000)

	body := fmt.Sprintf(
		`{"event_id":"%s","event_date":"2024-06-01","end_date":"2024-06-03","base_price":1000,"service_fee":200}`,
		event.ID)
	rec := doJSON(t, r, http.MethodPost, "/booking/create", tokenFor(t, user), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking models.Booking
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&booking).Error)
	assert.Equal(t, 3, booking.NumberOfDays)
	assert.Equal(t, 3200, booking.TotalAmount)
	assert.Equal(t, models.BookingPendingApproval, booking.BookingStatus)
	assert.Equal(t, models.ApprovalPending, booking.ApprovalStatus)
	assert.Regexp(t, `^INV-\d{8}-\d{4}$`, booking.InvoiceNumber)
}

func TestApproveBooking_Approved(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	user := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 500)

	booking := &models.Booking{
		UserID:         user.ID,
		EventID:        &event.ID,
		EventDate:      time.Now().AddDate(0, 1, 0),
		EndDate:        time.Now().AddDate(0, 1, 0),
		NumberOfDays:   1,
		BasePrice:      500,
		TotalAmount:    500,
		InvoiceNumber:  "INV-20240601-0001",
		BookingStatus:  models.BookingPendingApproval,
		ApprovalStatus: models.ApprovalPending,
	}
	require.NoError(t, testDB.Create(booking).Error)

	rec := doJSON(t, r, http.MethodPut, "/booking/approve/"+booking.ID.String(),
		tokenFor(t, organizer), `{"approved":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Booking
	require.NoError(t, testDB.First(&updated, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, updated.BookingStatus)
	assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)

	// A decided booking cannot be decided again.
	rec = doJSON(t, r, http.MethodPut, "/booking/approve/"+booking.ID.String(),
		tokenFor(t, organizer), `{"approved":false}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveBooking_RejectedRecordsReason(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	user := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 500)

	booking := &models.Booking{
		UserID:         user.ID,
		EventID:        &event.ID,
		EventDate:      time.Now().AddDate(0, 1, 0),
		EndDate:        time.Now().AddDate(0, 1, 0),
		NumberOfDays:   1,
		BasePrice:      500,
		TotalAmount:    500,
		InvoiceNumber:  "INV-20240601-0002",
		BookingStatus:  models.BookingPendingApproval,
		ApprovalStatus: models.ApprovalPending,
	}
	require.NoError(t, testDB.Create(booking).Error)

	rec := doJSON(t, r, http.MethodPut, "/booking/approve/"+booking.ID.String(),
		tokenFor(t, organizer), `{"approved":false,"reason":"Venue unavailable"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Booking
	require.NoError(t, testDB.First(&updated, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, updated.BookingStatus)
	assert.Equal(t, models.ApprovalRejected, updated.ApprovalStatus)
	assert.Equal(t, "Venue unavailable", updated.CancellationReason)
}

func TestCancelBooking_TerminalStatesRejected(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	user := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 500)

	for _, terminal := range []string{models.BookingCompleted, models.BookingCancelled} {
		booking := &models.Booking{
			UserID:         user.ID,
			EventID:        &event.ID,
			EventDate:      time.Now(),
			EndDate:        time.Now(),
			NumberOfDays:   1,
			TotalAmount:    500,
			InvoiceNumber:  "INV-20240601-0003",
			BookingStatus:  terminal,
			ApprovalStatus: models.ApprovalApproved,
		}
		require.NoError(t, testDB.Create(booking).Error)

		rec := doJSON(t, r, http.MethodPut, "/booking/"+booking.ID.String()+"/cancel",
			tokenFor(t, user), `{"reason":"changed my mind"}`)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "status %s", terminal)

		var unchanged models.Booking
		require.NoError(t, testDB.First(&unchanged, "id = ?", booking.ID).Error)
		assert.Equal(t, terminal, unchanged.BookingStatus)
		assert.Empty(t, unchanged.CancellationReason)
	}
}

func TestCancelBooking_NonOwnerForbidden(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	owner := createTestUser(t, models.RoleUser)
	stranger := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 500)

	booking := &models.Booking{
		UserID:         owner.ID,
		EventID:        &event.ID,
		EventDate:      time.Now(),
		EndDate:        time.Now(),
		NumberOfDays:   1,
		TotalAmount:    500,
		InvoiceNumber:  "INV-20240601-0004",
		BookingStatus:  models.BookingPendingApproval,
		ApprovalStatus: models.ApprovalPending,
	}
	require.NoError(t, testDB.Create(booking).Error)

	rec := doJSON(t, r, http.MethodPut, "/booking/"+booking.ID.String()+"/cancel",
		tokenFor(t, stranger), `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var unchanged models.Booking
	require.NoError(t, testDB.First(&unchanged, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPendingApproval, unchanged.BookingStatus)
}

func TestUpdateBookingStatus_IllegalTransitionRejected(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	organizer := createTestUser(t, models.RoleOrganizer)
	user := createTestUser(t, models.RoleUser)
	event := createTestEvent(t, organizer, 500)

	booking := &models.Booking{
		UserID:         user.ID,
		EventID:        &event.ID,
		EventDate:      time.Now(),
		EndDate:        time.Now(),
		NumberOfDays:   1,
		TotalAmount:    500,
		InvoiceNumber:  "INV-20240601-0005",
		BookingStatus:  models.BookingPendingApproval,
		ApprovalStatus: models.ApprovalPending,
	}
	require.NoError(t, testDB.Create(booking).Error)

	// Pending Approval cannot jump straight to Completed.
	rec := doJSON(t, r, http.MethodPut, "/booking/"+booking.ID.String()+"/status",
		tokenFor(t, organizer), `{"status":"Completed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var unchanged models.Booking
	require.NoError(t, testDB.First(&unchanged, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPendingApproval, unchanged.BookingStatus)

	// But Confirmed is reachable.
	rec = doJSON(t, r, http.MethodPut, "/booking/"+booking.ID.String()+"/status",
		tokenFor(t, organizer), `{"status":"Confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategorySoftDelete(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	admin := createTestUser(t, models.RoleAdmin)

	require.NoError(t, testDB.Create(&models.EventCategory{
		CategoryID: 7, Title: "Seminar", IsActive: true,
	}).Error)

	rec := doJSON(t, r, http.MethodDelete, "/category/7", tokenFor(t, admin), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Gone from the listing.
	rec = doJSON(t, r, http.MethodGet, "/category", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Seminar")

	// Still present in the table.
	var category models.EventCategory
	require.NoError(t, testDB.Where("category_id = ?", 7).First(&category).Error)
	assert.False(t, category.IsActive)
}

func TestAdminStats_EmptyDatabase(t *testing.T) {
	cleanTables()
	r := newTestRouter()

	admin := createTestUser(t, models.RoleAdmin)

	rec := doJSON(t, r, http.MethodGet, "/admin/stats", tokenFor(t, admin), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			TotalEvents     int64   `json:"total_events"`
			TotalBookings   int64   `json:"total_bookings"`
			TotalRevenue    int64   `json:"total_revenue"`
			MonthlyUsers    []int64 `json:"monthly_users"`
			MonthlyBookings []int64 `json:"monthly_bookings"`
			MonthlyRevenue  []int64 `json:"monthly_revenue"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Zero(t, resp.Data.TotalEvents)
	assert.Zero(t, resp.Data.TotalBookings)
	assert.Zero(t, resp.Data.TotalRevenue)

	require.Len(t, resp.Data.MonthlyBookings, 12)
	require.Len(t, resp.Data.MonthlyRevenue, 12)
	for i := 0; i < 12; i++ {
		assert.Zero(t, resp.Data.MonthlyBookings[i])
		assert.Zero(t, resp.Data.MonthlyRevenue[i])
	}

	// The admin themselves is the only user and registered this month.
	require.Len(t, resp.Data.MonthlyUsers, 12)
	thisMonth := int(time.Now().Month()) - 1
	assert.Equal(t, int64(1), resp.Data.MonthlyUsers[thisMonth])
}
