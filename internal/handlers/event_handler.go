package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/helpers"
	"github.com/davinrk/venuely/internal/models"
)

type EventRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	Date          string     `json:"date" binding:"required"`
	EndDate       string     `json:"end_date"`
	Location      string     `json:"location"`
	City          string     `json:"city"`
	Area          string     `json:"area"`
	CategoryID    int        `json:"category_id" binding:"required"`
	BasePrice     int        `json:"base_price"`
	OrganizerName string     `json:"organizer_name"`
	VenueID       *uuid.UUID `json:"venue_id"`
}

func requesterIdentity(c *gin.Context) (uuid.UUID, string, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return uuid.Nil, "", false
	}
	return userID, c.GetString("role"), true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date format.")
		return
	}
	endDate := date
	if req.EndDate != "" {
		endDate, err = helpers.ParseDate(req.EndDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end date format.")
			return
		}
	}

	var category models.EventCategory
	if err := gormDB.Where("category_id = ? AND is_active = ?", req.CategoryID, true).First(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category.")
		return
	}

	event := models.Event{
		Name:          req.Name,
		Description:   req.Description,
		Date:          date,
		EndDate:       endDate,
		Location:      req.Location,
		City:          req.City,
		Area:          req.Area,
		CategoryID:    req.CategoryID,
		BasePrice:     req.BasePrice,
		Status:        models.EventStatusActive,
		OrganizerID:   userID,
		OrganizerName: req.OrganizerName,
	}

	if req.VenueID != nil {
		var venue models.Venue
		if err := gormDB.Where("id = ?", req.VenueID).First(&venue).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Referenced venue not found.")
			return
		}
		reconcileVenueFields(&event, &venue)
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	// Category counts are best-effort; a failed increment is logged and the
	// event creation still succeeds.
	if err := gormDB.Model(&models.EventCategory{}).
		Where("category_id = ?", req.CategoryID).
		UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
		log.Printf("failed to increment category %d count: %v", req.CategoryID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"data":    event,
	})
}

// reconcileVenueFields denormalizes the venue onto the event and back-fills
// location fields the request left empty.
func reconcileVenueFields(event *models.Event, venue *models.Venue) {
	event.VenueID = &venue.ID
	event.VenueName = venue.Name
	event.VenueLocation = venue.Location
	event.VenuePrice = venue.PricePerDay
	event.VenueCapacity = venue.Capacity

	if event.Location == "" {
		event.Location = venue.Location
	}
	if event.City == "" {
		event.City = venue.City
	}
	if event.Area == "" {
		event.Area = venue.Area
	}
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Organizer").Preload("Venue").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	city := c.Query("city")
	area := c.Query("area")
	categoryID := c.Query("category_id")

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

	query := gormDB.Model(&models.Event{}).Where("status = ?", models.EventStatusActive)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if area != "" {
		query = query.Where("area = ?", area)
	}
	if categoryID != "" {
		categoryNum, err := helpers.StringToInt(categoryID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category id.")
			return
		}
		query = query.Where("category_id = ?", categoryNum)
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Venue").Offset(offset).Limit(limitNum).Order("date ASC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func loadOwnedEvent(c *gin.Context, gormDB *gorm.DB) (*models.Event, bool) {
	eventID := c.Param("id")

	userID, role, ok := requesterIdentity(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, false
	}

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return nil, false
	}

	if !event.OwnedBy(userID, role) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this event.")
		return nil, false
	}

	return &event, true
}

func UpdateEvent(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := loadOwnedEvent(c, gormDB)
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date format.")
		return
	}

	oldCategoryID := event.CategoryID

	event.Name = req.Name
	event.Description = req.Description
	event.Date = date
	if req.EndDate != "" {
		endDate, err := helpers.ParseDate(req.EndDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end date format.")
			return
		}
		event.EndDate = endDate
	}
	event.Location = req.Location
	event.City = req.City
	event.Area = req.Area
	event.CategoryID = req.CategoryID
	event.BasePrice = req.BasePrice
	if req.OrganizerName != "" {
		event.OrganizerName = req.OrganizerName
	}

	if req.VenueID != nil {
		var venue models.Venue
		if err := gormDB.Where("id = ?", req.VenueID).First(&venue).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Referenced venue not found.")
			return
		}
		reconcileVenueFields(event, &venue)
	}

	if err := gormDB.Save(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	if oldCategoryID != event.CategoryID {
		adjustCategoryCounts(gormDB, oldCategoryID, event.CategoryID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"data":    event,
	})
}

func adjustCategoryCounts(gormDB *gorm.DB, oldID, newID int) {
	if err := gormDB.Model(&models.EventCategory{}).
		Where("category_id = ? AND count > 0", oldID).
		UpdateColumn("count", gorm.Expr("count - 1")).Error; err != nil {
		log.Printf("failed to decrement category %d count: %v", oldID, err)
	}
	if err := gormDB.Model(&models.EventCategory{}).
		Where("category_id = ?", newID).
		UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
		log.Printf("failed to increment category %d count: %v", newID, err)
	}
}

// UpdateEventWithImages accepts multipart fields eventImage and venueImage and
// merges any venue sub-fields sent alongside them.
func UpdateEventWithImages(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := loadOwnedEvent(c, gormDB)
	if !ok {
		return
	}

	if name := c.PostForm("name"); name != "" {
		event.Name = name
	}
	if description := c.PostForm("description"); description != "" {
		event.Description = description
	}
	if dateStr := c.PostForm("date"); dateStr != "" {
		date, err := helpers.ParseDate(dateStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date format.")
			return
		}
		event.Date = date
	}
	if location := c.PostForm("location"); location != "" {
		event.Location = location
	}
	if city := c.PostForm("city"); city != "" {
		event.City = city
	}
	if area := c.PostForm("area"); area != "" {
		event.Area = area
	}

	// Shallow merge of venue sub-fields.
	if venueName := c.PostForm("venue_name"); venueName != "" {
		event.VenueName = venueName
	}
	if venueLocation := c.PostForm("venue_location"); venueLocation != "" {
		event.VenueLocation = venueLocation
	}
	if venuePrice := c.PostForm("venue_price"); venuePrice != "" {
		price, err := helpers.StringToInt(venuePrice)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid venue price.")
			return
		}
		event.VenuePrice = price
	}
	if venueCapacity := c.PostForm("venue_capacity"); venueCapacity != "" {
		capacity, err := helpers.StringToInt(venueCapacity)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid venue capacity.")
			return
		}
		event.VenueCapacity = capacity
	}

	eventImage, err := c.FormFile("eventImage")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, eventImage, "event_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if event.ImagePath != "" {
			if err := helpers.DeleteFile(event.ImagePath); err != nil {
				log.Printf("failed to delete old event image: %v", err)
			}
		}
		event.ImagePath = imagePath
	}

	venueImage, err := c.FormFile("venueImage")
	if err == nil && event.VenueID != nil {
		imagePath, err := helpers.UploadFile(c, venueImage, "venue_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := gormDB.Model(&models.Venue{}).Where("id = ?", event.VenueID).
			Update("image_path", imagePath).Error; err != nil {
			log.Printf("failed to update venue image: %v", err)
		}
	}

	if err := gormDB.Save(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"data":    event,
	})
}

func DeleteEvent(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := loadOwnedEvent(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Unscoped().Delete(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	if err := gormDB.Model(&models.EventCategory{}).
		Where("category_id = ? AND count > 0", event.CategoryID).
		UpdateColumn("count", gorm.Expr("count - 1")).Error; err != nil {
		log.Printf("failed to decrement category %d count: %v", event.CategoryID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
