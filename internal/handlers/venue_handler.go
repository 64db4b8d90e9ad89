package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/helpers"
	"github.com/davinrk/venuely/internal/models"
)

type VenueRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
	City        string `json:"city"`
	Area        string `json:"area"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	PricePerDay int    `json:"price_per_day" binding:"required,min=0"`
}

func CreateVenue(c *gin.Context) {
	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	venue := models.Venue{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		City:        req.City,
		Area:        req.Area,
		Capacity:    req.Capacity,
		PricePerDay: req.PricePerDay,
	}

	if err := gormDB.Create(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create venue.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Venue created successfully.",
		"data":    venue,
	})
}

func GetVenue(c *gin.Context) {
	venueID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Where("id = ?", venueID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venue.")
		return
	}

	c.JSON(http.StatusOK, venue)
}

func ListVenues(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	city := c.Query("city")

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

	query := gormDB.Model(&models.Venue{})
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var totalCount int64
	query.Count(&totalCount)

	var venues []models.Venue
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&venues).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venues.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venues":      venues,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateVenue(c *gin.Context) {
	venueID := c.Param("id")

	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Where("id = ?", venueID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding venue.")
		return
	}

	venue.Name = req.Name
	venue.Description = req.Description
	venue.Location = req.Location
	venue.City = req.City
	venue.Area = req.Area
	venue.Capacity = req.Capacity
	venue.PricePerDay = req.PricePerDay

	if err := gormDB.Save(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update venue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Venue updated successfully.",
		"data":    venue,
	})
}

func DeleteVenue(c *gin.Context) {
	venueID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", venueID).Delete(&models.Venue{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venue deleted successfully."})
}
