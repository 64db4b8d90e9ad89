package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/helpers"
	"github.com/davinrk/venuely/internal/models"
)

type CategoryRequest struct {
	CategoryID int    `json:"category_id" binding:"required,min=1"`
	Title      string `json:"title" binding:"required,min=2"`
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
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

	var existing models.EventCategory
	if result := gormDB.Where("category_id = ?", req.CategoryID).First(&existing); result.Error == nil {
		// A soft-deleted category with the same number is revived instead of
		// duplicated.
		if !existing.IsActive {
			existing.Title = req.Title
			existing.IsActive = true
			if err := gormDB.Save(&existing).Error; err != nil {
				helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to restore category.")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message": "Category restored successfully.",
				"data":    existing,
			})
			return
		}
		helpers.RespondWithError(c, http.StatusConflict, "Category already exists.")
		return
	}

	category := models.EventCategory{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		IsActive:   true,
	}

	if err := gormDB.Create(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully.",
		"data":    category,
	})
}

func GetCategory(c *gin.Context) {
	categoryID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category id.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var category models.EventCategory
	if err := gormDB.Where("category_id = ? AND is_active = ?", categoryID, true).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving category.")
		return
	}

	c.JSON(http.StatusOK, category)
}

func ListCategories(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var categories []models.EventCategory
	err := gormDB.Where("is_active = ?", true).Order("category_id ASC").Find(&categories).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully.",
		"data":    categories,
	})
}

func UpdateCategory(c *gin.Context) {
	categoryID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category id.")
		return
	}

	var req struct {
		Title string `json:"title" binding:"required,min=2"`
	}
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

	var category models.EventCategory
	if err := gormDB.Where("category_id = ?", categoryID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	category.Title = req.Title

	if err := gormDB.Save(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update category.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category updated successfully.",
		"data":    category,
	})
}

// DeleteCategory soft-deletes: the row stays, is_active flips to false and the
// category disappears from listings.
func DeleteCategory(c *gin.Context) {
	categoryID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category id.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Model(&models.EventCategory{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Update("is_active", false)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully."})
}
