// controller/badge_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
	helper_util "github.com/Ricardo-Z-Li/access-control-system-sub000/util/helper"
)

type BadgeController struct {
	badgeService service.IBadgeService
}

func NewBadgeController(badgeService service.IBadgeService) *BadgeController {
	return &BadgeController{
		badgeService: badgeService,
	}
}

// RegisterRoutes registers the API routes
func (bc *BadgeController) RegisterRoutes(r *gin.RouterGroup) {
	badges := r.Group("/badges")
	{
		badges.POST("", bc.CreateBadge)
		badges.PUT("/:id", bc.UpdateBadge)
		badges.DELETE("/:id", bc.DeleteBadge)
		badges.GET("/:id", bc.GetBadge)
		badges.GET("", bc.ListBadges)
		badges.POST("/:id/rotate", bc.CompleteRotation)
	}
}

// CreateBadge endpoint
func (bc *BadgeController) CreateBadge(c *gin.Context) {
	var badge model.Badge
	if err := c.ShouldBindJSON(&badge); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid badge data", acs_errors.ErrInvalidBadgeData)
		return
	}

	created, err := bc.badgeService.CreateBadge(c, badge)
	if err != nil {
		switch {
		case errors.Is(err, acs_errors.ErrInvalidBadgeData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid badge data", err)
		case errors.Is(err, acs_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create badge", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateBadge endpoint
func (bc *BadgeController) UpdateBadge(c *gin.Context) {
	badgeID := c.Param("id")
	var badge model.Badge
	if err := c.ShouldBindJSON(&badge); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid badge data", err)
		return
	}
	badge.ID = badgeID

	updated, err := bc.badgeService.UpdateBadge(c, badge)
	if err != nil {
		switch {
		case errors.Is(err, acs_errors.ErrBadgeNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Badge not found", err)
		case errors.Is(err, acs_errors.ErrInvalidBadgeData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid badge data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update badge", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteBadge endpoint
func (bc *BadgeController) DeleteBadge(c *gin.Context) {
	badgeID := c.Param("id")

	if err := bc.badgeService.DeleteBadge(c, badgeID); err != nil {
		if errors.Is(err, acs_errors.ErrBadgeNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Badge not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete badge", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBadge endpoint
func (bc *BadgeController) GetBadge(c *gin.Context) {
	badgeID := c.Param("id")

	badge, err := bc.badgeService.GetBadge(c, badgeID)
	if err != nil {
		if errors.Is(err, acs_errors.ErrBadgeNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Badge not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get badge", err)
		}
		return
	}

	c.JSON(http.StatusOK, badge)
}

// ListBadges endpoint
func (bc *BadgeController) ListBadges(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	badges, err := bc.badgeService.ListBadges(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list badges", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "count": len(badges)})
}

// CompleteRotation endpoint
func (bc *BadgeController) CompleteRotation(c *gin.Context) {
	badgeID := c.Param("id")
	rotationPeriodDays := viper.GetInt("engine.rotationPeriodDays")

	badge, err := bc.badgeService.CompleteRotation(c, badgeID, rotationPeriodDays)
	if err != nil {
		if errors.Is(err, acs_errors.ErrBadgeNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Badge not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to complete rotation", err)
		}
		return
	}

	c.JSON(http.StatusOK, badge)
}
