// controller/profile_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
	helper_util "github.com/Ricardo-Z-Li/access-control-system-sub000/util/helper"
)

type ProfileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// RegisterRoutes registers the API routes
func (pc *ProfileController) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	{
		profiles.POST("", pc.CreateProfile)
		profiles.PUT("/:id", pc.UpdateProfile)
		profiles.DELETE("/:id", pc.DeleteProfile)
		profiles.GET("/:id", pc.GetProfile)
		profiles.GET("", pc.ListProfiles)
		profiles.POST("/validate-rule", pc.ValidateTimeRule)
	}
}

// CreateProfile endpoint
func (pc *ProfileController) CreateProfile(c *gin.Context) {
	var profile model.AccessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", acs_errors.ErrInvalidProfileData)
		return
	}

	created, err := pc.profileService.CreateProfile(c, profile)
	if err != nil {
		switch {
		case errors.Is(err, acs_errors.ErrInvalidProfileData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", err)
		case errors.Is(err, acs_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create profile", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProfile endpoint
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	profileID := c.Param("id")
	var profile model.AccessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", err)
		return
	}
	profile.ID = profileID

	updated, err := pc.profileService.UpdateProfile(c, profile)
	if err != nil {
		switch {
		case errors.Is(err, acs_errors.ErrProfileNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Profile not found", err)
		case errors.Is(err, acs_errors.ErrInvalidProfileData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProfile endpoint
func (pc *ProfileController) DeleteProfile(c *gin.Context) {
	profileID := c.Param("id")

	if err := pc.profileService.DeleteProfile(c, profileID); err != nil {
		if errors.Is(err, acs_errors.ErrProfileNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Profile not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete profile", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile endpoint
func (pc *ProfileController) GetProfile(c *gin.Context) {
	profileID := c.Param("id")

	profile, err := pc.profileService.GetProfile(c, profileID)
	if err != nil {
		if errors.Is(err, acs_errors.ErrProfileNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Profile not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get profile", err)
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles endpoint
func (pc *ProfileController) ListProfiles(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	profiles, err := pc.profileService.ListProfiles(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list profiles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "count": len(profiles)})
}

type validateRuleRequest struct {
	Rule string `json:"rule" binding:"required"`
}

// ValidateTimeRule endpoint
func (pc *ProfileController) ValidateTimeRule(c *gin.Context) {
	var body validateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing rule expression", err)
		return
	}

	if err := pc.profileService.ValidateTimeRule(body.Rule); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
