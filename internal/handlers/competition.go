package handlers

import (
	"errors"
	"net/http"
	"time"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/services"
	"forumlink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompetitionHandler struct{}

func NewCompetitionHandler() *CompetitionHandler {
	return &CompetitionHandler{}
}

func (h *CompetitionHandler) List(c *gin.Context) {
	var competitions []models.Competition
	db.DB.Order("registration_opens_at DESC").Find(&competitions)

	c.JSON(http.StatusOK, gin.H{"competitions": competitions})
}

// Register creates a pending registration with a payment reference. The
// payment itself happens at an external gateway; ConfirmPayment records its
// outcome.
func (h *CompetitionHandler) Register(c *gin.Context) {
	user, _ := CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var comp models.Competition
	if err := db.DB.First(&comp, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "competition not found")
		return
	}

	if !services.CanRegister(comp, time.Now()) {
		JSONError(c, http.StatusForbidden, services.ErrRegistrationClosed.Error())
		return
	}

	var existing models.Registration
	err := db.DB.Where("competition_id = ? AND user_id = ?", comp.ID, user.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		JSONError(c, http.StatusInternalServerError, "could not register")
		return
	}

	reg := models.Registration{
		CompetitionID: comp.ID,
		UserID:        user.ID,
		PaymentRef:    uuid.NewString(),
		Status:        models.RegistrationStatusPending,
	}
	if err := db.DB.Create(&reg).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not register")
		return
	}

	c.JSON(http.StatusCreated, reg)
}

type confirmPaymentRequest struct {
	PaymentRef string `json:"payment_ref" binding:"required"`
}

// ConfirmPayment marks a registration paid once the external gateway reports
// success for its payment reference.
func (h *CompetitionHandler) ConfirmPayment(c *gin.Context) {
	user, _ := CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var reg models.Registration
	if err := db.DB.Where("competition_id = ? AND user_id = ? AND payment_ref = ?", id, user.ID, req.PaymentRef).First(&reg).Error; err != nil {
		JSONError(c, http.StatusNotFound, "registration not found")
		return
	}

	if reg.Status != models.RegistrationStatusPaid {
		now := time.Now()
		reg.Status = models.RegistrationStatusPaid
		reg.PaidAt = &now
		db.DB.Save(&reg)
	}

	c.JSON(http.StatusOK, reg)
}

type submitRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

// Submit records a competition entry for a paid registrant inside the
// submission window.
func (h *CompetitionHandler) Submit(c *gin.Context) {
	user, _ := CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var comp models.Competition
	if err := db.DB.First(&comp, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "competition not found")
		return
	}

	var reg *models.Registration
	var found models.Registration
	if err := db.DB.Where("competition_id = ? AND user_id = ?", comp.ID, user.ID).First(&found).Error; err == nil {
		reg = &found
	}

	if err := services.CheckSubmission(comp, reg, time.Now()); err != nil {
		JSONError(c, http.StatusForbidden, err.Error())
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	submission := models.Submission{
		CompetitionID: comp.ID,
		UserID:        user.ID,
		Title:         req.Title,
		URL:           req.URL,
		Notes:         req.Notes,
	}
	if err := db.DB.Create(&submission).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not record submission")
		return
	}

	c.JSON(http.StatusCreated, submission)
}
