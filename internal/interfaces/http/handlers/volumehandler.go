package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rentalapp "github.com/inkwell-press/inkwell/internal/application/rental"
	volumeapp "github.com/inkwell-press/inkwell/internal/application/volume"
	"github.com/inkwell-press/inkwell/internal/shared/constants"
	"github.com/inkwell-press/inkwell/internal/shared/id"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/utils"
)

type VolumeHandler struct {
	volumeService *volumeapp.Service
	rentalService *rentalapp.Service
	logger        logger.Interface
}

func NewVolumeHandler(volumeService *volumeapp.Service, rentalService *rentalapp.Service, logger logger.Interface) *VolumeHandler {
	return &VolumeHandler{
		volumeService: volumeService,
		rentalService: rentalService,
		logger:        logger,
	}
}

// CreateVolume handles POST /novels/:id/volumes
func (h *VolumeHandler) CreateVolume(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input volumeapp.CreateVolumeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.volumeService.CreateVolume(c.Request.Context(), novelSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Volume created successfully")
}

// ListVolumes handles GET /novels/:id/volumes
func (h *VolumeHandler) ListVolumes(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.volumeService.ListByNovel(c.Request.Context(), novelSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetVolume handles GET /volumes/:id
func (h *VolumeHandler) GetVolume(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.volumeService.GetVolume(c.Request.Context(), volumeSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateVolume handles PUT /volumes/:id
func (h *VolumeHandler) UpdateVolume(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input volumeapp.UpdateVolumeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.volumeService.UpdateVolume(c.Request.Context(), volumeSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Volume updated successfully", result)
}

// ChangeMode handles PUT /volumes/:id/mode
func (h *VolumeHandler) ChangeMode(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input volumeapp.ChangeModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.volumeService.ChangeMode(c.Request.Context(), volumeSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("volume mode changed", "volume_sid", volumeSID, "mode", input.Mode)
	utils.SuccessResponse(c, http.StatusOK, "Volume mode updated", result)
}

type setPricingRequest struct {
	Price     int64 `json:"price" binding:"min=0"`
	RentPrice int64 `json:"rent_price" binding:"min=0"`
}

// SetPricing handles PUT /volumes/:id/pricing
func (h *VolumeHandler) SetPricing(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req setPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.volumeService.SetPricing(c.Request.Context(), volumeSID, req.Price, req.RentPrice)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Volume pricing updated", result)
}

// DeleteVolume handles DELETE /volumes/:id
func (h *VolumeHandler) DeleteVolume(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.volumeService.DeleteVolume(c.Request.Context(), volumeSID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// RentVolume handles POST /volumes/:id/rent
func (h *VolumeHandler) RentVolume(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.rentalService.RentVolume(c.Request.Context(), userID, volumeSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("volume rented", "volume_sid", volumeSID, "user_id", userID)
	utils.CreatedResponse(c, result, "Rental opened successfully")
}

// ListRentals handles GET /rentals — every rental the caller ever opened,
// expired ones included.
func (h *VolumeHandler) ListRentals(c *gin.Context) {
	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.rentalService.ListRentals(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetActiveRental handles GET /volumes/:id/rental
func (h *VolumeHandler) GetActiveRental(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.rentalService.GetActiveRental(c.Request.Context(), userID, volumeSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
