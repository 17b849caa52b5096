package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	topupapp "github.com/inkwell-press/inkwell/internal/application/topup"
	"github.com/inkwell-press/inkwell/internal/shared/constants"
	"github.com/inkwell-press/inkwell/internal/shared/id"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/utils"
	"github.com/inkwell-press/inkwell/internal/shared/utils/logutil"
)

type TopUpHandler struct {
	topUpService *topupapp.Service
	logger       logger.Interface
}

func NewTopUpHandler(topUpService *topupapp.Service, logger logger.Interface) *TopUpHandler {
	return &TopUpHandler{
		topUpService: topUpService,
		logger:       logger,
	}
}

// CreateTopUp handles POST /topups
func (h *TopUpHandler) CreateTopUp(c *gin.Context) {
	var input topupapp.CreateTopUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.topUpService.CreateTopUp(c.Request.Context(), userID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "TopUp created successfully")
}

// GetTopUp handles GET /topups/:id
func (h *TopUpHandler) GetTopUp(c *gin.Context) {
	topUpSID, err := utils.ParseSIDParam(c, "id", id.PrefixTopUp, "topup")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.topUpService.GetTopUp(c.Request.Context(), topUpSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTopUps handles GET /topups
func (h *TopUpHandler) ListTopUps(c *gin.Context) {
	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.topUpService.ListTopUps(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type settleWebhookRequest struct {
	ProviderRef string `json:"provider_ref" binding:"required"`
	Approved    bool   `json:"approved"`
}

// SettleWebhook handles POST /webhooks/topup. Providers retry deliveries, so
// settlement is idempotent on provider_ref.
func (h *TopUpHandler) SettleWebhook(c *gin.Context) {
	var req settleWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.topUpService.Settle(c.Request.Context(), req.ProviderRef, req.Approved)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("topup settled",
		"provider_ref", logutil.TruncateForLog(req.ProviderRef, 12),
		"approved", req.Approved,
		"status", result.Status,
	)
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
