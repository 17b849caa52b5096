package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accessapp "github.com/inkwell-press/inkwell/internal/application/access"
	chapterapp "github.com/inkwell-press/inkwell/internal/application/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/shared/constants"
	"github.com/inkwell-press/inkwell/internal/shared/id"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/utils"
)

type ChapterHandler struct {
	chapterService *chapterapp.Service
	accessService  *accessapp.Service
	logger         logger.Interface
}

func NewChapterHandler(chapterService *chapterapp.Service, accessService *accessapp.Service, logger logger.Interface) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		accessService:  accessService,
		logger:         logger,
	}
}

// CreateChapter handles POST /volumes/:id/chapters
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input chapterapp.CreateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.chapterService.CreateChapter(c.Request.Context(), volumeSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Chapter created successfully")
}

// ListChapters handles GET /volumes/:id/chapters
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	volumeSID, err := utils.ParseSIDParam(c, "id", id.PrefixVolume, "volume")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.chapterService.ListByVolume(c.Request.Context(), volumeSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetChapter handles GET /chapters/:id — the authoring view, body included,
// no access gating. Reader traffic goes through ReadChapter.
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.chapterService.GetChapter(c.Request.Context(), chapterSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ReadChapter handles GET /chapters/:id/read. Anonymous readers are allowed;
// the evaluator decides whether the caller gets the body.
func (h *ChapterHandler) ReadChapter(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID := c.GetUint(constants.ContextKeyUserID)

	view, err := h.accessService.EvaluateChapter(c.Request.Context(), chapterSID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !view.Granted {
		// Denied drafts present as missing so their existence never leaks.
		if view.Mode == content.ModeDraft {
			utils.ErrorResponse(c, http.StatusNotFound, "chapter not found")
			return
		}
		// Other denials still carry chapter metadata so clients can render
		// a paywall or login prompt.
		utils.SuccessResponse(c, http.StatusPaymentRequired, view.Message, view)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", view)
}

// UpdateChapter handles PUT /chapters/:id
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input chapterapp.UpdateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.chapterService.UpdateChapter(c.Request.Context(), chapterSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Chapter updated successfully", result)
}

// ChangeMode handles PUT /chapters/:id/mode
func (h *ChapterHandler) ChangeMode(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input chapterapp.ChangeModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.chapterService.ChangeMode(c.Request.Context(), chapterSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("chapter mode changed", "chapter_sid", chapterSID, "mode", input.Mode)
	utils.SuccessResponse(c, http.StatusOK, "Chapter mode updated", result)
}

type setPriceRequest struct {
	Price int64 `json:"price" binding:"min=0"`
}

// SetPrice handles PUT /chapters/:id/price
func (h *ChapterHandler) SetPrice(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.chapterService.SetPrice(c.Request.Context(), chapterSID, req.Price)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Chapter price updated", result)
}

// DeleteChapter handles DELETE /chapters/:id
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	chapterSID, err := utils.ParseSIDParam(c, "id", id.PrefixChapter, "chapter")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.chapterService.DeleteChapter(c.Request.Context(), chapterSID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
