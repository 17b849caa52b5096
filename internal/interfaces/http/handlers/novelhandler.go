package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	novelapp "github.com/inkwell-press/inkwell/internal/application/novel"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/shared/constants"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/id"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/utils"
)

type NovelHandler struct {
	novelService *novelapp.Service
	logger       logger.Interface
}

func NewNovelHandler(novelService *novelapp.Service, logger logger.Interface) *NovelHandler {
	return &NovelHandler{
		novelService: novelService,
		logger:       logger,
	}
}

// CreateNovel handles POST /novels
func (h *NovelHandler) CreateNovel(c *gin.Context) {
	var input novelapp.CreateNovelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	creatorID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.novelService.CreateNovel(c.Request.Context(), creatorID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Novel created successfully")
}

// GetNovel handles GET /novels/:id
func (h *NovelHandler) GetNovel(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.novelService.GetNovel(c.Request.Context(), novelSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetNovelBySlug handles GET /novels/slug/:slug
func (h *NovelHandler) GetNovelBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("novel slug is required"))
		return
	}

	result, err := h.novelService.GetNovelBySlug(c.Request.Context(), slug)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListNovels handles GET /novels
func (h *NovelHandler) ListNovels(c *gin.Context) {
	p := utils.ParsePagination(c)

	items, total, err := h.novelService.ListNovels(c.Request.Context(), p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, items, total, p.Page, p.PageSize)
}

// UpdateNovel handles PUT /novels/:id
func (h *NovelHandler) UpdateNovel(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input novelapp.UpdateNovelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.novelService.UpdateNovel(c.Request.Context(), novelSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Novel updated successfully", result)
}

type setRosterRequest struct {
	// Roster entries can be numeric user IDs or legacy usernames.
	Roster novel.Roster `json:"roster"`
}

// SetRoster handles PUT /novels/:id/roster
func (h *NovelHandler) SetRoster(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req setRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.novelService.SetRoster(c.Request.Context(), novelSID, req.Roster)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("novel roster updated", "novel_sid", novelSID, "size", len(req.Roster))
	utils.SuccessResponse(c, http.StatusOK, "Roster updated successfully", result)
}

// DeleteNovel handles DELETE /novels/:id
func (h *NovelHandler) DeleteNovel(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.novelService.DeleteNovel(c.Request.Context(), novelSID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Contribute handles POST /novels/:id/contribute
func (h *NovelHandler) Contribute(c *gin.Context) {
	novelSID, err := utils.ParseSIDParam(c, "id", id.PrefixNovel, "novel")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var input novelapp.ContributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	userID := c.GetUint(constants.ContextKeyUserID)

	result, err := h.novelService.Contribute(c.Request.Context(), userID, novelSID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Contribution received", result)
}
