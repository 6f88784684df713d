package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/middleware"
	"github.com/rahasiadapur/backend/internal/services"
	"github.com/rahasiadapur/backend/pkg/response"
)

// TipHandler exposes the tips endpoints.
type TipHandler struct {
	tips *services.TipService
}

func NewTipHandler(tips *services.TipService) *TipHandler {
	return &TipHandler{tips: tips}
}

func tipInputFrom(c *gin.Context) (*services.TipInput, error) {
	input := &services.TipInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		YoutubeURL:  c.PostForm("youtubeUrl"),
	}
	if input.Title == "" {
		return nil, response.NewBadRequest("Title is required")
	}
	if input.Description == "" {
		return nil, response.NewBadRequest("Description is required")
	}

	if file, err := c.FormFile("media"); err == nil {
		input.File = file
	}
	return input, nil
}

// List handles GET /api/tips
func (h *TipHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	list, err := h.tips.List(c.Query("search"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tips retrieved", list)
}

// Trending handles GET /api/tips/trending
func (h *TipHandler) Trending(c *gin.Context) {
	tips, err := h.tips.Trending()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Trending tips retrieved", tips)
}

// Get handles GET /api/tips/:id
func (h *TipHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tip, err := h.tips.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tip retrieved", tip)
}

// Create handles POST /api/tips (admin).
func (h *TipHandler) Create(c *gin.Context) {
	input, err := tipInputFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tip, err := h.tips.Create(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tip created", tip)
}

// Update handles PUT /api/tips/:id (admin).
func (h *TipHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := tipInputFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tip, err := h.tips.Update(c.Request.Context(), id, middleware.GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tip updated", tip)
}

// Delete handles DELETE /api/tips/:id (admin).
func (h *TipHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.tips.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tip deleted", nil)
}

// ToggleLike handles POST /api/tips/:id/like (authenticated users).
func (h *TipHandler) ToggleLike(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.tips.ToggleLike(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Tip unliked"
	if result.Liked {
		message = "Tip liked"
	}
	response.OK(c, message, result)
}
