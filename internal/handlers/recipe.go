package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/middleware"
	"github.com/rahasiadapur/backend/internal/services"
	"github.com/rahasiadapur/backend/pkg/response"
)

// RecipeHandler exposes the recipe endpoints. Create and update take
// multipart forms so a media file can ride along with the fields.
type RecipeHandler struct {
	recipes *services.RecipeService
}

func NewRecipeHandler(recipes *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// formStringSlice reads a repeated form field, also accepting a single
// JSON-encoded array for clients that serialize lists before sending.
func formStringSlice(c *gin.Context, name string) []string {
	values := c.PostFormArray(name)
	if len(values) == 1 {
		var decoded []string
		if err := json.Unmarshal([]byte(values[0]), &decoded); err == nil {
			return decoded
		}
	}
	return values
}

func recipeInputFrom(c *gin.Context) (*services.RecipeInput, error) {
	input := &services.RecipeInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Ingredients: formStringSlice(c, "ingredients"),
		Steps:       formStringSlice(c, "steps"),
		YoutubeURL:  c.PostForm("youtubeUrl"),
	}
	if input.Title == "" {
		return nil, response.NewBadRequest("Title is required")
	}
	if input.Category == "" {
		return nil, response.NewBadRequest("Category is required")
	}

	if file, err := c.FormFile("media"); err == nil {
		input.File = file
	}
	return input, nil
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, response.NewBadRequest("Invalid id")
	}
	return uint(id), nil
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// List handles GET /api/recipe
func (h *RecipeHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	list, err := h.recipes.List(c.Query("search"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipes retrieved", list)
}

// Get handles GET /api/recipe/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := h.recipes.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe retrieved", recipe)
}

// Create handles POST /api/recipe (admin).
func (h *RecipeHandler) Create(c *gin.Context) {
	input, err := recipeInputFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Recipe created", recipe)
}

// Update handles PUT /api/recipe/:id (admin).
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := recipeInputFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, middleware.GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe updated", recipe)
}

// Delete handles DELETE /api/recipe/:id (admin).
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.recipes.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe deleted", nil)
}
