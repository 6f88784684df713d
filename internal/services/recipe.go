package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/storage"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/utils"
	"github.com/rahasiadapur/backend/pkg/response"
)

// RecipeInput carries a create/update payload after the handler pulled it out
// of the multipart form. File and YoutubeURL are mutually exclusive; both
// empty means "keep existing media" on update and "no media" on create.
type RecipeInput struct {
	Title       string
	Description string
	Category    string
	Ingredients []string
	Steps       []string
	YoutubeURL  string
	File        *multipart.FileHeader
}

// RecipeList is one page of recipes plus pagination metadata.
type RecipeList struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// RecipeService implements recipe CRUD with media handling. Replaced or
// deleted cloud objects are purged through the task queue, never inline.
type RecipeService struct {
	recipes *store.Recipes
	media   *storage.MediaStore
	queue   TaskQueue
}

func NewRecipeService(recipes *store.Recipes, media *storage.MediaStore, queue TaskQueue) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		media:   media,
		queue:   queue,
	}
}

// List returns a page of recipes. Page and limit are clamped to sane values.
func (s *RecipeService) List(search string, page, limit int) (*RecipeList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	recipes, total, err := s.recipes.List(search, page, limit)
	if err != nil {
		return nil, err
	}

	return &RecipeList{
		Recipes: recipes,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// Get loads one recipe and counts the view.
func (s *RecipeService) Get(id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, response.NewNotFound("Recipe not found")
	}

	if err := s.recipes.IncrementViews(id); err != nil {
		return nil, err
	}
	recipe.Views++

	return recipe, nil
}

// Create adds a recipe. A second recipe with the same title by the same
// author is rejected.
func (s *RecipeService) Create(ctx context.Context, author uint, input *RecipeInput) (*models.Recipe, error) {
	exists, err := s.recipes.TitleExistsForAuthor(input.Title, author, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewBadRequest("You already have a recipe with this title")
	}

	media, err := s.resolveMedia(ctx, input)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
		Media:       media,
		CreatedBy:   author,
	}
	if err := s.recipes.Create(recipe); err != nil {
		return nil, err
	}

	LogActivity(&author, "CREATE_RECIPE", models.ActivityTypeRecipe, &recipe.ID,
		fmt.Sprintf("Recipe %q created", recipe.Title))

	return recipe, nil
}

// Update modifies a recipe. When new media arrives the previous cloud object
// is queued for purge.
func (s *RecipeService) Update(ctx context.Context, id, editor uint, input *RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, response.NewNotFound("Recipe not found")
	}

	exists, err := s.recipes.TitleExistsForAuthor(input.Title, recipe.CreatedBy, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewBadRequest("You already have a recipe with this title")
	}

	oldMedia := recipe.Media
	if input.File != nil || input.YoutubeURL != "" {
		media, err := s.resolveMedia(ctx, input)
		if err != nil {
			return nil, err
		}
		recipe.Media = media
	}

	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Category = input.Category
	recipe.Ingredients = input.Ingredients
	recipe.Steps = input.Steps

	if err := s.recipes.Save(recipe); err != nil {
		return nil, err
	}

	if recipe.Media.PublicID != oldMedia.PublicID {
		s.purgeMedia(oldMedia)
	}

	LogActivity(&editor, "UPDATE_RECIPE", models.ActivityTypeRecipe, &recipe.ID,
		fmt.Sprintf("Recipe %q updated", recipe.Title))

	return recipe, nil
}

// Delete removes a recipe and queues its cloud media for purge.
func (s *RecipeService) Delete(id, editor uint) error {
	recipe, err := s.recipes.FindByID(id)
	if err != nil {
		return err
	}
	if recipe == nil {
		return response.NewNotFound("Recipe not found")
	}

	if err := s.recipes.Delete(id); err != nil {
		return err
	}

	s.purgeMedia(recipe.Media)

	LogActivity(&editor, "DELETE_RECIPE", models.ActivityTypeRecipe, &id,
		fmt.Sprintf("Recipe %q deleted", recipe.Title))

	return nil
}

// resolveMedia turns the input into a Media value: uploaded file, YouTube
// link, or nothing.
func (s *RecipeService) resolveMedia(ctx context.Context, input *RecipeInput) (models.Media, error) {
	if input.File != nil {
		if s.media == nil {
			return models.Media{}, response.NewBadRequest("Media uploads are not configured")
		}
		result, err := s.media.Upload(ctx, "recipes", input.File)
		if err != nil {
			return models.Media{}, response.NewBadRequest(err.Error())
		}
		return models.Media{
			Type:     result.MediaType,
			URL:      result.URL,
			PublicID: result.PublicID,
		}, nil
	}

	if input.YoutubeURL != "" {
		if utils.ExtractYoutubeID(input.YoutubeURL) == "" {
			return models.Media{}, response.NewBadRequest("Invalid YouTube URL")
		}
		return models.Media{
			Type:      models.MediaYoutube,
			URL:       utils.YoutubeEmbedURL(input.YoutubeURL),
			Thumbnail: utils.YoutubeThumbnail(input.YoutubeURL),
		}, nil
	}

	return models.Media{}, nil
}

func (s *RecipeService) purgeMedia(media models.Media) {
	if media.PublicID == "" || s.queue == nil {
		return
	}
	_ = s.queue.Enqueue(&MediaPurgeTask{
		PublicID:  media.PublicID,
		MediaType: media.Type,
	})
}
