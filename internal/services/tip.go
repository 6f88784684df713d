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

const trendingLimit = 5

// TipInput carries a create/update payload after the handler pulled it out of
// the multipart form.
type TipInput struct {
	Title       string
	Description string
	YoutubeURL  string
	File        *multipart.FileHeader
}

// TipList is one page of tips plus pagination metadata.
type TipList struct {
	Tips  []models.Tip `json:"tips"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// LikeResult reports the state of a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// TipService implements tip CRUD, the per-user like toggle and the trending
// feed.
type TipService struct {
	tips  *store.Tips
	media *storage.MediaStore
	queue TaskQueue
}

func NewTipService(tips *store.Tips, media *storage.MediaStore, queue TaskQueue) *TipService {
	return &TipService{
		tips:  tips,
		media: media,
		queue: queue,
	}
}

func (s *TipService) List(search string, page, limit int) (*TipList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	tips, total, err := s.tips.List(search, page, limit)
	if err != nil {
		return nil, err
	}

	return &TipList{
		Tips:  tips,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Trending returns the top tips by views + 3x likes.
func (s *TipService) Trending() ([]models.Tip, error) {
	return s.tips.Trending(trendingLimit)
}

// Get loads one tip and counts the view.
func (s *TipService) Get(id uint) (*models.Tip, error) {
	tip, err := s.tips.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tip == nil {
		return nil, response.NewNotFound("Tip not found")
	}

	if err := s.tips.IncrementViews(id); err != nil {
		return nil, err
	}
	tip.Views++

	return tip, nil
}

func (s *TipService) Create(ctx context.Context, author uint, input *TipInput) (*models.Tip, error) {
	media, err := s.resolveMedia(ctx, input)
	if err != nil {
		return nil, err
	}

	tip := &models.Tip{
		Title:       input.Title,
		Description: input.Description,
		Media:       media,
		CreatedBy:   author,
	}
	if err := s.tips.Create(tip); err != nil {
		return nil, err
	}

	LogActivity(&author, "CREATE_TIP", models.ActivityTypeTips, &tip.ID,
		fmt.Sprintf("Tip %q created", tip.Title))

	return tip, nil
}

func (s *TipService) Update(ctx context.Context, id, editor uint, input *TipInput) (*models.Tip, error) {
	tip, err := s.tips.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tip == nil {
		return nil, response.NewNotFound("Tip not found")
	}

	oldMedia := tip.Media
	if input.File != nil || input.YoutubeURL != "" {
		media, err := s.resolveMedia(ctx, input)
		if err != nil {
			return nil, err
		}
		tip.Media = media
	}

	tip.Title = input.Title
	tip.Description = input.Description

	if err := s.tips.Save(tip); err != nil {
		return nil, err
	}

	if tip.Media.PublicID != oldMedia.PublicID {
		s.purgeMedia(oldMedia)
	}

	LogActivity(&editor, "UPDATE_TIP", models.ActivityTypeTips, &tip.ID,
		fmt.Sprintf("Tip %q updated", tip.Title))

	return tip, nil
}

func (s *TipService) Delete(id, editor uint) error {
	tip, err := s.tips.FindByID(id)
	if err != nil {
		return err
	}
	if tip == nil {
		return response.NewNotFound("Tip not found")
	}

	if err := s.tips.Delete(id); err != nil {
		return err
	}

	s.purgeMedia(tip.Media)

	LogActivity(&editor, "DELETE_TIP", models.ActivityTypeTips, &id,
		fmt.Sprintf("Tip %q deleted", tip.Title))

	return nil
}

// ToggleLike flips the caller's like on a tip and returns the new state.
func (s *TipService) ToggleLike(tipID, userID uint) (*LikeResult, error) {
	tip, err := s.tips.FindByID(tipID)
	if err != nil {
		return nil, err
	}
	if tip == nil {
		return nil, response.NewNotFound("Tip not found")
	}

	liked, err := s.tips.ToggleLike(tipID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.tips.LikeCount(tipID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *TipService) resolveMedia(ctx context.Context, input *TipInput) (models.Media, error) {
	if input.File != nil {
		if s.media == nil {
			return models.Media{}, response.NewBadRequest("Media uploads are not configured")
		}
		result, err := s.media.Upload(ctx, "tips", input.File)
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

func (s *TipService) purgeMedia(media models.Media) {
	if media.PublicID == "" || s.queue == nil {
		return
	}
	_ = s.queue.Enqueue(&MediaPurgeTask{
		PublicID:  media.PublicID,
		MediaType: media.Type,
	})
}
