package transform

import (
	"context"
	"fmt"
	"time"

	"ghibli-backend/domain"
	"ghibli-backend/internal/utils"
	"ghibli-backend/pkg/coin"
	"ghibli-backend/pkg/photo"

	"github.com/gofiber/fiber/v2/log"
)

const uploadDir = "uploads"

type (
	// Uploader re-hosts a device-reachable image and returns a publicly
	// addressable URL; satisfied by storage.AwsS3.
	Uploader interface {
		UploadFromURL(ctx context.Context, srcURL string, dir string) (string, error)
	}

	// Stylizer produces the styled-image URL for an uploaded image;
	// satisfied by stylize.Client.
	Stylizer interface {
		Stylize(ctx context.Context, imageURL string) (string, error)
	}

	TransformService interface {
		Transform(ctx context.Context, req domain.TransformRequest) (*domain.TransformResult, error)
		Regenerate(ctx context.Context, photoID string) (*domain.TransformResult, error)
	}

	transformService struct {
		coinService  coin.CoinService
		photoService photo.PhotoService
		uploader     Uploader
		stylizer     Stylizer
	}
)

func NewTransformService(
	coinService coin.CoinService,
	photoService photo.PhotoService,
	uploader Uploader,
	stylizer Stylizer,
) TransformService {
	return &transformService{
		coinService:  coinService,
		photoService: photoService,
		uploader:     uploader,
		stylizer:     stylizer,
	}
}

// Transform runs the full workflow: balance pre-check, duplicate check,
// debit, record creation, upload, stylize, finalize. The single coin is
// consumed before any network call and is not refunded when a later step
// fails; the user regenerates explicitly if they want another attempt.
func (s *transformService) Transform(ctx context.Context, req domain.TransformRequest) (*domain.TransformResult, error) {
	if s.coinService.GetBalance(ctx) <= 0 {
		return nil, domain.ErrInsufficientCoins
	}

	if !req.Force {
		if existing, ok := s.photoService.GetPhotoByOriginalURL(ctx, req.ImageURL); ok {
			// A completed result for this source already exists. Surface
			// the choice instead of silently spending another coin.
			return &domain.TransformResult{
				PhotoID:   existing.ID,
				Duplicate: true,
			}, nil
		}
	}

	ok, err := s.coinService.UseCoins(ctx, domain.TransformCost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientCoins
	}

	photoID := utils.NanoID(utils.DefaultIDSize)
	record := domain.Photo{
		ID:          photoID,
		OriginalURL: req.ImageURL,
		CreatedAt:   time.Now().UnixMilli(),
		Status:      domain.PhotoStatusProcessing,
	}
	if err := s.photoService.InsertPhoto(ctx, record); err != nil {
		return nil, err
	}

	if err := s.runPipeline(ctx, photoID, req.ImageURL); err != nil {
		return nil, err
	}

	return &domain.TransformResult{PhotoID: photoID}, nil
}

// Regenerate re-runs the workflow on an existing record's source image,
// reusing the same id. It consumes a fresh coin; the debit happens before
// the record is reset so an insufficient balance leaves it untouched.
func (s *transformService) Regenerate(ctx context.Context, photoID string) (*domain.TransformResult, error) {
	record, err := s.photoService.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.PhotoStatusProcessing {
		return nil, domain.ErrPhotoProcessing
	}

	ok, err := s.coinService.UseCoins(ctx, domain.TransformCost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientCoins
	}

	cleared := ""
	processing := domain.PhotoStatusProcessing
	if err := s.photoService.UpdatePhoto(ctx, photoID, domain.PhotoUpdate{
		TransformedURL: &cleared,
		Status:         &processing,
	}); err != nil {
		return nil, err
	}

	if err := s.runPipeline(ctx, photoID, record.OriginalURL); err != nil {
		return nil, err
	}

	return &domain.TransformResult{PhotoID: photoID}, nil
}

// runPipeline performs upload, stylize and finalize for a record already
// in processing state. Any failure moves the record to failed and returns
// the classified error; the coin stays spent.
func (s *transformService) runPipeline(ctx context.Context, photoID, originalURL string) error {
	remoteURL, err := s.uploader.UploadFromURL(ctx, originalURL, uploadDir)
	if err != nil {
		s.markFailed(ctx, photoID)
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	styledURL, err := s.stylizer.Stylize(ctx, remoteURL)
	if err != nil {
		s.markFailed(ctx, photoID)
		return err
	}

	completed := domain.PhotoStatusCompleted
	if err := s.photoService.UpdatePhoto(ctx, photoID, domain.PhotoUpdate{
		TransformedURL: &styledURL,
		Status:         &completed,
	}); err != nil {
		return err
	}

	return nil
}

func (s *transformService) markFailed(ctx context.Context, photoID string) {
	failed := domain.PhotoStatusFailed
	if err := s.photoService.UpdatePhoto(ctx, photoID, domain.PhotoUpdate{
		Status: &failed,
	}); err != nil {
		log.Errorf("failed to mark photo %s as failed: %v", photoID, err)
	}
}
