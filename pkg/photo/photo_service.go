package photo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ghibli-backend/domain"
	"ghibli-backend/internal/utils/mailing"
	"ghibli-backend/pkg/kvstore"
)

type (
	// ImageFetcher downloads image bytes; satisfied by storage.AwsS3.
	ImageFetcher interface {
		FetchFile(ctx context.Context, fileURL string) ([]byte, error)
	}

	PhotoService interface {
		InsertPhoto(ctx context.Context, p domain.Photo) error
		UpdatePhoto(ctx context.Context, id string, updates domain.PhotoUpdate) error
		GetPhotos(ctx context.Context) []domain.Photo
		GetPhotoByID(ctx context.Context, id string) (domain.Photo, error)
		GetPhotoByOriginalURL(ctx context.Context, originalURL string) (domain.Photo, bool)
		DeleteAllPhotos(ctx context.Context) error

		SharePhoto(ctx context.Context, id string, req domain.SharePhotoRequest) error
		DownloadPhoto(ctx context.Context, id string) (*domain.PhotoDownload, error)

		Subscribe() <-chan struct{}
	}

	photoService struct {
		mu     sync.RWMutex
		photos []domain.Photo

		kv      kvstore.Store
		mailer  mailing.Mailer
		fetcher ImageFetcher

		subMu sync.Mutex
		subs  []chan struct{}
	}

	photoSnapshot struct {
		Photos []domain.Photo `json:"photos"`
	}
)

// NewPhotoService loads the persisted collection (newest first) and
// returns the ledger. An absent snapshot means an empty collection.
func NewPhotoService(kv kvstore.Store, mailer mailing.Mailer, fetcher ImageFetcher) (PhotoService, error) {
	s := &photoService{
		kv:      kv,
		mailer:  mailer,
		fetcher: fetcher,
	}

	data, found, err := kv.Get(context.Background(), kvstore.PhotosNamespace)
	if err != nil {
		return nil, fmt.Errorf("load photo snapshot: %w", err)
	}
	if found {
		var snap photoSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode photo snapshot: %w", err)
		}
		s.photos = snap.Photos
	}

	return s, nil
}

// InsertPhoto prepends the record so the collection stays newest first.
// Id uniqueness is the caller's responsibility; the generator makes
// collisions practically improbable.
func (s *photoService) InsertPhoto(ctx context.Context, p domain.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.photos = append([]domain.Photo{p}, s.photos...)
	if err := s.persistLocked(ctx); err != nil {
		s.photos = s.photos[1:]
		return err
	}

	s.notify()
	return nil
}

func (s *photoService) UpdatePhoto(ctx context.Context, id string, updates domain.PhotoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.photos {
		if s.photos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrPhotoNotFound
	}

	prev := s.photos[idx]
	if updates.TransformedURL != nil {
		s.photos[idx].TransformedURL = *updates.TransformedURL
	}
	if updates.Status != nil {
		s.photos[idx].Status = *updates.Status
	}

	if err := s.persistLocked(ctx); err != nil {
		s.photos[idx] = prev
		return err
	}

	s.notify()
	return nil
}

func (s *photoService) GetPhotos(_ context.Context) []domain.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Photo, len(s.photos))
	copy(res, s.photos)
	return res
}

func (s *photoService) GetPhotoByID(_ context.Context, id string) (domain.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.photos {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Photo{}, domain.ErrPhotoNotFound
}

// GetPhotoByOriginalURL returns the newest record for originalURL that
// finished successfully. Records still processing or failed never match,
// so only a real result counts as a dedup hit.
func (s *photoService) GetPhotoByOriginalURL(_ context.Context, originalURL string) (domain.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.photos {
		if p.OriginalURL == originalURL &&
			p.Status == domain.PhotoStatusCompleted &&
			p.TransformedURL != "" {
			return p, true
		}
	}
	return domain.Photo{}, false
}

func (s *photoService) DeleteAllPhotos(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.photos
	s.photos = nil
	if err := s.persistLocked(ctx); err != nil {
		s.photos = prev
		return err
	}

	s.notify()
	return nil
}

func (s *photoService) SharePhoto(ctx context.Context, id string, req domain.SharePhotoRequest) error {
	p, err := s.GetPhotoByID(ctx, id)
	if err != nil {
		return err
	}
	if p.TransformedURL == "" {
		return domain.ErrNoTransformedImage
	}

	body := fmt.Sprintf(
		`<p>Check out my Ghibli-style photo created with Ghibli AI!</p><p><a href="%s">View the photo</a></p>`,
		p.TransformedURL,
	)
	return s.mailer.SendMail(req.Email, "Check out my Ghibli-style photo!", body)
}

func (s *photoService) DownloadPhoto(ctx context.Context, id string) (*domain.PhotoDownload, error) {
	p, err := s.GetPhotoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.TransformedURL == "" {
		return nil, domain.ErrNoTransformedImage
	}

	data, err := s.fetcher.FetchFile(ctx, p.TransformedURL)
	if err != nil {
		return nil, err
	}

	return &domain.PhotoDownload{
		Filename: fmt.Sprintf("ghibli_%s.jpg", p.ID),
		Data:     data,
	}, nil
}

// Subscribe returns a channel signaled after every committed mutation;
// the presentation layer uses it to re-render reactively.
func (s *photoService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *photoService) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(photoSnapshot{Photos: s.photos})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.PhotosNamespace, data)
}

func (s *photoService) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
