package photo

import (
	"context"
	"errors"
	"testing"

	"ghibli-backend/domain"
	"ghibli-backend/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeMailer) SendMail(toEmail, subject, htmlBody string) error {
	f.to = toEmail
	f.subject = subject
	f.body = htmlBody
	return f.err
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) FetchFile(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

func newTestPhotoService(t *testing.T, kv kvstore.Store) PhotoService {
	t.Helper()
	svc, err := NewPhotoService(kv, &fakeMailer{}, &fakeFetcher{data: []byte("jpeg-bytes")})
	require.NoError(t, err)
	return svc
}

func completedPhoto(id, originalURL string) domain.Photo {
	return domain.Photo{
		ID:             id,
		OriginalURL:    originalURL,
		TransformedURL: "https://cdn.example.com/" + id + ".jpg",
		CreatedAt:      1700000000000,
		Status:         domain.PhotoStatusCompleted,
	}
}

func TestPhotoService_InsertKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("first", "https://a.example.com/1.jpg")))
	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("second", "https://a.example.com/2.jpg")))

	photos := svc.GetPhotos(ctx)
	require.Len(t, photos, 2)
	assert.Equal(t, "second", photos[0].ID)
	assert.Equal(t, "first", photos[1].ID)
}

func TestPhotoService_UpdatePhoto(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, domain.Photo{
		ID:          "p1",
		OriginalURL: "https://a.example.com/1.jpg",
		Status:      domain.PhotoStatusProcessing,
	}))

	url := "https://cdn.example.com/p1.jpg"
	completed := domain.PhotoStatusCompleted
	require.NoError(t, svc.UpdatePhoto(ctx, "p1", domain.PhotoUpdate{
		TransformedURL: &url,
		Status:         &completed,
	}))

	p, err := svc.GetPhotoByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, url, p.TransformedURL)
	assert.Equal(t, domain.PhotoStatusCompleted, p.Status)
	assert.Equal(t, "https://a.example.com/1.jpg", p.OriginalURL, "untouched fields must survive a partial update")
}

func TestPhotoService_UpdateUnknownPhoto(t *testing.T) {
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	completed := domain.PhotoStatusCompleted
	err := svc.UpdatePhoto(context.Background(), "missing", domain.PhotoUpdate{Status: &completed})
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}

func TestPhotoService_GetPhotoByOriginalURL(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, domain.Photo{
		ID:          "pending",
		OriginalURL: "https://a.example.com/1.jpg",
		Status:      domain.PhotoStatusProcessing,
	}))
	require.NoError(t, svc.InsertPhoto(ctx, domain.Photo{
		ID:          "broken",
		OriginalURL: "https://a.example.com/2.jpg",
		Status:      domain.PhotoStatusFailed,
	}))
	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("done", "https://a.example.com/3.jpg")))

	_, found := svc.GetPhotoByOriginalURL(ctx, "https://a.example.com/1.jpg")
	assert.False(t, found, "processing records are not dedup hits")

	_, found = svc.GetPhotoByOriginalURL(ctx, "https://a.example.com/2.jpg")
	assert.False(t, found, "failed records are not dedup hits")

	p, found := svc.GetPhotoByOriginalURL(ctx, "https://a.example.com/3.jpg")
	assert.True(t, found)
	assert.Equal(t, "done", p.ID)
}

func TestPhotoService_DeleteAllPhotos(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("p1", "https://a.example.com/1.jpg")))
	require.NoError(t, svc.DeleteAllPhotos(ctx))
	assert.Empty(t, svc.GetPhotos(ctx))
}

func TestPhotoService_CollectionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	svc := newTestPhotoService(t, kv)
	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("p1", "https://a.example.com/1.jpg")))
	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("p2", "https://a.example.com/2.jpg")))

	restarted := newTestPhotoService(t, kv)
	photos := restarted.GetPhotos(ctx)
	require.Len(t, photos, 2)
	assert.Equal(t, "p2", photos[0].ID)
}

func TestPhotoService_SharePhoto(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc, err := NewPhotoService(kvstore.NewMemoryStore(), mailer, &fakeFetcher{})
	require.NoError(t, err)

	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("p1", "https://a.example.com/1.jpg")))

	require.NoError(t, svc.SharePhoto(ctx, "p1", domain.SharePhotoRequest{Email: "friend@example.com"}))
	assert.Equal(t, "friend@example.com", mailer.to)
	assert.Contains(t, mailer.body, "https://cdn.example.com/p1.jpg")
}

func TestPhotoService_SharePhotoWithoutResult(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, domain.Photo{
		ID:          "pending",
		OriginalURL: "https://a.example.com/1.jpg",
		Status:      domain.PhotoStatusProcessing,
	}))

	err := svc.SharePhoto(ctx, "pending", domain.SharePhotoRequest{Email: "friend@example.com"})
	assert.ErrorIs(t, err, domain.ErrNoTransformedImage)
}

func TestPhotoService_DownloadPhoto(t *testing.T) {
	ctx := context.Background()
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("abc123", "https://a.example.com/1.jpg")))

	download, err := svc.DownloadPhoto(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "ghibli_abc123.jpg", download.Filename)
	assert.Equal(t, []byte("jpeg-bytes"), download.Data)
}

func TestPhotoService_DownloadPhotoFetchError(t *testing.T) {
	ctx := context.Background()
	fetchErr := errors.New("object missing")
	svc, err := NewPhotoService(kvstore.NewMemoryStore(), &fakeMailer{}, &fakeFetcher{err: fetchErr})
	require.NoError(t, err)

	require.NoError(t, svc.InsertPhoto(ctx, completedPhoto("p1", "https://a.example.com/1.jpg")))

	_, err = svc.DownloadPhoto(ctx, "p1")
	assert.ErrorIs(t, err, fetchErr)
}

func TestPhotoService_DownloadUnknownPhoto(t *testing.T) {
	svc := newTestPhotoService(t, kvstore.NewMemoryStore())

	_, err := svc.DownloadPhoto(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}
