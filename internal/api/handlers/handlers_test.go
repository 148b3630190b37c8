package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ghibli-backend/domain"
	"ghibli-backend/entities"
	"ghibli-backend/internal/api/handlers"
	"ghibli-backend/internal/api/presenters"
	"ghibli-backend/internal/api/routes"
	"ghibli-backend/internal/middleware"
	"ghibli-backend/internal/utils"
	"ghibli-backend/pkg/coin"
	"ghibli-backend/pkg/iap"
	"ghibli-backend/pkg/jwt"
	"ghibli-backend/pkg/kvstore"
	"ghibli-backend/pkg/photo"
	"ghibli-backend/pkg/transform"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) GetProducts(_ context.Context) ([]domain.CoinPackage, error) {
	return domain.CoinPackages, nil
}
func (stubProvider) Purchase(_ context.Context, _ string) (bool, error) { return true, nil }
func (stubProvider) RestorePurchases(_ context.Context) error           { return nil }

type stubGateway struct{}

func (stubGateway) CreateInvoice(_ context.Context, _ string, _ int64, _ string) (string, error) {
	return "https://example.com/pay", nil
}
func (stubGateway) VerifySignature(_ iap.PaymentNotification) bool { return false }

type stubOrderRepo struct{}

func (stubOrderRepo) CreatePurchaseOrder(_ context.Context, _ *entities.PurchaseOrder) error {
	return nil
}
func (stubOrderRepo) GetPurchaseOrderByID(_ context.Context, _ string) (*entities.PurchaseOrder, error) {
	return nil, errors.New("not wired in tests")
}
func (stubOrderRepo) UpdatePurchaseOrderStatus(_ context.Context, _ string, _ string) error {
	return nil
}

type stubMailer struct{}

func (stubMailer) SendMail(_, _, _ string) error { return nil }

type stubFetcher struct{}

func (stubFetcher) FetchFile(_ context.Context, _ string) ([]byte, error) {
	return []byte("jpeg-bytes"), nil
}

type stubUploader struct{}

func (stubUploader) UploadFromURL(_ context.Context, _ string, _ string) (string, error) {
	return "https://bucket.s3.amazonaws.com/uploads/img.jpg", nil
}

type stubStylizer struct{}

func (stubStylizer) Stylize(_ context.Context, _ string) (string, error) {
	return "https://cdn.example.com/styled.jpg", nil
}

type testEnv struct {
	app   *fiber.App
	coins coin.CoinService
	token string
}

func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	utils.InitValidator()

	coinService, err := coin.NewCoinService(kvstore.NewMemoryStore(), stubProvider{}, stubGateway{}, stubOrderRepo{})
	require.NoError(t, err)
	photoService, err := photo.NewPhotoService(kvstore.NewMemoryStore(), stubMailer{}, stubFetcher{})
	require.NoError(t, err)
	transformService := transform.NewTransformService(coinService, photoService, stubUploader{}, stubStylizer{})
	jwtService := jwt.NewJWTService()

	app := fiber.New()
	routesConfig := routes.Config{
		App:              app,
		SessionHandler:   handlers.NewSessionHandler(jwtService, utils.Validate),
		PhotoHandler:     handlers.NewPhotoHandler(photoService, utils.Validate),
		TransformHandler: handlers.NewTransformHandler(transformService, utils.Validate),
		CoinHandler:      handlers.NewCoinHandler(coinService, utils.Validate),
		Middleware:       middleware.NewMiddleware(),
		JWTService:       jwtService,
	}
	routesConfig.Setup()

	return &testEnv{
		app:   app,
		coins: coinService,
		token: jwtService.GenerateTokenDevice("test-device"),
	}
}

func (e *testEnv) request(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) presenters.Response {
	t.Helper()
	var res presenters.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestPing(t *testing.T) {
	env := newTestApp(t)
	env.token = ""

	resp := env.request(t, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	env := newTestApp(t)
	env.token = ""

	resp := env.request(t, http.MethodGet, "/api/v1/coins", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	env := newTestApp(t)
	env.token = "not-a-jwt"

	resp := env.request(t, http.MethodGet, "/api/v1/coins", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	env := newTestApp(t)
	env.token = ""

	resp := env.request(t, http.MethodPost, "/api/v1/sessions", domain.CreateSessionRequest{DeviceID: "device-1"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	res := decodeResponse(t, resp)
	assert.True(t, res.Status)
	data := res.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
}

func TestGetBalanceAndPurchase(t *testing.T) {
	env := newTestApp(t)

	resp := env.request(t, http.MethodGet, "/api/v1/coins", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeResponse(t, resp)
	assert.Equal(t, float64(0), res.Data.(map[string]any)["coins"])

	resp = env.request(t, http.MethodPost, "/api/v1/coins/purchase", domain.PurchaseCoinRequest{PackageID: "coins_10"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res = decodeResponse(t, resp)
	data := res.Data.(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, float64(10), data["balance"])
}

func TestPurchaseUnknownPackage(t *testing.T) {
	env := newTestApp(t)

	resp := env.request(t, http.MethodPost, "/api/v1/coins/purchase", domain.PurchaseCoinRequest{PackageID: "coins_9999"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCoinPackages(t *testing.T) {
	env := newTestApp(t)

	resp := env.request(t, http.MethodGet, "/api/v1/coins/packages", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeResponse(t, resp)
	assert.Len(t, res.Data.([]any), 3)
}

func TestTransformFlow(t *testing.T) {
	env := newTestApp(t)
	require.NoError(t, env.coins.AddCoins(context.Background(), 5))

	resp := env.request(t, http.MethodPost, "/api/v1/transform", domain.TransformRequest{
		ImageURL: "https://device.example.com/photo.jpg",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	res := decodeResponse(t, resp)
	photoID := res.Data.(map[string]any)["photo_id"].(string)
	assert.NotEmpty(t, photoID)

	resp = env.request(t, http.MethodGet, "/api/v1/photos", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res = decodeResponse(t, resp)
	assert.Len(t, res.Data.([]any), 1)

	resp = env.request(t, http.MethodGet, "/api/v1/photos/"+photoID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res = decodeResponse(t, resp)
	record := res.Data.(map[string]any)
	assert.Equal(t, string(domain.PhotoStatusCompleted), record["status"])
	assert.Equal(t, "https://cdn.example.com/styled.jpg", record["transformedUrl"])
}

func TestTransformWithoutCoins(t *testing.T) {
	env := newTestApp(t)

	resp := env.request(t, http.MethodPost, "/api/v1/transform", domain.TransformRequest{
		ImageURL: "https://device.example.com/photo.jpg",
	})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
}

func TestTransformRejectsInvalidBody(t *testing.T) {
	env := newTestApp(t)
	require.NoError(t, env.coins.AddCoins(context.Background(), 5))

	resp := env.request(t, http.MethodPost, "/api/v1/transform", domain.TransformRequest{
		ImageURL: "not-a-url",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDuplicateTransformReturns200(t *testing.T) {
	env := newTestApp(t)
	require.NoError(t, env.coins.AddCoins(context.Background(), 5))

	req := domain.TransformRequest{ImageURL: "https://device.example.com/photo.jpg"}
	resp := env.request(t, http.MethodPost, "/api/v1/transform", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/v1/transform", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeResponse(t, resp)
	assert.Equal(t, true, res.Data.(map[string]any)["duplicate"])
}

func TestDownloadPhoto(t *testing.T) {
	env := newTestApp(t)
	require.NoError(t, env.coins.AddCoins(context.Background(), 5))

	resp := env.request(t, http.MethodPost, "/api/v1/transform", domain.TransformRequest{
		ImageURL: "https://device.example.com/photo.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	res := decodeResponse(t, resp)
	photoID := res.Data.(map[string]any)["photo_id"].(string)

	resp = env.request(t, http.MethodGet, "/api/v1/photos/"+photoID+"/download", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ghibli_"+photoID+".jpg")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), body)
}

func TestGetUnknownPhoto(t *testing.T) {
	env := newTestApp(t)

	resp := env.request(t, http.MethodGet, "/api/v1/photos/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteAllPhotos(t *testing.T) {
	env := newTestApp(t)
	require.NoError(t, env.coins.AddCoins(context.Background(), 5))

	resp := env.request(t, http.MethodPost, "/api/v1/transform", domain.TransformRequest{
		ImageURL: "https://device.example.com/photo.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/v1/photos", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/photos", nil)
	res := decodeResponse(t, resp)
	assert.Nil(t, res.Data)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	env := newTestApp(t)
	env.token = ""

	resp := env.request(t, http.MethodPost, "/webhook/midtrans", iap.PaymentNotification{
		OrderID:      "order-1",
		SignatureKey: "bogus",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
