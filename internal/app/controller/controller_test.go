package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/internal/db"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
	"github.com/zhwaweb/zhwaweb-admin/internal/storage"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
	"gorm.io/gorm"
)

const (
	testAdminUsername = "root"
	testAdminPassword = "root-password"
)

type testServer struct {
	router      *gin.Engine
	db          *gorm.DB
	authService service.AuthService
	uploadDir   string
}

func setupControllerTest(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	tokens, err := util.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	offerRepo := repository.NewOfferRepository(testDB)
	subRepo := repository.NewSubscriptionRepository(testDB)
	engine, err := authz.NewEngine()
	require.NoError(t, err)

	uploadDir := t.TempDir()
	local, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, tokens, nil, service.AdminBootstrap{
		Username:        testAdminUsername,
		Password:        testAdminPassword,
		AllowPhoneLogin: true,
	})
	identity := service.NewIdentityService(userRepo, tokens, nil)

	presenter := NewPresenter(true)
	authCtrl := NewAuthController(authService, presenter)
	storeCtrl := NewStoreController(service.NewStoreService(storeRepo, engine), presenter)
	offerCtrl := NewOfferController(service.NewOfferService(offerRepo, storeRepo, engine), presenter)
	subCtrl := NewSubscriptionController(service.NewSubscriptionService(subRepo, engine), presenter)
	dashCtrl := NewDashboardController(service.NewDashboardService(storeRepo, offerRepo, engine), presenter)
	uploadCtrl := NewUploadController(service.NewUploadService(local, 1024, []string{"jpg", "png"}))

	authed := middleware.NewAuthMiddleware(identity).Authenticate()

	router := gin.New()
	router.Use(middleware.CredentialRewriteMiddleware())

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/login-phone", authCtrl.LoginPhone)
	router.POST("/auth/logout", authed, authCtrl.Logout)
	router.GET("/auth/me", authed, authCtrl.GetMe)

	router.GET("/stores", authed, storeCtrl.ListStores)
	router.POST("/stores", authed, storeCtrl.CreateStore)
	router.GET("/stores/:id", authed, storeCtrl.GetStore)
	router.PUT("/stores/:id", authed, storeCtrl.UpdateStore)
	router.DELETE("/stores/:id", authed, storeCtrl.DeleteStore)

	router.GET("/offers", authed, offerCtrl.ListOffers)
	router.POST("/offers", authed, offerCtrl.CreateOffer)
	router.GET("/offers/:id", authed, offerCtrl.GetOffer)
	router.PUT("/offers/:id", authed, offerCtrl.UpdateOffer)
	router.DELETE("/offers/:id", authed, offerCtrl.DeleteOffer)

	router.POST("/subscriptions", subCtrl.CreateSubscription)
	router.GET("/subscriptions/check/:email", subCtrl.CheckByEmail)
	router.PUT("/subscriptions/update-by-email/:email", subCtrl.UpdateByEmail)
	router.GET("/subscriptions", authed, subCtrl.ListSubscriptions)
	router.GET("/subscriptions/:id", authed, subCtrl.GetSubscription)
	router.PUT("/subscriptions/:id", authed, subCtrl.UpdateSubscription)
	router.DELETE("/subscriptions/:id", authed, subCtrl.DeleteSubscription)
	router.PUT("/subscriptions/:id/approve", authed, subCtrl.ApproveSubscription)
	router.PUT("/subscriptions/:id/reject", authed, subCtrl.RejectSubscription)

	router.GET("/dashboard/stats", authed, dashCtrl.GetStats)
	router.GET("/dashboard/export", authed, dashCtrl.ExportStores)

	router.POST("/upload/image", authed, uploadCtrl.UploadImage)

	return &testServer{
		router:      router,
		db:          testDB,
		authService: authService,
		uploadDir:   uploadDir,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login registers username with role and returns a bearer token.
func (s *testServer) login(t *testing.T, username string, role model.UserRole) string {
	t.Helper()

	_, err := s.authService.Register(username, "password123", role)
	require.NoError(t, err)
	result, err := s.authService.Login(username, "password123")
	require.NoError(t, err)
	return result.AccessToken
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()

	_, err := s.authService.SeedAdmin()
	require.NoError(t, err)
	result, err := s.authService.Login(testAdminUsername, testAdminPassword)
	require.NoError(t, err)
	return result.AccessToken
}

func storePayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":     name,
		"sector":   "Retail",
		"city":     "Berlin",
		"location": "Mitte",
		"image":    "shop.png",
		"address":  "Main St 1",
		"phone":    "+49 30 1234",
		"email":    name + "@example.com",
		"products": []string{"gold", "silver"},
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}
