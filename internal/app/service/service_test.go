package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/internal/db"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	stores    repository.StoreRepository
	offers    repository.OfferRepository
	subs      repository.SubscriptionRepository
	engine    *authz.Engine
	tokens    *util.TokenService
	storeSvc  StoreService
	offerSvc  OfferService
	subSvc    SubscriptionService
	dashboard DashboardService
}

func setupServiceTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	tokens, err := util.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	engine, err := authz.NewEngine()
	require.NoError(t, err)

	env := &testEnv{
		db:     testDB,
		users:  repository.NewUserRepository(testDB),
		stores: repository.NewStoreRepository(testDB),
		offers: repository.NewOfferRepository(testDB),
		subs:   repository.NewSubscriptionRepository(testDB),
		engine: engine,
		tokens: tokens,
	}
	env.storeSvc = NewStoreService(env.stores, env.engine)
	env.offerSvc = NewOfferService(env.offers, env.stores, env.engine)
	env.subSvc = NewSubscriptionService(env.subs, env.engine)
	env.dashboard = NewDashboardService(env.stores, env.offers, env.engine)
	return env
}

func (e *testEnv) user(t *testing.T, username string, role model.UserRole) *model.User {
	user := &model.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Type:         role,
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) store(t *testing.T, owner *model.User, name string) *model.Store {
	store := &model.Store{
		StoreProfile: model.StoreProfile{
			Name:     name,
			City:     "Berlin",
			Sector:   "Retail",
			Products: model.ProductList{"gold"},
		},
		OwnerID:  owner.ID,
		IsActive: true,
	}
	require.NoError(t, e.stores.Create(store))
	return store
}

func strPtr(s string) *string { return &s }

// memoryRevoker is an in-process TokenRevoker.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: make(map[string]time.Duration)}
}

func (r *memoryRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if jti == "" {
		return errors.New("empty jti")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = ttl
	return nil
}

func (r *memoryRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[jti]
	return ok, nil
}
