package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
)

func TestOfferService_Create(t *testing.T) {
	env := setupServiceTest(t)
	alice := env.user(t, "alice", model.RoleStore)
	bob := env.user(t, "bob", model.RoleStore)
	admin := env.user(t, "admin", model.RoleAdmin)
	store := env.store(t, alice, "Alice Shop")
	validUntil := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name      string
		principal *model.User
		input     OfferInput
		wantErr   error
	}{
		{
			name:      "Owner",
			principal: alice,
			input:     OfferInput{Title: "Sale", DiscountPercentage: 20, ValidUntil: validUntil, StoreID: store.ID},
		},
		{
			name:      "Admin on any store",
			principal: admin,
			input:     OfferInput{Title: "Admin sale", DiscountPercentage: 5, ValidUntil: validUntil, StoreID: store.ID},
		},
		{
			name:      "Foreign store",
			principal: bob,
			input:     OfferInput{Title: "Nope", DiscountPercentage: 5, ValidUntil: validUntil, StoreID: store.ID},
			wantErr:   authz.ErrForbidden,
		},
		{
			name:      "Missing store before permission",
			principal: bob,
			input:     OfferInput{Title: "Nope", DiscountPercentage: 5, ValidUntil: validUntil, StoreID: "missing"},
			wantErr:   ErrStoreNotFound,
		},
		{
			name:      "Discount out of range",
			principal: alice,
			input:     OfferInput{Title: "Too much", DiscountPercentage: 101, ValidUntil: validUntil, StoreID: store.ID},
			wantErr:   ErrInvalidDiscount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer, err := env.offerSvc.Create(tt.principal, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, offer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, store.ID, offer.StoreID)
			assert.True(t, offer.IsActive)
		})
	}
}

func TestOfferService_GetUpdateDelete(t *testing.T) {
	env := setupServiceTest(t)
	alice := env.user(t, "alice", model.RoleStore)
	bob := env.user(t, "bob", model.RoleStore)
	store := env.store(t, alice, "Alice Shop")

	offer, err := env.offerSvc.Create(alice, OfferInput{
		Title:              "Sale",
		DiscountPercentage: 20,
		ValidUntil:         time.Now().Add(time.Hour),
		StoreID:            store.ID,
	})
	require.NoError(t, err)

	got, err := env.offerSvc.Get(alice, offer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StoreName)
	assert.Equal(t, "Alice Shop", *got.StoreName)

	_, err = env.offerSvc.Get(bob, offer.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden)
	_, err = env.offerSvc.Get(bob, "missing")
	assert.ErrorIs(t, err, ErrOfferNotFound)

	pct := 50
	updated, err := env.offerSvc.Update(alice, offer.ID, OfferMutation{
		Title:              strPtr("Bigger sale"),
		DiscountPercentage: &pct,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bigger sale", updated.Title)
	assert.Equal(t, 50, updated.DiscountPercentage)

	neg := -1
	_, err = env.offerSvc.Update(alice, offer.ID, OfferMutation{DiscountPercentage: &neg})
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	assert.ErrorIs(t, env.offerSvc.Delete(bob, offer.ID), authz.ErrForbidden)
	require.NoError(t, env.offerSvc.Delete(alice, offer.ID))
	assert.ErrorIs(t, env.offerSvc.Delete(alice, offer.ID), ErrOfferNotFound)
}

func TestOfferService_ListScoping(t *testing.T) {
	env := setupServiceTest(t)
	alice := env.user(t, "alice", model.RoleStore)
	bob := env.user(t, "bob", model.RoleStore)
	admin := env.user(t, "admin", model.RoleAdmin)
	aliceStore := env.store(t, alice, "Alice Shop")
	bobStore := env.store(t, bob, "Bob Shop")
	future := time.Now().Add(time.Hour)

	_, err := env.offerSvc.Create(alice, OfferInput{Title: "A", ValidUntil: future, StoreID: aliceStore.ID})
	require.NoError(t, err)
	_, err = env.offerSvc.Create(bob, OfferInput{Title: "B", ValidUntil: future, StoreID: bobStore.ID})
	require.NoError(t, err)

	offers, total, err := env.offerSvc.List(alice, OfferListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, offers, 1)
	assert.Equal(t, "A", offers[0].Title)

	// a store filter cannot widen the owner scope
	_, total, err = env.offerSvc.List(alice, OfferListOptions{StoreID: bobStore.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, total, err = env.offerSvc.List(admin, OfferListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestOfferService_DeactivateExpired(t *testing.T) {
	env := setupServiceTest(t)
	alice := env.user(t, "alice", model.RoleStore)
	store := env.store(t, alice, "Alice Shop")
	now := time.Now()

	expired, err := env.offerSvc.Create(alice, OfferInput{Title: "Old", ValidUntil: now.Add(-time.Hour), StoreID: store.ID})
	require.NoError(t, err)
	current, err := env.offerSvc.Create(alice, OfferInput{Title: "New", ValidUntil: now.Add(time.Hour), StoreID: store.ID})
	require.NoError(t, err)

	n, err := env.offerSvc.DeactivateExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := env.offerSvc.Get(alice, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	got, err = env.offerSvc.Get(alice, current.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	n, err = env.offerSvc.DeactivateExpired(now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
