package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductList_Value(t *testing.T) {
	tests := []struct {
		name    string
		list    ProductList
		want    string
		wantErr error
	}{
		{name: "nil", list: nil, want: ""},
		{name: "empty", list: ProductList{}, want: ""},
		{name: "single", list: ProductList{"bread"}, want: "bread"},
		{name: "ordered", list: ProductList{"bread", "cake", "tea"}, want: "bread,cake,tea"},
		{name: "delimiter in tag", list: ProductList{"bread", "cake,tea"}, wantErr: ErrInvalidProductTag},
		{name: "single empty tag", list: ProductList{""}, wantErr: ErrEmptyProductTag},
		{name: "blank tag among others", list: ProductList{"bread", "  "}, wantErr: ErrEmptyProductTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.list.Value()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestProductList_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  ProductList
	}{
		{name: "nil", input: nil, want: ProductList{}},
		{name: "empty string", input: "", want: ProductList{}},
		{name: "string", input: "bread,cake", want: ProductList{"bread", "cake"}},
		{name: "bytes", input: []byte("tea"), want: ProductList{"tea"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProductList
			require.NoError(t, p.Scan(tt.input))
			assert.Equal(t, tt.want, p)
		})
	}

	var p ProductList
	assert.Error(t, p.Scan(42))
}

func TestProductList_RoundTripPreservesOrder(t *testing.T) {
	in := ProductList{"zucchini", "apple", "fig", "mango"}
	v, err := in.Value()
	require.NoError(t, err)

	var out ProductList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestProductList_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Products ProductList `json:"products"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[]}`, string(b))

	b, err = json.Marshal(ProductList{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u-1", Username: "alice", PasswordHash: "$2a$secret", Type: RoleStore, IsActive: true})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"type":"store"`)
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStore.Valid())
	assert.False(t, UserRole("user").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestBeforeCreate_AssignsIDs(t *testing.T) {
	u := &User{}
	require.NoError(t, u.BeforeCreate(nil))
	assert.Len(t, u.ID, 36)

	s := &Store{ID: "fixed"}
	require.NoError(t, s.BeforeCreate(nil))
	assert.Equal(t, "fixed", s.ID)

	bad := &Store{StoreProfile: StoreProfile{Products: ProductList{"a,b"}}}
	assert.ErrorIs(t, bad.BeforeCreate(nil), ErrInvalidProductTag)

	sub := &Subscription{}
	require.NoError(t, sub.BeforeCreate(nil))
	assert.Equal(t, SubscriptionPending, sub.Status)
	assert.NotEmpty(t, sub.ID)
}

func TestSubscription_OwnedBy(t *testing.T) {
	owner := "u-1"
	assert.True(t, (&Subscription{UserID: &owner}).OwnedBy("u-1"))
	assert.False(t, (&Subscription{UserID: &owner}).OwnedBy("u-2"))
	assert.False(t, (&Subscription{}).OwnedBy("u-1"))
}

func TestOffer_ExpiredAt(t *testing.T) {
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	o := &Offer{ValidUntil: until}
	assert.False(t, o.ExpiredAt(until.Add(-time.Second)))
	assert.True(t, o.ExpiredAt(until))
}
