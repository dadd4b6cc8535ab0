package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
)

func createStore(t *testing.T, srv *testServer, token, name string) map[string]interface{} {
	t.Helper()

	w := srv.do(t, http.MethodPost, "/stores", token, storePayload(name))
	requireStatus(t, w, http.StatusOK)
	return decodeBody(t, w)
}

func TestStoreController_Create(t *testing.T) {
	srv := setupControllerTest(t)
	token := srv.login(t, "alice", model.RoleStore)

	store := createStore(t, srv, token, "Alice Gold")
	assert.NotEmpty(t, store["id"])
	assert.Equal(t, "Alice Gold", store["name"])
	assert.Equal(t, "/static/shop.png", store["image"])
	assert.Equal(t, []interface{}{"gold", "silver"}, store["products"])
	assert.Equal(t, true, store["is_active"])

	t.Run("second store rejected", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/stores", token, storePayload("Alice Silver"))
		requireStatus(t, w, http.StatusBadRequest)
		body := decodeError(t, w)
		assert.Equal(t, apperrors.BusinessOneStorePerUser, body.Error)
		assert.Equal(t, "Store owners can only have one store", body.Message)
	})

	t.Run("missing required field", func(t *testing.T) {
		payload := storePayload("Nameless")
		delete(payload, "city")
		w := srv.do(t, http.MethodPost, "/stores", token, payload)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, apperrors.ValidationInvalidInput, decodeError(t, w).Error)
	})

	t.Run("delimiter in product tag", func(t *testing.T) {
		admin := srv.adminToken(t)
		payload := storePayload("Tagged")
		payload["products"] = []string{"gold,silver"}
		w := srv.do(t, http.MethodPost, "/stores", admin, payload)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, apperrors.BusinessInvalidProductTag, decodeError(t, w).Error)
	})

	t.Run("empty product tag", func(t *testing.T) {
		admin := srv.adminToken(t)
		payload := storePayload("Blank")
		payload["products"] = []string{""}
		w := srv.do(t, http.MethodPost, "/stores", admin, payload)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, apperrors.BusinessInvalidProductTag, decodeError(t, w).Error)
	})
}

func TestStoreController_GetAndScope(t *testing.T) {
	srv := setupControllerTest(t)
	alice := srv.login(t, "alice", model.RoleStore)
	bob := srv.login(t, "bob", model.RoleStore)
	admin := srv.adminToken(t)

	store := createStore(t, srv, alice, "Alice Gold")
	id := store["id"].(string)

	requireStatus(t, srv.do(t, http.MethodGet, "/stores/"+id, alice, nil), http.StatusOK)
	requireStatus(t, srv.do(t, http.MethodGet, "/stores/"+id, admin, nil), http.StatusOK)

	w := srv.do(t, http.MethodGet, "/stores/"+id, bob, nil)
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, apperrors.MsgNotEnoughPermission, decodeError(t, w).Message)

	w = srv.do(t, http.MethodGet, "/stores/missing", bob, nil)
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, apperrors.StoreNotFound, decodeError(t, w).Error)
}

func TestStoreController_List(t *testing.T) {
	srv := setupControllerTest(t)
	alice := srv.login(t, "alice", model.RoleStore)
	bob := srv.login(t, "bob", model.RoleStore)
	admin := srv.adminToken(t)

	createStore(t, srv, alice, "Alice Gold")
	createStore(t, srv, bob, "Bob Bakery")

	w := srv.do(t, http.MethodGet, "/stores", alice, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 10, body["limit"])
	stores := body["stores"].([]interface{})
	require.Len(t, stores, 1)
	assert.Equal(t, "Alice Gold", stores[0].(map[string]interface{})["name"])

	w = srv.do(t, http.MethodGet, "/stores?search=bakery", admin, nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	assert.EqualValues(t, 1, body["total"])

	w = srv.do(t, http.MethodGet, "/stores?limit=1", admin, nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	assert.EqualValues(t, 2, body["total"])
	assert.Len(t, body["stores"], 1)

	requireStatus(t, srv.do(t, http.MethodGet, "/stores?page=0", admin, nil), http.StatusBadRequest)
	requireStatus(t, srv.do(t, http.MethodGet, "/stores?limit=101", admin, nil), http.StatusBadRequest)
}

func TestStoreController_UpdateAndDelete(t *testing.T) {
	srv := setupControllerTest(t)
	alice := srv.login(t, "alice", model.RoleStore)
	bob := srv.login(t, "bob", model.RoleStore)

	id := createStore(t, srv, alice, "Alice Gold")["id"].(string)

	w := srv.do(t, http.MethodPut, "/stores/"+id, alice, map[string]interface{}{
		"name":     "Alice Jewels",
		"products": []string{"rings"},
	})
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, "Alice Jewels", body["name"])
	assert.Equal(t, "Berlin", body["city"])
	assert.Equal(t, []interface{}{"rings"}, body["products"])

	requireStatus(t, srv.do(t, http.MethodPut, "/stores/"+id, bob, map[string]interface{}{"name": "Stolen"}), http.StatusForbidden)
	requireStatus(t, srv.do(t, http.MethodDelete, "/stores/"+id, bob, nil), http.StatusForbidden)

	w = srv.do(t, http.MethodDelete, "/stores/"+id, alice, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Store deleted successfully", decodeBody(t, w)["message"])

	requireStatus(t, srv.do(t, http.MethodGet, "/stores/"+id, alice, nil), http.StatusNotFound)
}

func TestStoreController_MalformedBody(t *testing.T) {
	srv := setupControllerTest(t)
	token := srv.login(t, "alice", model.RoleStore)

	w := srv.do(t, http.MethodPost, "/stores", token, "not an object")
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, apperrors.ValidationInvalidFormat, decodeError(t, w).Error)
}
