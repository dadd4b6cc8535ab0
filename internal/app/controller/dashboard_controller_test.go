package controller

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
)

func TestDashboardController_Stats(t *testing.T) {
	srv := setupControllerTest(t)
	alice := srv.login(t, "alice", model.RoleStore)
	bob := srv.login(t, "bob", model.RoleStore)
	admin := srv.adminToken(t)

	aliceStore := createStore(t, srv, alice, "Alice Gold")["id"].(string)
	createStore(t, srv, bob, "Bob Bakery")
	requireStatus(t, srv.do(t, http.MethodPost, "/offers", alice,
		offerPayload(aliceStore, "Half off", 50, time.Now().Add(time.Hour))), http.StatusOK)

	w := srv.do(t, http.MethodGet, "/dashboard/stats", admin, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["total_stores"])
	assert.EqualValues(t, 2, body["active_stores"])
	assert.EqualValues(t, 1, body["total_offers"])
	assert.EqualValues(t, 1, body["active_offers"])
	assert.Len(t, body["recent_stores"], 2)
	assert.Len(t, body["recent_offers"], 1)

	w = srv.do(t, http.MethodGet, "/dashboard/stats", bob, nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	assert.EqualValues(t, 1, body["total_stores"])
	assert.EqualValues(t, 0, body["total_offers"])
	assert.Equal(t, []interface{}{}, body["recent_offers"])

	recent := body["recent_stores"].([]interface{})
	require.Len(t, recent, 1)
	assert.Equal(t, "/static/shop.png", recent[0].(map[string]interface{})["image"])
}

func TestDashboardController_Export(t *testing.T) {
	srv := setupControllerTest(t)
	alice := srv.login(t, "alice", model.RoleStore)
	createStore(t, srv, alice, "Alice Gold")

	w := srv.do(t, http.MethodGet, "/dashboard/export", alice, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"stores-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stores")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Alice Gold", rows[1][1])
}
