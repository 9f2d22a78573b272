package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondNotFound(rec, "не найдено")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: http.StatusNotFound, Message: "не найдено"}, body)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Barber"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Barber", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Barber","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &dst))
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?serviceId=7&page=x&q=hair", nil)

	id, err := QueryInt64(req, "serviceId")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)

	missing, err := QueryInt64(req, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt(req, "page", 1)
	assert.Error(t, err)

	size, err := QueryInt(req, "pageSize", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, size)

	require.NotNil(t, QueryString(req, "q"))
	assert.Nil(t, QueryString(req, "status"))
}

func TestPathInt64(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"businessId": "12"})

	id, err := PathInt64(req, "businessId")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = PathInt64(req, "serviceId")
	assert.Error(t, err)
}
