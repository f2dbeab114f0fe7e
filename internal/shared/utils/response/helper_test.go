package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busly/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
		wantErrors  bool
	}{
		{"validation", apperror.Validation("all fields are required"), http.StatusBadRequest, "all fields are required", false},
		{"conflict", fmt.Errorf("wrapped: %w", apperror.Conflict("One or more selected seats are already booked")), http.StatusBadRequest, "One or more selected seats are already booked", false},
		{"forbidden", apperror.Forbidden("Not authorized"), http.StatusForbidden, "Not authorized", false},
		{"not found", apperror.NotFound("Booking not found"), http.StatusNotFound, "Booking not found", false},
		{"unclassified", errors.New("pq: deadlock detected"), http.StatusInternalServerError, "Server Error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err, "Server Error")

			assert.Equal(t, tt.wantCode, w.Code)
			var body StandardApiResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.StatusCode)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantErrors, body.Errors != nil)
			assert.NotContains(t, w.Body.String(), "deadlock")
		})
	}
}

func TestRespondSuccessSetsFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondSuccess(c, http.StatusCreated, "Booking created", gin.H{"id": "b-1"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "success", body["status"])
}

type seatPayload struct {
	SeatNumber string  `json:"seatNumber" binding:"required"`
	Price      float64 `json:"price" binding:"gt=0"`
}

func bindAndRespond(t *testing.T, raw string) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")

	var p seatPayload
	err := c.ShouldBindJSON(&p)
	require.Error(t, err)
	RespondBindError(c, "Invalid request body", err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondBindErrorListsFieldsOnly(t *testing.T) {
	code, body := bindAndRespond(t, `{"price": -1}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid request body", body["message"])
	assert.ElementsMatch(t, []interface{}{
		map[string]interface{}{"field": "SeatNumber", "rule": "required"},
		map[string]interface{}{"field": "Price", "rule": "gt"},
	}, body["errors"])
	assert.NotContains(t, fmt.Sprint(body), "Key:")
}

func TestRespondBindErrorHidesDecoderText(t *testing.T) {
	code, body := bindAndRespond(t, `{"seatNumber": 12`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", body["message"])
	assert.NotContains(t, body, "errors")
}
