package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

func recordGin(t *testing.T, write func(c *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)
	return w
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Wrap(apperrors.ErrNotFound, "failed to get secret"), http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: admin exists", apperrors.ErrConflict), http.StatusConflict, "conflict"},
		{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{apperrors.Wrap(apperrors.ErrTimeout, "record store"), http.StatusGatewayTimeout, "timeout"},
		{errors.New("pq: password authentication failed"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := StatusFor(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error)
			assert.NotContains(t, body.Message, "pq:")
		})
	}
}

func TestStatusFor_InvalidInputEchoesCause(t *testing.T) {
	_, body := StatusFor(apperrors.Wrap(apperrors.ErrInvalidInput, "principal: must be a valid email address"))

	assert.Contains(t, body.Message, "must be a valid email address")
}

func TestHandleErrorGin(t *testing.T) {
	t.Run("WritesMappedBody", func(t *testing.T) {
		w := recordGin(t, func(c *gin.Context) {
			HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, "bob@example.com"), nil)
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "forbidden", body.Error)
		assert.NotContains(t, w.Body.String(), "bob@example.com")
	})

	t.Run("NilWritesNothing", func(t *testing.T) {
		w := recordGin(t, func(c *gin.Context) { HandleErrorGin(c, nil, nil) })

		assert.Zero(t, w.Body.Len())
	})
}

func TestClientErrors(t *testing.T) {
	bad := recordGin(t, func(c *gin.Context) {
		HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)
	})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"unexpected EOF"}`, bad.Body.String())

	invalid := recordGin(t, func(c *gin.Context) {
		HandleValidationErrorGin(c, errors.New("name: must not be blank."), nil)
	})
	assert.Equal(t, http.StatusUnprocessableEntity, invalid.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"name: must not be blank."}`, invalid.Body.String())
}
