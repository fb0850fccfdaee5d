package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/common/errors"
)

func newErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(ErrorHandler())
	r.GET("/denied", Wrap(func(c *gin.Context) {
		_ = c.Error(errors.New(errors.ErrCodeSilenceDay, "silence day"))
	}))
	r.GET("/plain", Wrap(func(c *gin.Context) {
		_ = c.Error(stderrors.New("boom"))
	}))
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})
	return r
}

func TestHandleErrorWrapperLocalizes(t *testing.T) {
	r := newErrorRouter()

	req := httptest.NewRequest(http.MethodGet, "/denied", nil)
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, errors.ErrCodeSilenceDay, body.Error.Code)
	assert.Equal(t, "The selected date falls on a hunting silence day.", body.Message)
}

func TestHandleErrorWrapperWrapsPlainErrors(t *testing.T) {
	r := newErrorRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeInternal, body.Error.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	r := newErrorRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[errors.ErrorCode]int{
		errors.ErrCodeZoneSlotTaken:          http.StatusConflict,
		errors.ErrCodeQuotaRowNotFound:       http.StatusNotFound,
		errors.ErrCodeInvalidRuleShape:       http.StatusBadRequest,
		errors.ErrCodeRegistrationClosed:     http.StatusUnprocessableEntity,
		errors.ErrCodeDuplicateParticipation: http.StatusConflict,
		errors.ErrCodeDatabaseError:          http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, HTTPStatus(errors.New(code, "x")), string(code))
	}
}
