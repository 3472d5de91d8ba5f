package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Symbols string `query:"symbols" validate:"required"`
	Days    int    `query:"days" default:"30" validate:"gte=1,lte=90"`
}

func bindQuery(t *testing.T, query string) (sampleRequest, []ValidationError) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	var r sampleRequest
	return r, ReadAndValidateRequest(c, &r)
}

func TestReadAndValidateRequest_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?symbols=AAPL", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	var r sampleRequest
	require.Nil(t, ReadAndValidateRequest(c, &r))
	assert.Equal(t, 30, r.Days)
	assert.Equal(t, "AAPL", r.Symbols)
}

func TestReadAndValidateRequest_Errors(t *testing.T) {
	_, errs := bindQuery(t, "days=500")
	require.Len(t, errs, 2)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "symbols", errs[0].Field)
	assert.Equal(t, "ERR_LTE", errs[1].Code)
	assert.Equal(t, "days must be less than or equal to 90", errs[1].Message)
}

func TestReadAndValidateRequest_BadBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	var r struct {
		Name string `json:"name"`
	}
	errs := ReadAndValidateRequest(c, &r)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
}

func TestErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, ErrorResponse(c, TooManyRequestsError("slow down")))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, ErrorResponse(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
