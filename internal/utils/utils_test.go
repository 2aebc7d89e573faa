package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trambui/portfolio-contact/internal/api/dto/common"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIErrorHidesDetail(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(&logs)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/send-email", nil)

	HandleAPIError(c, logger, contact.Wrap(contact.ErrDispatch, errors.New("535 auth failed for sender@example.com")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, c.IsAborted())

	var body common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.StatusError, body.Status)
	assert.Equal(t, contact.MsgDispatch, body.Message)
	assert.NotContains(t, w.Body.String(), "535")

	assert.Contains(t, logs.String(), "535 auth failed")
}

func TestHandleAPIErrorUnknown(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/send-email", nil)

	HandleAPIError(c, nil, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"A system error occurred."}`, w.Body.String())
}

func TestHandleSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleSuccess(c, contact.MsgSuccess)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Message sent successfully!"}`, w.Body.String())
}
