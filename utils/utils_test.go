package utils_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestJSONError(t *testing.T) {
	r := gin.New()
	r.GET("/bad", func(c *gin.Context) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "name is required")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid input","details":"name is required"}`, w.Body.String())
}

func TestNewLogger(t *testing.T) {
	l, err := utils.NewLogger(false, "debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = utils.NewLogger(true, "shouting")
	assert.Error(t, err)
}

func TestHealthMonitor_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := utils.NewHealthMonitor(nil, client)
	status := m.Check(context.Background())
	assert.True(t, status.Redis)
	assert.False(t, status.Mongo)
	assert.False(t, status.Healthy())
	assert.Equal(t, status, m.Status())

	mr.Close()
	assert.False(t, m.Check(context.Background()).Redis)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := utils.NewRedisClient(context.Background(), utils.RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, mr.Addr(), utils.RedisOptions{Addr: mr.Addr()}.AsynqOpt().Addr)
}
