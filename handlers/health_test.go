package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"roame/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_DegradedWithoutMongo(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	utils.CheckHealth(context.Background(), []*redis.Client{client}, nil)

	r := gin.New()
	r.GET("/health", HealthHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
