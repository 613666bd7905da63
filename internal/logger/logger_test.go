package logger

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL_ConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*logrus.Logger, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = L()
		}(i)
	}
	wg.Wait()

	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}

func TestInit_ReconfiguresDefaultLogger(t *testing.T) {
	before := L()
	t.Cleanup(func() { Init("info", "text") })

	Init("debug", "json")

	assert.Same(t, before, L(), "Init keeps the logger handed out earlier")
	assert.Equal(t, logrus.DebugLevel, L().GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L().Formatter)

	Init("nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, L().GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, L().Formatter)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	var fromGin logrus.FieldLogger
	r.GET("/ping", func(c *gin.Context) {
		fromGin = FromGin(c)
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(rr, req)

	assert.Equal(t, "req-1", rr.Header().Get("X-Request-ID"))
	entry, ok := fromGin.(*logrus.Entry)
	require.True(t, ok)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "/ping", entry.Data["path"])
}

func TestFromGin_FallsBackToGlobal(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, L(), FromGin(c))
}
