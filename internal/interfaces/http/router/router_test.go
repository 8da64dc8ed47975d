package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// registrarFunc adapts a plain function to RouteRegistrar, the way handlers
// implement RegisterRoutes.
type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterSetupMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	}))
	r.Setup()

	w := serve(engine, "GET", "/api/v1/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	// Unversioned path is not mounted
	w = serve(engine, "GET", "/ping")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/quotes", func(c *gin.Context) {
			c.String(http.StatusOK, "quotes")
		})
	})).Setup()

	w := serve(engine, "GET", "/api/v2/quotes")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, "GET", "/api/v1/quotes")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterRegisterMultiple(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	pricing := registrarFunc(func(rg *gin.RouterGroup) {
		rg.POST("/pricing/quote", func(c *gin.Context) {
			c.String(http.StatusOK, "quote")
		})
	})
	rateCards := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/rate-cards", func(c *gin.Context) {
			c.String(http.StatusOK, "versions")
		})
	})

	// Chained and variadic registration both accumulate
	r.Register(pricing).Register(rateCards)
	assert.Len(t, r.registrars, 2)
	r.Setup()

	w := serve(engine, "POST", "/api/v1/pricing/quote")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quote", w.Body.String())

	w = serve(engine, "GET", "/api/v1/rate-cards")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "versions", w.Body.String())
}

func TestRouterRegisterVariadic(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	a := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") })
	})
	b := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") })
	})

	r.Register(a, b).Setup()

	for _, path := range []string{"/api/v1/a", "/api/v1/b"} {
		w := serve(engine, "GET", path)
		assert.Equal(t, http.StatusOK, w.Code, "route %s", path)
	}
}
