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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	units := NewDomainGroup("units", "/units")
	units.GET("", func(c *gin.Context) { c.String(http.StatusOK, "units") })
	stock := NewDomainGroup("stock", "/stock")
	stock.GET("", func(c *gin.Context) { c.String(http.StatusOK, "stock") })

	NewRouter(engine).Register(units).Register(stock).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/units")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "units", w.Body.String())
	assert.Equal(t, "stock", serve(engine, http.MethodGet, "/api/v1/stock").Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("dashboard", "")
	g.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.Header("X-Branch", "shop-a")
			c.Next()
		}).
		Register(g).
		Setup()

	w := serve(engine, http.MethodGet, "/api/v1/dashboard")
	assert.Equal(t, "shop-a", w.Header().Get("X-Branch"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("transfers", "/transfers")
		assert.Equal(t, "transfers", g.Name())
		assert.Equal(t, "/transfers", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("units", "/units")
		g.GET("/:id", ok).POST("", ok).PUT("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		cases := []struct{ method, path string }{
			{http.MethodGet, "/api/v1/units/1"},
			{http.MethodPost, "/api/v1/units"},
			{http.MethodPut, "/api/v1/units/1"},
			{http.MethodDelete, "/api/v1/units/1"},
		}
		for _, tc := range cases {
			assert.Equal(t, http.StatusOK, serve(engine, tc.method, tc.path).Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("group middleware stays inside the group", func(t *testing.T) {
		engine := gin.New()
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }

		public := NewDomainGroup("public", "")
		public.POST("/auth/login", ok)
		protected := NewDomainGroup("api", "").Use(deny)
		protected.GET("/units", ok)

		NewRouter(engine).Register(public).Register(protected).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/units").Code)
	})

	t.Run("routes lists full paths", func(t *testing.T) {
		ok := func(c *gin.Context) {}
		g := NewDomainGroup("api", "")
		g.GET("/dashboard", ok)
		units := g.Group("units", "/units")
		units.POST("", ok).GET("/:id", ok)

		assert.Equal(t, []Route{
			{Method: http.MethodGet, Path: "/dashboard"},
			{Method: http.MethodPost, Path: "/units"},
			{Method: http.MethodGet, Path: "/units/:id"},
		}, g.Routes())
	})

	t.Run("subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("api", "")
		g.Group("transfers", "/transfers").POST("/:id/receive", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
		g.Group("accessory-transfers", "/accessory-transfers").POST("/:id/receive", func(c *gin.Context) {
			c.String(http.StatusOK, "accessory "+c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "42", serve(engine, http.MethodPost, "/api/v1/transfers/42/receive").Body.String())
		assert.Equal(t, "accessory 7", serve(engine, http.MethodPost, "/api/v1/accessory-transfers/7/receive").Body.String())
	})
}
