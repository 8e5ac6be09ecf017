package api

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"atithi/internal/assistant"
	"atithi/internal/checkout"
	"atithi/internal/menu"
	"atithi/internal/monitoring"
	"atithi/internal/session"
	"atithi/internal/store"
)

// Server exposes the assistant to the restaurant's web UI.
type Server struct {
	router    *gin.Engine
	catalog   *menu.Catalog
	bot       *assistant.Assistant
	sessions  session.Store
	checkout  *checkout.Service
	orders    *store.Store
	metrics   *monitoring.Metrics
	jwtSecret string
	origins   []string
}

// Options carries the server dependencies.
type Options struct {
	Catalog   *menu.Catalog
	Assistant *assistant.Assistant
	Sessions  session.Store
	Checkout  *checkout.Service
	Orders    *store.Store // nil disables the admin order surface
	Metrics   *monitoring.Metrics
	JWTSecret string
	Origins   []string
}

// NewServer creates the API server and wires its routes.
func NewServer(opts Options) *Server {
	s := &Server{
		router:    gin.Default(),
		catalog:   opts.Catalog,
		bot:       opts.Assistant,
		sessions:  opts.Sessions,
		checkout:  opts.Checkout,
		orders:    opts.Orders,
		metrics:   opts.Metrics,
		jwtSecret: opts.JWTSecret,
		origins:   opts.Origins,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "items": s.catalog.Len()})
	})

	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/chat", s.HandleChat)

		v1.GET("/menu", s.GetMenu)
		v1.GET("/menu/categories/:name", s.GetCategory)

		v1.POST("/sessions/:id/reset", s.ResetSession)
		v1.GET("/sessions/:id", s.GetSession)

		admin := v1.Group("/", s.authMiddleware())
		admin.GET("/orders", s.ListOrders)
	}
}

// Router returns the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler wraps the router with CORS for the browser UI.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(s.router)
}

// authMiddleware guards the admin surface with JWT authentication.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetMenu returns the full catalog.
func (s *Server) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.catalog.Categories()})
}

// GetCategory returns one category's items.
func (s *Server) GetCategory(c *gin.Context) {
	cat, ok := s.catalog.Category(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GetSession returns the current session state and cart.
func (s *Server) GetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ResetSession clears a session's cart and history.
func (s *Server) ResetSession(c *gin.Context) {
	id := c.Param("id")
	if err := s.sessions.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session reset"})
}

// ListOrders returns recent confirmed orders (admin only).
func (s *Server) ListOrders(c *gin.Context) {
	if s.orders == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order persistence is disabled"})
		return
	}
	orders, err := s.orders.ListOrders(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
