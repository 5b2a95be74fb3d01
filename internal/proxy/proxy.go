package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/masterdex/card-search-go/internal/cards"
	"github.com/masterdex/card-search-go/internal/config"
	"github.com/masterdex/card-search-go/internal/pokemontcg"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
)

const headerRequestID = "X-Request-Id"

func NewServer(cfg config.Proxy, client *pokemontcg.Client, cache Cache) *Server {
	return &Server{
		cfg:    cfg,
		client: client,
		cache:  cache,
	}
}

// Server forwards card searches to the upstream API. The API key stays on
// this side, browsers only ever talk to the same-origin /api routes.
type Server struct {
	cfg    config.Proxy
	client *pokemontcg.Client
	cache  Cache
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	api := r.Group("/api")
	{
		api.GET("/cards", s.handleSearch)
		api.GET("/cards/:id", s.handleCard)
	}

	r.GET("/health", s.handleHealth)

	return r
}

func (s *Server) Run() error {
	return s.Router().Run(s.cfg.AddrOrDefault())
}

// handleSearch forwards q and page verbatim. The frontend formats the
// query itself, an empty q resolves to an empty result without an
// upstream call.
func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, cards.SearchResult{Data: []cards.Card{}, Page: 1, PageSize: s.client.PageSize()})

		return
	}

	page := 0
	if rawPage := c.Query("page"); rawPage != "" {
		p, err := strconv.Atoi(rawPage)
		if err != nil || p < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive number"})

			return
		}
		page = p
	}

	// the page size is part of the key, instances with different configs
	// may share one cache
	cacheKey := "cards:q=" + query + ":page=" + strconv.Itoa(page) +
		":pageSize=" + strconv.Itoa(s.client.PageSize())
	if s.cache != nil {
		if cached, ok := s.cache.Get(c.Request.Context(), cacheKey); ok {
			c.Data(http.StatusOK, web.MimeTypeJSON, cached)

			return
		}
	}

	result, err := s.client.SearchQuery(c.Request.Context(), query, page)
	if err != nil {
		s.respondErr(c, err)

		return
	}

	if s.cache != nil {
		if body, mErr := json.Marshal(result); mErr == nil {
			s.cache.Set(c.Request.Context(), cacheKey, body)
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCard(c *gin.Context) {
	card, err := s.client.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, cards.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})

			return
		}

		s.respondErr(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": card})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondErr keeps the upstream status code, everything else counts as a
// bad gateway.
func (s *Server) respondErr(c *gin.Context, err error) {
	var apiErr *web.ExternalAPIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})

		return
	}

	log.Error().Err(err).Msg("upstream request failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream not reachable"})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(headerRequestID, id)

		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("requestID", c.GetString("requestID")).
			Msg("request")
	}
}
