// Package fixture serves a location dataset over HTTP in either directory
// URL convention, for local development and tests.
package fixture

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/log"
)

// Options configures a Server.
type Options struct {
	Style directory.Style

	// Objects serves items as {"name": ...} objects instead of strings.
	Objects bool

	// Delay is added before every response.
	Delay time.Duration

	// Logger receives one line per request. Nil disables request logging.
	Logger *log.Logger
}

// Server is a fixture directory service.
type Server struct {
	data   *Dataset
	opts   Options
	engine *gin.Engine
}

// New creates a server for ds.
func New(ds *Dataset, opts Options) *Server {
	if opts.Style == "" {
		opts.Style = directory.StylePath
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// Names may contain an escaped "/", so route on the raw path.
	engine.UseRawPath = true
	engine.UnescapePathValues = true
	engine.Use(gin.Recovery())
	if opts.Logger != nil {
		engine.Use(requestLogger(opts.Logger))
	}
	if opts.Delay > 0 {
		engine.Use(delay(opts.Delay))
	}

	s := &Server{data: ds, opts: opts, engine: engine}

	engine.GET("/countries", s.getCountries)
	switch opts.Style {
	case directory.StyleQuery:
		engine.GET("/states", s.getStatesByQuery)
		engine.GET("/cities", s.getCitiesByQuery)
	default:
		engine.GET("/:country/states", s.getStatesByPath)
		engine.GET("/:country/:state/cities", s.getCitiesByPath)
	}
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) getCountries(c *gin.Context) {
	s.reply(c, s.data.CountryNames())
}

func (s *Server) getStatesByPath(c *gin.Context) {
	country, ok := strings.CutPrefix(c.Param("country"), "country=")
	if !ok {
		notFound(c, "not found")
		return
	}
	s.states(c, country)
}

func (s *Server) getCitiesByPath(c *gin.Context) {
	country, ok1 := strings.CutPrefix(c.Param("country"), "country=")
	state, ok2 := strings.CutPrefix(c.Param("state"), "state=")
	if !ok1 || !ok2 {
		notFound(c, "not found")
		return
	}
	s.cities(c, country, state)
}

func (s *Server) getStatesByQuery(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country is required"})
		return
	}
	s.states(c, country)
}

func (s *Server) getCitiesByQuery(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}
	s.cities(c, c.Query("country"), state)
}

func (s *Server) states(c *gin.Context, country string) {
	names, ok := s.data.StateNames(country)
	if !ok {
		notFound(c, "unknown country: "+country)
		return
	}
	s.reply(c, names)
}

func (s *Server) cities(c *gin.Context, country, state string) {
	names, ok := s.data.CityNames(country, state)
	if !ok {
		notFound(c, "unknown state: "+state)
		return
	}
	s.reply(c, names)
}

func (s *Server) reply(c *gin.Context, names []string) {
	if !s.opts.Objects {
		c.JSON(http.StatusOK, names)
		return
	}
	items := make([]gin.H, 0, len(names))
	for _, n := range names {
		items = append(items, gin.H{"name": n})
	}
	c.JSON(http.StatusOK, items)
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Printf("%s %s %d (%s)\n", c.Request.Method, c.Request.URL.RequestURI(),
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// delay holds every response for d, giving up early when the client
// goes away.
func delay(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}
