package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplateRenderer is a custom HTML template renderer for the Echo framework.
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template with the given data.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// Server encapsulates the Echo server and the read-only catalog access
// behind it. It never writes to the store.
type Server struct {
	Echo   *echo.Echo
	store  catalog.Store
	logger *slog.Logger
	plots  *PlotRenderer
}

// NewServer initializes the HTTP viewer over a catalog store.
func NewServer(store catalog.Store, logger *slog.Logger) (*Server, error) {
	plots, err := NewPlotRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating plot renderer: %w", err)
	}

	s := &Server{
		Echo:   echo.New(),
		store:  store,
		logger: logger,
		plots:  plots,
	}

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Renderer = &TemplateRenderer{
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
	s.Echo.Use(middleware.Recover())

	s.initRoutes()
	return s, nil
}

func (s *Server) initRoutes() {
	s.Echo.GET("/", s.handleIndex)
	s.Echo.GET("/table/:name", s.handleTable)
	s.Echo.GET("/plot/:name", s.handlePlot)

	s.Echo.GET("/api/stats", s.handleStats)
	s.Echo.GET("/api/participants", s.handleParticipants)
	s.Echo.GET("/api/sensors", s.handleSensors)
	s.Echo.GET("/api/sensor/:name/data", s.handleSensorData)
	s.Echo.GET("/api/sensor/:name/summary", s.handleSensorSummary)
	s.Echo.GET("/api/participant/:id/overview", s.handleParticipantOverview)
	s.Echo.GET("/api/search", s.handleSearch)
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Echo.Start(fmt.Sprintf(":%d", port))
	}()

	s.logger.Info("viewer listening", slog.Int("port", port))

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		return s.Echo.Shutdown(context.Background())
	}
}

// httpError maps catalog errors to user-visible HTTP failures. Unknown
// tables and columns are the caller's mistake, everything else is ours.
func httpError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrTableNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	case errors.Is(err, catalog.ErrColumnNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "column not found")
	case errors.Is(err, catalog.ErrParticipantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "participant not found")
	case errors.Is(err, os.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound, "catalog database not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
