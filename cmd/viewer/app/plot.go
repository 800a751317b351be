package app

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

const (
	plotWidth  = 960
	plotHeight = 320

	marginLeft   = 80
	marginRight  = 20
	marginTop    = 36
	marginBottom = 28

	plotDPI      float64 = 72
	plotFontSize float64 = 14

	defaultPlotLimit = 5000
	maxPlotLimit     = 50000
)

var (
	plotBackground = color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff}
	plotAxisColor  = color.RGBA{R: 0x50, G: 0x58, B: 0x60, A: 0xff}
	plotLineColor  = color.RGBA{R: 0x2f, G: 0xc1, B: 0x8c, A: 0xff}
)

// PlotRenderer draws a sensor column as a time-series line image.
type PlotRenderer struct {
	context *freetype.Context
}

// NewPlotRenderer builds a renderer with the Go Regular face.
func NewPlotRenderer() (*PlotRenderer, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(plotDPI)
	context.SetFont(parsedFont)
	context.SetFontSize(plotFontSize)
	context.SetSrc(image.White)
	context.SetHinting(font.HintingFull)

	return &PlotRenderer{context: context}, nil
}

// Render draws the series into a fixed-size RGBA image with title and
// value-range annotations.
func (r *PlotRenderer) Render(table, column string, points []catalog.SeriesPoint) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, plotWidth, plotHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: plotBackground}, image.Point{}, draw.Src)

	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	title := fmt.Sprintf("%s.%s — %s points", table, column, humanize.Comma(int64(len(points))))
	if _, err := r.context.DrawString(title, freetype.Pt(marginLeft, 22)); err != nil {
		return nil, fmt.Errorf("drawing title: %w", err)
	}

	if len(points) == 0 {
		_, err := r.context.DrawString("no data", freetype.Pt(plotWidth/2-30, plotHeight/2))
		return img, err
	}

	minVal, maxVal := points[0].Value, points[0].Value
	minTS, maxTS := points[0].Timestamp, points[0].Timestamp
	for _, p := range points {
		minVal = math.Min(minVal, p.Value)
		maxVal = math.Max(maxVal, p.Value)
		minTS = math.Min(minTS, p.Timestamp)
		maxTS = math.Max(maxTS, p.Timestamp)
	}
	if maxVal == minVal {
		maxVal++ // flat series still gets a visible line
	}
	if maxTS == minTS {
		maxTS++
	}

	// axes
	left, right := marginLeft, plotWidth-marginRight
	top, bottom := marginTop, plotHeight-marginBottom
	for x := left; x <= right; x++ {
		img.Set(x, bottom, plotAxisColor)
	}
	for y := top; y <= bottom; y++ {
		img.Set(left, y, plotAxisColor)
	}

	toX := func(ts float64) int {
		return left + int((ts-minTS)/(maxTS-minTS)*float64(right-left))
	}
	toY := func(v float64) int {
		return bottom - int((v-minVal)/(maxVal-minVal)*float64(bottom-top))
	}

	prevX, prevY := toX(points[0].Timestamp), toY(points[0].Value)
	for _, p := range points[1:] {
		x, y := toX(p.Timestamp), toY(p.Value)
		drawLine(img, prevX, prevY, x, y, plotLineColor)
		prevX, prevY = x, y
	}

	labels := []struct {
		text string
		x, y int
	}{
		{humanize.Commaf(maxVal), 4, top + 12},
		{humanize.Commaf(minVal), 4, bottom},
	}
	for _, l := range labels {
		if _, err := r.context.DrawString(l.text, freetype.Pt(l.x, l.y)); err != nil {
			return nil, fmt.Errorf("drawing label: %w", err)
		}
	}

	return img, nil
}

// drawLine plots a straight segment between two pixels.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.Set(x0, y0, c)
		return
	}

	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (s *Server) handlePlot(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	column := c.QueryParam("column")
	if column == "" {
		var err error
		if column, err = s.defaultPlotColumn(c, name); err != nil {
			return err
		}
	}

	limit := queryInt(c, "limit", defaultPlotLimit)
	if limit < 1 || limit > maxPlotLimit {
		limit = defaultPlotLimit
	}

	options := []catalog.QueryOption{catalog.WithLimit(limit)}
	if participantID := c.QueryParam("participant_id"); participantID != "" {
		options = append(options, catalog.WithParticipant(participantID))
	}
	if sessionID := int64(queryInt(c, "session_id", 0)); sessionID > 0 {
		options = append(options, catalog.WithSession(sessionID))
	}

	points, err := s.store.Series(ctx, name, column, options...)
	if err != nil {
		return httpError(err)
	}

	img, err := s.plots.Render(name, column, points)
	if err != nil {
		return httpError(err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// defaultPlotColumn picks the first measurement column of a sensor table
// from its dictionary entry.
func (s *Server) defaultPlotColumn(c echo.Context, table string) (string, error) {
	entries, err := s.store.Dictionary(c.Request().Context())
	if err != nil {
		return "", httpError(err)
	}

	for _, e := range entries {
		if e.SensorName != table {
			continue
		}
		for _, column := range e.Columns {
			if column != "timestamp" {
				return column, nil
			}
		}
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "column parameter is required")
}
