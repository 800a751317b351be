package app

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type tableSummary struct {
	Name        string
	RowCount    int64
	Description string
}

type indexData struct {
	Participants []catalog.Participant
	Tables       []tableSummary
	TotalRows    int64
}

func (s *Server) handleIndex(c echo.Context) error {
	ctx := c.Request().Context()

	tables, err := s.store.Tables(ctx)
	if err != nil {
		return httpError(err)
	}

	participants, err := s.store.Participants(ctx)
	if err != nil {
		return httpError(err)
	}

	descriptions, err := s.dictionaryDescriptions(c)
	if err != nil {
		return httpError(err)
	}

	data := indexData{Participants: participants}
	for _, t := range tables {
		data.Tables = append(data.Tables, tableSummary{
			Name:        t.Name,
			RowCount:    t.RowCount,
			Description: descriptions[t.Name],
		})
		data.TotalRows += t.RowCount
	}

	return c.Render(http.StatusOK, "index.html", data)
}

type tableData struct {
	Name        string
	Description string
	Columns     []string
	Rows        [][]any
	Total       int64
	Page        int
	PageSize    int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

func (s *Server) handleTable(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(c, "limit", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	result, err := s.store.TableRows(ctx, name,
		catalog.WithLimit(pageSize),
		catalog.WithOffset((page-1)*pageSize))
	if err != nil {
		return httpError(err)
	}

	var total int64
	tables, err := s.store.Tables(ctx)
	if err != nil {
		return httpError(err)
	}
	for _, t := range tables {
		if t.Name == name {
			total = t.RowCount
			break
		}
	}

	descriptions, err := s.dictionaryDescriptions(c)
	if err != nil {
		return httpError(err)
	}

	data := tableData{
		Name:        name,
		Description: descriptions[name],
		Columns:     result.Columns,
		Rows:        result.Rows,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		HasPrev:     page > 1,
		HasNext:     int64(page*pageSize) < total,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}

	return c.Render(http.StatusOK, "table.html", data)
}

func (s *Server) dictionaryDescriptions(c echo.Context) (map[string]string, error) {
	entries, err := s.store.Dictionary(c.Request().Context())
	if err != nil {
		return nil, err
	}

	descriptions := make(map[string]string, len(entries))
	for _, e := range entries {
		descriptions[e.SensorName] = e.Description
	}
	return descriptions, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
