package app

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

const (
	defaultDataLimit = 1000
	maxDataLimit     = 100000
)

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	participants, err := s.store.Participants(ctx)
	if err != nil {
		return httpError(err)
	}

	dictionary, err := s.store.Dictionary(ctx)
	if err != nil {
		return httpError(err)
	}

	tables, err := s.store.Tables(ctx)
	if err != nil {
		return httpError(err)
	}

	known := make(map[string]struct{}, len(dictionary))
	for _, e := range dictionary {
		known[e.SensorName] = struct{}{}
	}

	type sensorStat struct {
		SensorName  string `json:"sensor_name"`
		RecordCount int64  `json:"record_count"`
	}
	sensorStats := make([]sensorStat, 0, len(tables))
	for _, t := range tables {
		if _, ok := known[t.Name]; !ok {
			continue
		}
		sensorStats = append(sensorStats, sensorStat{SensorName: t.Name, RecordCount: t.RowCount})
	}

	// Busiest sensors first.
	sort.Slice(sensorStats, func(i, j int) bool {
		if sensorStats[i].RecordCount != sensorStats[j].RecordCount {
			return sensorStats[i].RecordCount > sensorStats[j].RecordCount
		}
		return sensorStats[i].SensorName < sensorStats[j].SensorName
	})

	return c.JSON(http.StatusOK, map[string]any{
		"total_participants": len(participants),
		"total_sensor_types": len(dictionary),
		"sensor_stats":       sensorStats,
	})
}

func (s *Server) handleParticipants(c echo.Context) error {
	participants, err := s.store.Participants(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	type participantView struct {
		ParticipantID string `json:"participant_id"`
		LowSession    *int64 `json:"low_session"`
		MediumSession *int64 `json:"medium_session"`
		HighSession   *int64 `json:"high_session"`
	}
	views := make([]participantView, len(participants))
	for i, p := range participants {
		views[i] = participantView{
			ParticipantID: p.ID,
			LowSession:    p.LowSession,
			MediumSession: p.MediumSession,
			HighSession:   p.HighSession,
		}
	}

	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleSensors(c echo.Context) error {
	dictionary, err := s.store.Dictionary(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	type sensorView struct {
		SensorName  string `json:"sensor_name"`
		Description string `json:"description"`
	}
	views := make([]sensorView, len(dictionary))
	for i, e := range dictionary {
		views[i] = sensorView{SensorName: e.SensorName, Description: e.Description}
	}

	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleSensorData(c echo.Context) error {
	return s.renderSensorData(c, c.Param("name"))
}

func (s *Server) renderSensorData(c echo.Context, name string) error {
	ctx := c.Request().Context()

	limit := queryInt(c, "limit", defaultDataLimit)
	if limit < 1 || limit > maxDataLimit {
		limit = defaultDataLimit
	}

	options := []catalog.QueryOption{catalog.WithLimit(limit)}
	if participantID := c.QueryParam("participant_id"); participantID != "" {
		options = append(options, catalog.WithParticipant(participantID))
	}
	if sessionID := int64(queryInt(c, "session_id", 0)); sessionID > 0 {
		options = append(options, catalog.WithSession(sessionID))
	}

	result, err := s.store.TableRows(ctx, name, options...)
	if err != nil {
		return httpError(err)
	}

	data := make([]map[string]any, len(result.Rows))
	for i, row := range result.Rows {
		record := make(map[string]any, len(result.Columns))
		for j, column := range result.Columns {
			record[column] = row[j]
		}
		data[i] = record
	}

	return c.JSON(http.StatusOK, map[string]any{
		"sensor_name":   name,
		"columns":       result.Columns,
		"data":          data,
		"total_records": len(data),
	})
}

func (s *Server) handleParticipantOverview(c echo.Context) error {
	overview, err := s.store.ParticipantOverview(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	type sessionStatView struct {
		SessionID   int64 `json:"session_id"`
		RecordCount int64 `json:"record_count"`
	}
	type sensorStatView struct {
		SensorName   string            `json:"sensor_name"`
		Description  string            `json:"description"`
		SessionStats []sessionStatView `json:"session_stats"`
	}

	sensorStats := make([]sensorStatView, len(overview.Sensors))
	for i, sensor := range overview.Sensors {
		sessions := make([]sessionStatView, len(sensor.Sessions))
		for j, stat := range sensor.Sessions {
			sessions[j] = sessionStatView{SessionID: stat.SessionID, RecordCount: stat.RecordCount}
		}
		sensorStats[i] = sensorStatView{
			SensorName:   sensor.SensorName,
			Description:  sensor.Description,
			SessionStats: sessions,
		}
	}

	p := overview.Participant
	return c.JSON(http.StatusOK, map[string]any{
		"participant_id": p.ID,
		"participant_info": map[string]any{
			"participant_id": p.ID,
			"low_session":    p.LowSession,
			"medium_session": p.MediumSession,
			"high_session":   p.HighSession,
		},
		"sensor_stats": sensorStats,
	})
}

// handleSearch dispatches by query type to the listing endpoints, matching
// the surface shape those endpoints return.
func (s *Server) handleSearch(c echo.Context) error {
	switch c.QueryParam("type") {
	case "", "participants":
		return s.handleParticipants(c)

	case "sensors":
		return s.handleSensors(c)

	case "data":
		name := c.QueryParam("sensor_name")
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "sensor_name is required")
		}
		return s.renderSensorData(c, name)

	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query type")
	}
}

func (s *Server) handleSensorSummary(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	stats, err := s.store.SensorSummary(ctx, name)
	if err != nil {
		return httpError(err)
	}

	type statView struct {
		ParticipantID string `json:"participant_id"`
		SessionID     int64  `json:"session_id"`
		RecordCount   int64  `json:"record_count"`
	}
	views := make([]statView, len(stats))
	var total int64
	for i, stat := range stats {
		views[i] = statView{
			ParticipantID: stat.ParticipantID,
			SessionID:     stat.SessionID,
			RecordCount:   stat.RecordCount,
		}
		total += stat.RecordCount
	}

	return c.JSON(http.StatusOK, map[string]any{
		"sensor_name":       name,
		"total_records":     total,
		"participant_stats": views,
	})
}
