package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/empatica"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/tabular"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	store := catalog.NewSqliteStore(filepath.Join(t.TempDir(), "catalog.db"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	require.NoError(t, store.SeedDictionary(ctx, empatica.New().Sensors()))

	header := []string{"participant_id", "low_session", "medium_session", "high_session"}
	_, err := store.ImportParticipants(ctx, header, [][]string{
		{"participant_01", "1", "2", "3"},
		{"participant_02", "3", "1", "2"},
	})
	require.NoError(t, err)

	def, ok := empatica.New().Match("wrist_hr.csv")
	require.True(t, ok)
	require.NoError(t, store.EnsureSensorTable(ctx, def))

	_, _, err = store.InsertReadings(ctx, catalog.ReadingBatch{
		Definition:    def,
		ParticipantID: "participant_01",
		SessionID:     1,
		SourceFile:    "participant_01/1/wrist_hr.csv",
		Rows: []tabular.Row{
			{"1.0", "72"},
			{"2.0", "74"},
			{"3.0", "71"},
		},
	})
	require.NoError(t, err)

	edaDef, ok := empatica.New().Match("wrist_eda.csv")
	require.True(t, ok)
	require.NoError(t, store.EnsureSensorTable(ctx, edaDef))

	_, _, err = store.InsertReadings(ctx, catalog.ReadingBatch{
		Definition:    edaDef,
		ParticipantID: "participant_01",
		SessionID:     2,
		SourceFile:    "participant_01/2/wrist_eda.csv",
		Rows:          []tabular.Row{{"1.0", "0.02"}},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewServer(store, logger)
	require.NoError(t, err)
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wrist_hr")
	assert.Contains(t, rec.Body.String(), "participant_01")
}

func TestTablePage(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/table/wrist_hr")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wrist_hr")
	assert.Contains(t, rec.Body.String(), "participant_01")
}

func TestTablePagination(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/table/wrist_hr?page=2&limit=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	// 3 rows at 2 per page: page 2 holds the last reading only.
	assert.Contains(t, rec.Body.String(), "71")
	assert.NotContains(t, rec.Body.String(), "74")
}

func TestTableNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/table/no_such_table")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalParticipants int `json:"total_participants"`
		TotalSensorTypes  int `json:"total_sensor_types"`
		SensorStats       []struct {
			SensorName  string `json:"sensor_name"`
			RecordCount int64  `json:"record_count"`
		} `json:"sensor_stats"`
	}
	decodeJSON(t, rec, &body)

	assert.Equal(t, 2, body.TotalParticipants)
	assert.Equal(t, 6, body.TotalSensorTypes)
	require.Len(t, body.SensorStats, 2, "only sensor tables count, not bookkeeping tables")

	// Busiest sensors first.
	assert.Equal(t, "wrist_hr", body.SensorStats[0].SensorName)
	assert.EqualValues(t, 3, body.SensorStats[0].RecordCount)
	assert.Equal(t, "wrist_eda", body.SensorStats[1].SensorName)
	assert.EqualValues(t, 1, body.SensorStats[1].RecordCount)
}

func TestParticipantsAPI(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/participants")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		ParticipantID string `json:"participant_id"`
		LowSession    *int64 `json:"low_session"`
	}
	decodeJSON(t, rec, &body)

	require.Len(t, body, 2)
	assert.Equal(t, "participant_01", body[0].ParticipantID)
	require.NotNil(t, body[0].LowSession)
	assert.EqualValues(t, 1, *body[0].LowSession)
}

func TestSensorData(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/sensor/wrist_hr/data?participant_id=participant_01&session_id=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SensorName   string           `json:"sensor_name"`
		Columns      []string         `json:"columns"`
		Data         []map[string]any `json:"data"`
		TotalRecords int              `json:"total_records"`
	}
	decodeJSON(t, rec, &body)

	assert.Equal(t, "wrist_hr", body.SensorName)
	assert.Contains(t, body.Columns, "hr")
	assert.Equal(t, 3, body.TotalRecords)
	require.Len(t, body.Data, 3)
	assert.EqualValues(t, 72, body.Data[0]["hr"])
	assert.Equal(t, "participant_01", body.Data[0]["participant_id"])
}

func TestSensorDataFilters(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/sensor/wrist_hr/data?participant_id=participant_02")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalRecords int `json:"total_records"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, 0, body.TotalRecords)
}

func TestSensorDataNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/sensor/no_such_table/data")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSensorSummaryAPI(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/sensor/wrist_hr/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SensorName       string `json:"sensor_name"`
		TotalRecords     int64  `json:"total_records"`
		ParticipantStats []struct {
			ParticipantID string `json:"participant_id"`
			SessionID     int64  `json:"session_id"`
			RecordCount   int64  `json:"record_count"`
		} `json:"participant_stats"`
	}
	decodeJSON(t, rec, &body)

	assert.Equal(t, "wrist_hr", body.SensorName)
	assert.EqualValues(t, 3, body.TotalRecords)
	require.Len(t, body.ParticipantStats, 1)
	assert.Equal(t, "participant_01", body.ParticipantStats[0].ParticipantID)
}

func TestParticipantOverviewAPI(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/participant/participant_01/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ParticipantID   string `json:"participant_id"`
		ParticipantInfo struct {
			ParticipantID string `json:"participant_id"`
			LowSession    *int64 `json:"low_session"`
		} `json:"participant_info"`
		SensorStats []struct {
			SensorName   string `json:"sensor_name"`
			Description  string `json:"description"`
			SessionStats []struct {
				SessionID   int64 `json:"session_id"`
				RecordCount int64 `json:"record_count"`
			} `json:"session_stats"`
		} `json:"sensor_stats"`
	}
	decodeJSON(t, rec, &body)

	assert.Equal(t, "participant_01", body.ParticipantID)
	require.NotNil(t, body.ParticipantInfo.LowSession)
	assert.EqualValues(t, 1, *body.ParticipantInfo.LowSession)

	// Dictionary order; only sensors with data appear.
	require.Len(t, body.SensorStats, 2)
	assert.Equal(t, "wrist_eda", body.SensorStats[0].SensorName)
	require.Len(t, body.SensorStats[0].SessionStats, 1)
	assert.EqualValues(t, 2, body.SensorStats[0].SessionStats[0].SessionID)
	assert.EqualValues(t, 1, body.SensorStats[0].SessionStats[0].RecordCount)
	assert.Equal(t, "wrist_hr", body.SensorStats[1].SensorName)
	require.Len(t, body.SensorStats[1].SessionStats, 1)
	assert.EqualValues(t, 1, body.SensorStats[1].SessionStats[0].SessionID)
	assert.EqualValues(t, 3, body.SensorStats[1].SessionStats[0].RecordCount)
}

func TestParticipantOverviewNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/participant/nobody/overview")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	// Default type lists participants.
	rec := get(s, "/api/search")
	require.Equal(t, http.StatusOK, rec.Code)
	var participants []struct {
		ParticipantID string `json:"participant_id"`
	}
	decodeJSON(t, rec, &participants)
	require.Len(t, participants, 2)
	assert.Equal(t, "participant_01", participants[0].ParticipantID)

	rec = get(s, "/api/search?type=sensors")
	require.Equal(t, http.StatusOK, rec.Code)
	var sensors []struct {
		SensorName string `json:"sensor_name"`
	}
	decodeJSON(t, rec, &sensors)
	assert.Len(t, sensors, 6)

	rec = get(s, "/api/search?type=data&sensor_name=wrist_hr")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		SensorName   string `json:"sensor_name"`
		TotalRecords int    `json:"total_records"`
	}
	decodeJSON(t, rec, &data)
	assert.Equal(t, "wrist_hr", data.SensorName)
	assert.Equal(t, 3, data.TotalRecords)
}

func TestSearchBadRequests(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/search?type=data")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(s, "/api/search?type=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlot(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/plot/wrist_hr?column=hr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestPlotDefaultColumn(t *testing.T) {
	s := newTestServer(t)

	// Without a column parameter the first non-timestamp dictionary
	// column is plotted.
	rec := get(s, "/plot/wrist_hr")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlotUnknownColumn(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/plot/wrist_hr?column=nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
