package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/hvac-idf/db"
	"github.com/thatsimonsguy/hvac-idf/internal/energyplus"
	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/metrics"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
)

type fixture struct {
	server *Server
	db     *sql.DB
	model  *model.Model
	loop   model.AirLoopHVAC
	oa     model.AirLoopHVACOutdoorAirSystem
	fan    model.FanConstantVolume
	oaFan  model.FanConstantVolume
}

func setupTestServer(t *testing.T) *fixture {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	m := model.New()
	loop, err := model.NewAirLoopHVAC(m)
	require.NoError(t, err)
	ctrl, err := model.NewControllerOutdoorAir(m)
	require.NoError(t, err)
	oa, err := model.NewAirLoopHVACOutdoorAirSystem(m, ctrl)
	require.NoError(t, err)
	outlet, _ := loop.SupplyOutletNode()
	require.True(t, oa.AddToNode(outlet))

	fan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	require.True(t, fan.AddToNode(outlet))
	oaFan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	outboard, _ := oa.OutboardOANode()
	require.True(t, oaFan.AddToNode(outboard))

	server := NewServer(database, m, energyplus.DefaultOptions(), metrics.NewRegistry())
	return &fixture{server: server, db: database, model: m, loop: loop, oa: oa, fan: fan, oaFan: oaFan}
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func objectPath(h handle.Handle, rest ...string) string {
	return "/api/objects/" + url.PathEscape(h.String()) + strings.Join(append([]string{""}, rest...), "/")
}

func fieldBody(t *testing.T, value string) io.Reader {
	t.Helper()
	b, err := json.Marshal(FieldRequest{Value: value})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestGetObjects(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodGet, "/api/objects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []ObjectSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, f.model.Workspace().Len())

	w = f.do(t, http.MethodGet, "/api/objects?type="+url.QueryEscape("OS:Fan:ConstantVolume"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fans []ObjectSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fans))
	require.Len(t, fans, 2)
	assert.Equal(t, f.fan.Handle().String(), fans[0].Handle)
	assert.Equal(t, "OS:Fan:ConstantVolume", fans[0].Type)

	w = f.do(t, http.MethodGet, "/api/objects?type=OS:Boiler", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetObject(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodGet, objectPath(f.fan.Handle()), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response ObjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, f.fan.Name(), response.Name)
	require.Len(t, response.Fields, 7)

	eff := response.Fields[idd.FanConstantVolumeFanTotalEfficiency]
	assert.Equal(t, "Fan Total Efficiency", eff.Name)
	assert.Equal(t, "0.6", eff.Value)
	assert.True(t, eff.Set)
	assert.True(t, eff.Defaulted)

	sched := response.Fields[idd.FanConstantVolumeAvailabilitySchedule]
	assert.Equal(t, "reference", sched.Type)

	require.Len(t, response.Connections, 2)
	for _, c := range response.Connections {
		assert.Equal(t, "OS:Node", c.Object.Type)
	}
}

func TestGetObjectErrors(t *testing.T) {
	f := setupTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"unknown handle", http.MethodGet, objectPath(handle.New()), http.StatusNotFound},
		{"bad handle", http.MethodGet, "/api/objects/not-a-handle", http.StatusBadRequest},
		{"missing handle", http.MethodGet, "/api/objects/", http.StatusNotFound},
		{"bad subpath", http.MethodGet, objectPath(f.fan.Handle(), "ports"), http.StatusNotFound},
		{"bad field index", http.MethodPut, objectPath(f.fan.Handle(), "fields", "two"), http.StatusBadRequest},
		{"post object", http.MethodPost, objectPath(f.fan.Handle()), http.StatusMethodNotAllowed},
		{"put objects", http.MethodPut, "/api/objects", http.StatusMethodNotAllowed},
		{"patch translate", http.MethodPatch, "/api/translate", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestSetAndResetField(t *testing.T) {
	f := setupTestServer(t)
	path := objectPath(f.fan.Handle(), "fields", "2")

	w := f.do(t, http.MethodPut, path, fieldBody(t, "0.8"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 0.8, f.fan.FanTotalEfficiency(), 1e-9)

	w = f.do(t, http.MethodPut, path, fieldBody(t, "1.7"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.InDelta(t, 0.8, f.fan.FanTotalEfficiency(), 1e-9)

	w = f.do(t, http.MethodPut, path, bytes.NewBufferString("invalid json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid JSON payload", response.Error)

	w = f.do(t, http.MethodPut, objectPath(f.fan.Handle(), "fields", "99"), fieldBody(t, "1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 0.6, f.fan.FanTotalEfficiency(), 1e-9)

	w = f.do(t, http.MethodDelete, objectPath(f.fan.Handle(), "fields", "0"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "names cannot be reset")
}

func TestSetReferenceFieldByName(t *testing.T) {
	f := setupTestServer(t)
	sched, err := f.model.AlwaysOnDiscreteSchedule()
	require.NoError(t, err)

	w := f.do(t, http.MethodPut, objectPath(f.fan.Handle(), "fields", "1"), fieldBody(t, sched.Name()))
	require.Equal(t, http.StatusOK, w.Code)

	got, ok := f.fan.AvailabilitySchedule()
	require.True(t, ok)
	assert.True(t, got.Equal(sched.ModelObject))
}

func TestRemoveObject(t *testing.T) {
	f := setupTestServer(t)

	// bind a view through an edit first
	w := f.do(t, http.MethodPut, objectPath(f.fan.Handle(), "fields", "2"), fieldBody(t, "0.7"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.server.views, 1)

	w = f.do(t, http.MethodDelete, objectPath(f.fan.Handle()), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response RemoveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Removed)
	assert.Equal(t, f.fan.Handle().String(), response.Removed[0].Handle)
	assert.Empty(t, f.server.views, "the view unbinds when its object goes")

	comps, err := f.loop.SupplyComponents()
	require.NoError(t, err)
	for _, c := range comps {
		assert.NotEqual(t, idd.FanConstantVolume, c.Type())
	}

	w = f.do(t, http.MethodGet, objectPath(f.fan.Handle()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	removals, err := db.GetRemovals(f.db, 0)
	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.Contains(t, removals[0].Root, f.fan.Name())
	assert.Len(t, removals[0].Records, len(response.Removed))
}

func TestRemoveNodeConflicts(t *testing.T) {
	f := setupTestServer(t)
	outlet, _ := f.loop.SupplyOutletNode()

	w := f.do(t, http.MethodDelete, objectPath(outlet.Handle()), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, outlet.Exists())
}

func TestOutdoorAirComponents(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodGet, "/api/oasystems/"+url.PathEscape(f.oa.Handle().String())+"/components", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response ComponentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	var outdoor []string
	for _, c := range response.OutdoorAir {
		outdoor = append(outdoor, c.Handle)
	}
	assert.Contains(t, outdoor, f.oaFan.Handle().String())
	assert.NotContains(t, outdoor, f.fan.Handle().String())
	assert.NotEmpty(t, response.Relief)

	w = f.do(t, http.MethodGet, "/api/oasystems/"+url.PathEscape(f.fan.Handle().String())+"/components", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/oasystems/"+url.PathEscape(f.oa.Handle().String()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslateReplacesModel(t *testing.T) {
	f := setupTestServer(t)

	src := model.New()
	loop, err := model.NewAirLoopHVAC(src)
	require.NoError(t, err)
	outlet, _ := loop.SupplyOutletNode()
	coil, err := model.NewCoilHeatingElectric(src)
	require.NoError(t, err)
	require.True(t, coil.AddToNode(outlet))
	text := energyplus.NewForwardTranslator(energyplus.DefaultOptions()).TranslateModel(src).String()

	// bind a view on the old model
	w := f.do(t, http.MethodPut, objectPath(f.fan.Handle(), "fields", "2"), fieldBody(t, "0.7"))
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/translate", strings.NewReader(text))
	require.Equal(t, http.StatusOK, w.Code)

	var response TranslateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Positive(t, response.RunID)
	assert.Empty(t, response.ReverseWarnings)
	assert.Contains(t, response.IDF, "Coil:Heating:Electric")
	assert.NotContains(t, response.IDF, "Fan:ConstantVolume")
	assert.Empty(t, f.server.views)

	w = f.do(t, http.MethodGet, objectPath(f.fan.Handle()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/objects?type="+url.QueryEscape("OS:Coil:Heating:Electric"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var coils []ObjectSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coils))
	assert.Len(t, coils, 1)

	runs, err := db.GetRuns(f.db, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, response.Objects, runs[0].ModelObjects)
}

func TestTranslateRejectsBrokenIDF(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodPost, "/api/translate", strings.NewReader("Fan:ConstantVolume, Unterminated"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the served model is untouched
	w = f.do(t, http.MethodGet, objectPath(f.fan.Handle()), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportModel(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodGet, "/api/translate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "AirLoopHVAC:OutdoorAirSystem")
	assert.Contains(t, body, f.fan.Name())
}

func TestCORSAndMetrics(t *testing.T) {
	f := setupTestServer(t)

	w := f.do(t, http.MethodOptions, "/api/objects", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	f.do(t, http.MethodGet, objectPath(f.fan.Handle()), nil)
	w = f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `idf_http_requests_total{method="GET",route="/api/objects",status="200"} 1`)
	assert.Contains(t, body, `idf_model_objects{type="OS:Fan:ConstantVolume"} 2`)
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/api/objects", route("/api/objects/{abc}/fields/2"))
	assert.Equal(t, "/metrics", route("/metrics"))
	assert.Equal(t, "/api/translate", route("/api/translate"))
}
