package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/db"
	"github.com/thatsimonsguy/hvac-idf/internal/energyplus"
	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/inspector"
	"github.com/thatsimonsguy/hvac-idf/internal/metrics"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

const maxIDFBytes = 32 << 20

// Server exposes one loaded model for inspection and editing. Every handler
// runs under mu, so the model and its unbind callbacks never race.
type Server struct {
	mu        sync.Mutex
	db        *sql.DB
	metrics   *metrics.Registry
	opts      energyplus.Options
	model     *model.Model
	inspector *inspector.Inspector
	views     map[handle.Handle]*inspector.Binding
}

type ObjectSummary struct {
	Handle string `json:"handle"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

type FieldResponse struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Value       string   `json:"value,omitempty"`
	Set         bool     `json:"set"`
	Defaulted   bool     `json:"defaulted"`
	Required    bool     `json:"required"`
	Autosizable bool     `json:"autosizable,omitempty"`
	Choices     []string `json:"choices,omitempty"`
}

type ConnectionResponse struct {
	Port   string        `json:"port"`
	Object ObjectSummary `json:"object"`
}

type ObjectResponse struct {
	ObjectSummary
	Fields      []FieldResponse      `json:"fields"`
	Groups      [][]string           `json:"groups,omitempty"`
	Connections []ConnectionResponse `json:"connections,omitempty"`
}

type FieldRequest struct {
	Value string `json:"value"`
}

type RemoveResponse struct {
	Removed []ObjectSummary `json:"removed"`
}

type ComponentsResponse struct {
	OutdoorAir []ObjectSummary `json:"outdoor_air"`
	Relief     []ObjectSummary `json:"relief"`
}

type TranslateResponse struct {
	RunID           int64                `json:"run_id,omitempty"`
	Objects         int                  `json:"objects"`
	ReverseWarnings []energyplus.Warning `json:"reverse_warnings"`
	ForwardWarnings []energyplus.Warning `json:"forward_warnings"`
	IDF             string               `json:"idf"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer serves m. database may be nil, in which case translations and
// removals are not recorded.
func NewServer(database *sql.DB, m *model.Model, opts energyplus.Options, reg *metrics.Registry) *Server {
	s := &Server{
		db:      database,
		metrics: reg,
		opts:    opts,
	}
	s.load(m)
	return s
}

// load swaps in a new model. Callers hold mu, except NewServer.
func (s *Server) load(m *model.Model) {
	if s.inspector != nil {
		s.inspector.Close()
	}
	s.model = m
	s.inspector = inspector.New(m)
	s.views = make(map[handle.Handle]*inspector.Binding)
	s.refreshObjectCounts()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/objects", s.handleObjects)
	mux.HandleFunc("/api/objects/", s.handleObjectOperations)
	mux.HandleFunc("/api/oasystems/", s.handleOutdoorAirSystems)
	mux.HandleFunc("/api/translate", s.handleTranslate)
	mux.Handle("/metrics", s.metrics.Handler())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Method, route(r.URL.Path), strconv.Itoa(rec.status), time.Since(start))
	})
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Info().Str("address", addr).Msg("Starting inspector API server")
	return http.ListenAndServe(addr, s.Handler())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// route keeps metric labels bounded: handles and field indices are dropped.
func route(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/api/objects" {
		s.getObjects(w, r)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleObjectOperations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/objects/")
	parts := strings.Split(path, "/")

	if len(parts) < 1 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "Object handle required")
		return
	}

	h, err := handle.Parse(parts[0])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid handle")
		return
	}

	switch {
	case len(parts) == 1:
		// /api/objects/{handle}
		switch r.Method {
		case http.MethodGet:
			s.getObject(w, r, h)
		case http.MethodDelete:
			s.removeObject(w, r, h)
		default:
			s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case len(parts) == 3 && parts[1] == "fields":
		// /api/objects/{handle}/fields/{index}
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid field index")
			return
		}
		switch r.Method {
		case http.MethodPut:
			s.setField(w, r, h, index)
		case http.MethodDelete:
			s.resetField(w, r, h, index)
		default:
			s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		s.writeError(w, http.StatusNotFound, "Invalid path")
	}
}

func (s *Server) handleOutdoorAirSystems(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/oasystems/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "components" {
		s.writeError(w, http.StatusNotFound, "Invalid path")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h, err := handle.Parse(parts[0])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid handle")
		return
	}
	s.getOutdoorAirComponents(w, r, h)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.translate(w, r)
	case http.MethodGet:
		s.exportModel(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) getObjects(w http.ResponseWriter, r *http.Request) {
	types := idd.Types()
	if name := r.URL.Query().Get("type"); name != "" {
		t, ok := idd.LookupName(name)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown object type %q", name))
			return
		}
		types = []idd.Type{t}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	response := []ObjectSummary{}
	for _, t := range types {
		for _, o := range s.model.ObjectsOfType(t) {
			response = append(response, summarize(o))
		}
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request, h handle.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.model.ModelObject(h)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Object not found")
		return
	}
	obj, _ := s.model.Workspace().Object(h)

	response := ObjectResponse{ObjectSummary: summarize(o)}
	for _, f := range inspector.Fields(o) {
		value, set := f.Get()
		response.Fields = append(response.Fields, FieldResponse{
			Index:       f.Index,
			Name:        f.Name,
			Type:        f.Type.String(),
			Value:       value,
			Set:         set,
			Defaulted:   f.IsDefaulted(),
			Required:    f.Required,
			Autosizable: f.Autosizable,
			Choices:     f.Choices,
		})
	}
	for g := 0; g < obj.NumGroups(); g++ {
		var group []string
		for _, v := range obj.Group(g) {
			group = append(group, s.valueText(v))
		}
		response.Groups = append(response.Groups, group)
	}
	for _, p := range obj.Schema().Ports {
		if other, ok := o.ConnectedObject(p.Port); ok {
			response.Connections = append(response.Connections, ConnectionResponse{
				Port:   p.Port.String(),
				Object: summarize(other),
			})
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) valueText(v workspace.Value) string {
	if h, ok := v.AsHandle(); ok {
		if t, ok := s.model.ModelObject(h); ok {
			return t.Name()
		}
		return ""
	}
	return v.Text()
}

// view returns the binding the server edits h through, binding on first use.
func (s *Server) view(h handle.Handle) (*inspector.Binding, bool) {
	if b, ok := s.views[h]; ok {
		return b, true
	}
	o, ok := s.model.ModelObject(h)
	if !ok {
		return nil, false
	}
	b, err := s.inspector.Bind(o, func() { delete(s.views, h) })
	if err != nil {
		log.Debug().Err(err).Str("handle", h.String()).Msg("Could not bind object")
		return nil, false
	}
	s.views[h] = b
	return b, true
}

func (s *Server) setField(w http.ResponseWriter, r *http.Request, h handle.Handle, index int) {
	var req FieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.view(h)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Object not found")
		return
	}
	f, ok := b.Field(index)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Field not found")
		return
	}

	applied := f.Set(req.Value)
	s.metrics.RecordFieldEdit("set", applied)
	if !applied {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Value %q rejected for %s", req.Value, f.Name))
		return
	}

	log.Info().Str("object", b.Object().String()).Str("field", f.Name).Str("value", req.Value).Msg("Field updated via API")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) resetField(w http.ResponseWriter, r *http.Request, h handle.Handle, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.view(h)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Object not found")
		return
	}
	f, ok := b.Field(index)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Field not found")
		return
	}

	applied := f.Reset()
	s.metrics.RecordFieldEdit("reset", applied)
	if !applied {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("%s cannot be reset", f.Name))
		return
	}

	log.Info().Str("object", b.Object().String()).Str("field", f.Name).Msg("Field reset via API")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) removeObject(w http.ResponseWriter, r *http.Request, h handle.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.model.ModelObject(h)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Object not found")
		return
	}
	root := o.String()

	records, err := model.Remove(o)
	if err != nil {
		log.Warn().Err(err).Str("object", root).Msg("Failed to remove object")
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.metrics.ObjectsRemoved.Add(float64(len(records)))
	s.refreshObjectCounts()

	if s.db != nil {
		if err := db.RecordRemoval(s.db, root, records); err != nil {
			log.Error().Err(err).Str("object", root).Msg("Failed to record removal")
		}
	}

	response := RemoveResponse{Removed: []ObjectSummary{}}
	for _, rec := range records {
		response.Removed = append(response.Removed, ObjectSummary{
			Handle: rec.Field(0),
			Type:   rec.Type,
			Name:   rec.Field(1),
		})
	}
	log.Info().Str("object", root).Int("records", len(records)).Msg("Object removed via API")
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) getOutdoorAirComponents(w http.ResponseWriter, r *http.Request, h handle.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.model.ModelObject(h)
	if !ok || o.Type() != idd.AirLoopHVACOutdoorAirSystem {
		s.writeError(w, http.StatusNotFound, "Outdoor air system not found")
		return
	}
	oa, _ := model.AsAirLoopHVACOutdoorAirSystem(o)

	outdoor, err := oa.OAComponents()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	relief, err := oa.ReliefComponents()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := ComponentsResponse{OutdoorAir: []ObjectSummary{}, Relief: []ObjectSummary{}}
	for _, c := range outdoor {
		response.OutdoorAir = append(response.OutdoorAir, summarize(c))
	}
	for _, c := range relief {
		response.Relief = append(response.Relief, summarize(c))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// translate reverse translates the posted IDF into a new model, replaces the
// served model with it and answers with the forward translation.
func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	in, err := idf.Parse(http.MaxBytesReader(w, r.Body, maxIDFBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid IDF: "+err.Error())
		return
	}

	started := time.Now()
	res := energyplus.Translate(in, s.opts)
	s.metrics.RecordTranslation(db.DirectionReverse, res.ReverseDuration, len(res.ReverseWarnings))
	s.metrics.RecordTranslation(db.DirectionForward, res.ForwardDuration, len(res.ForwardWarnings))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(res.Model)

	response := TranslateResponse{
		Objects:         res.Model.Workspace().Len(),
		ReverseWarnings: nonNil(res.ReverseWarnings),
		ForwardWarnings: nonNil(res.ForwardWarnings),
		IDF:             res.Output.String(),
	}

	if s.db != nil {
		run := db.Run{
			StartedAt:     started,
			InputFile:     "api",
			OutputFile:    "api",
			InputRecords:  len(in.Objects),
			ModelObjects:  response.Objects,
			OutputRecords: len(res.Output.Objects),
			Duration:      res.ReverseDuration + res.ForwardDuration,
		}
		id, err := db.RecordRun(s.db, run, res.ReverseWarnings, res.ForwardWarnings)
		if err != nil {
			log.Error().Err(err).Msg("Failed to record translation run")
		}
		response.RunID = id
	}

	log.Info().
		Int("objects", response.Objects).
		Int("reverse_warnings", len(res.ReverseWarnings)).
		Int("forward_warnings", len(res.ForwardWarnings)).
		Msg("Model replaced via API")
	s.writeJSON(w, http.StatusOK, response)
}

// exportModel forward translates the served model, edits included.
func (s *Server) exportModel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	ft := energyplus.NewForwardTranslator(s.opts)
	out := ft.TranslateModel(s.model)
	s.metrics.RecordTranslation(db.DirectionForward, time.Since(start), len(ft.Warnings()))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("Failed to write IDF response")
	}
}

func (s *Server) refreshObjectCounts() {
	counts := make(map[string]int)
	for _, t := range idd.Types() {
		if n := len(s.model.ObjectsOfType(t)); n > 0 {
			counts[t.String()] = n
		}
	}
	s.metrics.SetModelObjects(counts)
}

func summarize(o model.ModelObject) ObjectSummary {
	return ObjectSummary{
		Handle: o.Handle().String(),
		Type:   o.Type().String(),
		Name:   o.Name(),
	}
}

func nonNil(ws []energyplus.Warning) []energyplus.Warning {
	if ws == nil {
		return []energyplus.Warning{}
	}
	return ws
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
