package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/ut181a"
)

// Server serves one opened DMM over HTTP. Requests are serialized, the DMM
// handles one command at a time.
type Server struct {
	dev     ut181a.Device
	version VersionInfo
	metrics *Metrics

	mu     sync.Mutex
	router *mux.Router
}

// NewServer returns a Server for dev. metrics may be nil.
func NewServer(dev ut181a.Device, version VersionInfo, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{dev: dev, version: version, metrics: metrics}

	router := mux.NewRouter()
	router.Use(s.instrument)

	router.HandleFunc("/version", s.versionInfo).Methods("GET")
	router.HandleFunc("/health", health).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	router.HandleFunc("/monitor", s.setMonitor).Methods("POST")
	router.HandleFunc("/hold", s.toggleHold).Methods("POST")
	router.HandleFunc("/minmax", s.setMinMax).Methods("POST")
	router.HandleFunc("/reference", s.setReference).Methods("POST")
	router.HandleFunc("/range", s.setRange).Methods("POST")
	router.HandleFunc("/mode", s.setMode).Methods("POST")
	router.HandleFunc("/measurement", s.getMeasurement).Methods("GET")

	router.HandleFunc("/saves", s.saveMeasurement).Methods("POST")
	router.HandleFunc("/saves", s.deleteAllSaved).Methods("DELETE")
	router.HandleFunc("/saves/count", s.savedCount).Methods("GET")
	router.HandleFunc("/saves/{index:[0-9]+}", s.getSaved).Methods("GET")
	router.HandleFunc("/saves/{index:[0-9]+}", s.deleteSaved).Methods("DELETE")

	router.HandleFunc("/records", s.startRecord).Methods("POST")
	router.HandleFunc("/records/current", s.stopRecord).Methods("DELETE")
	router.HandleFunc("/records/count", s.recordCount).Methods("GET")
	router.HandleFunc("/records/{index:[0-9]+}", s.getRecordInfo).Methods("GET")
	router.HandleFunc("/records/{index:[0-9]+}/data", s.getRecordData).Methods("GET")

	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs each request with its request ID and feeds the metrics
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		entry := log.WithFields(log.Fields{
			"request_id": r.Header.Get(RequestIDHeader),
			"method":     r.Method,
			"route":      route,
		})

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.metrics.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		entry.WithField("status", rec.status).Debugf("%s %s took %v", r.Method, r.URL.Path, elapsed)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.SetIndent("", "    ")
	if err := e.Encode(v); err != nil {
		log.Errorf("Can not encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := kindOf(err)
	status := http.StatusBadGateway
	switch kind {
	case kindProtocol, kindRange:
		status = http.StatusConflict
	case kindInput:
		status = http.StatusBadRequest
	}
	if kind != kindInput {
		s.metrics.DeviceErrors.WithLabelValues(kind).Inc()
	}
	log.Warnf("DMM request failed: %v", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) writeResult(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", ut181a.ErrInvalidInput, err))
		return false
	}
	return true
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (uint16, bool) {
	i, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 16)
	if err != nil || i == 0 {
		s.writeError(w, fmt.Errorf("%w: index %q", ut181a.ErrInvalidInput, mux.Vars(r)["index"]))
		return 0, false
	}
	return uint16(i), true
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) versionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.version)
}

func (s *Server) setMonitor(w http.ResponseWriter, r *http.Request) {
	var req onRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.On {
		err := s.dev.MonitorOn(r.Context())
		if err == nil {
			s.metrics.Monitoring.Set(1)
		}
		s.writeResult(w, err)
		return
	}
	err := s.dev.MonitorOff(r.Context())
	if err == nil {
		s.metrics.Monitoring.Set(0)
	}
	s.writeResult(w, err)
}

func (s *Server) toggleHold(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.ToggleHold(r.Context()))
}

func (s *Server) setMinMax(w http.ResponseWriter, r *http.Request) {
	var req onRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.SetMinMaxMode(r.Context(), req.On))
}

func (s *Server) setReference(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.SetReferenceValue(r.Context(), req.Value))
}

func (s *Server) setRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.SetRange(r.Context(), req.Range))
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.SetMode(r.Context(), req.Mode))
}

func (s *Server) getMeasurement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m, err := s.dev.Measurement(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := ut181a.EncodeRecord(m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.Measurements.Inc()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) saveMeasurement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.SaveMeasurement(r.Context()))
}

func (s *Server) deleteAllSaved(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.DeleteAllSavedMeasurements(r.Context()))
}

func (s *Server) savedCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n, err := s.dev.SavedMeasurementCount(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) getSaved(w http.ResponseWriter, r *http.Request) {
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	saved, err := s.dev.SavedMeasurement(r.Context(), i)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := ut181a.EncodeRecord(saved.Measurement)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{Timestamp: saved.Timestamp, Measurement: rec})
}

func (s *Server) deleteSaved(w http.ResponseWriter, r *http.Request) {
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.DeleteSavedMeasurement(r.Context(), i))
}

func (s *Server) startRecord(w http.ResponseWriter, r *http.Request) {
	var req startRecordRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.StartRecord(r.Context(), req.Name, req.Interval, req.Duration))
}

func (s *Server) stopRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeResult(w, s.dev.StopRecord(r.Context()))
}

func (s *Server) recordCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n, err := s.dev.RecordCount(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) getRecordInfo(w http.ResponseWriter, r *http.Request) {
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	info, err := s.dev.RecordInfo(r.Context(), i)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getRecordData(w http.ResponseWriter, r *http.Request) {
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	samples, err := s.dev.RecordData(r.Context(), i)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if samples == nil {
		samples = []ut181a.RecordSample{}
	}
	writeJSON(w, http.StatusOK, samples)
}
