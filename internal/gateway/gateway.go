// Package gateway serves the cipherform core over HTTP: a JSON API for
// one-shot submissions and a websocket endpoint that drives a live form
// session.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go"
	"github.com/cnslab/cipherform-go/algorithm"
)

const (
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server is the gateway HTTP server.
type Server struct {
	client   *cipherform.Client
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	router   *mux.Router
	pongWait time.Duration
}

// New creates a gateway in front of client. Metrics are served from
// gatherer when it is non-nil.
func New(client *cipherform.Client, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		client:   client,
		logger:   logger,
		gatherer: gatherer,
		pongWait: defaultPongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("cipherform gateway"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/algorithms", s.handleAlgorithms).Methods(http.MethodGet)
	api.HandleFunc("/check", s.handleCheck).Methods(http.MethodPost)
	api.HandleFunc("/{operation:encrypt|decrypt}", s.handleSubmit).Methods(http.MethodPost)

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.HandleFunc("/ws", s.handleWebSocket)
	return router
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// algorithmView is the JSON form of a registry entry.
type algorithmView struct {
	Name             algorithm.Name `json:"name"`
	DisplayName      string         `json:"display_name"`
	RequiresKey      bool           `json:"requires_key"`
	KeyLengths       []int          `json:"key_lengths,omitempty"`
	DynamicKeyLength bool           `json:"dynamic_key_length"`
	WeakKeyCheck     bool           `json:"weak_key_check"`
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	specs := algorithm.All()
	views := make([]algorithmView, 0, len(specs))
	for _, spec := range specs {
		views = append(views, algorithmView{
			Name:             spec.Name,
			DisplayName:      spec.DisplayName,
			RequiresKey:      spec.RequiresKey,
			KeyLengths:       spec.KeyLengths,
			DynamicKeyLength: spec.DynamicKeyLength,
			WeakKeyCheck:     spec.WeakKeyCheck != nil,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// requestBody is the JSON body accepted by the submit and check endpoints.
type requestBody struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	Algorithm string `json:"algorithm"`
	Operation string `json:"operation,omitempty"`
}

// state converts the body to a State. Unrecognized algorithm names are kept
// verbatim so validation reports them.
func (b *requestBody) state(op algorithm.Operation) *algorithm.State {
	name, err := algorithm.Parse(b.Algorithm)
	if err != nil {
		name = algorithm.Name(b.Algorithm)
	}
	return &algorithm.State{
		Message:   b.Message,
		Key:       b.Key,
		Algorithm: name,
		Operation: op,
	}
}

type submitResponse struct {
	Result    string `json:"result"`
	Empty     bool   `json:"empty,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Status int    `json:"backend_status,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	op := algorithm.Operation(mux.Vars(r)["operation"])

	var body requestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body", Kind: "request"})
		return
	}

	res, err := s.client.Submit(r.Context(), body.state(op))
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Result:    res.Text,
		Empty:     res.Empty,
		RequestID: res.RequestID,
	})
}

type checkResponse struct {
	algorithm.Outcome
	KeyHint string `json:"key_hint"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body", Kind: "request"})
		return
	}

	op := algorithm.Encrypt
	if body.Operation != "" {
		parsed, err := algorithm.ParseOperation(body.Operation)
		if err != nil {
			parsed = algorithm.Operation(body.Operation)
		}
		op = parsed
	}
	st := body.state(op)
	writeJSON(w, http.StatusOK, checkResponse{
		Outcome: algorithm.Check(st),
		KeyHint: algorithm.KeyHint(st),
	})
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: cipherform.ReasonOf(err)}
	status := http.StatusBadGateway

	var be *cipherform.BackendError
	switch {
	case errors.Is(err, cipherform.ErrValidation):
		resp.Kind = "validation"
		status = http.StatusUnprocessableEntity
	case errors.As(err, &be):
		resp.Kind = "backend"
		resp.Status = be.StatusCode
	case errors.Is(err, cipherform.ErrTransport):
		resp.Kind = "transport"
		status = http.StatusServiceUnavailable
	default:
		resp.Kind = "internal"
		status = http.StatusInternalServerError
		s.logger.Error("unexpected submit error", zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
