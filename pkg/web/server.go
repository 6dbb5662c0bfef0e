package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/tlindh/graphmatch/pkg/logging"
	"github.com/tlindh/graphmatch/pkg/model"
	"github.com/tlindh/graphmatch/pkg/pubsub"
	"github.com/tlindh/graphmatch/pkg/solution"
)

//go:embed static/*
var staticFiles embed.FS

// ProblemInfo summarizes the loaded matching problem for the UI
type ProblemInfo struct {
	Kind            string `json:"kind"` // "subgraph" or "ged"
	PatternVertices int    `json:"pattern_vertices"`
	PatternEdges    int    `json:"pattern_edges"`
	TargetVertices  int    `json:"target_vertices"`
	TargetEdges     int    `json:"target_edges"`
}

// Server serves the latest matching result and streams solve progress
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu       sync.RWMutex
	problem  *ProblemInfo
	status   *pubsub.SolveStatus
	matching *pubsub.MatchingData
}

// NewServer creates a new web server
func NewServer() *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// solve_status: buffer last 10 events, replay only the current state
	ssePublisher.ConfigureTopic("solve_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// matching: new subscribers get the most recent result
	ssePublisher.ConfigureTopic("matching", pubsub.TopicConfig{
		BufferSize: 1,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// SetProblem stores a summary of the currently loaded problem
func (s *Server) SetProblem(pb *model.Problem) {
	kind := "subgraph"
	if pb.Kind() == model.GraphEditDistance {
		kind = "ged"
	}
	info := &ProblemInfo{
		Kind:            kind,
		PatternVertices: pb.Pattern().Order(),
		PatternEdges:    pb.Pattern().Size(),
		TargetVertices:  pb.Target().Order(),
		TargetEdges:     pb.Target().Size(),
	}

	s.mu.Lock()
	s.problem = info
	s.mu.Unlock()
}

// PublishSolveStatus publishes a solve progress event
func (s *Server) PublishSolveStatus(state, message string) error {
	status := pubsub.SolveStatus{
		State:   state,
		Message: message,
	}

	s.mu.Lock()
	s.status = &status
	s.mu.Unlock()

	return s.publisher.Publish("solve_status", state, status)
}

// PublishMatching publishes a completed matching result
func (s *Server) PublishMatching(status string, m *solution.Matching, elapsedMs int64) error {
	data := pubsub.MatchingData{
		Status:            status,
		Objective:         m.Objective,
		IsSubgraph:        m.IsSubgraph(),
		UnmatchedVertices: m.UnmatchedPatternVertices,
		UnmatchedEdges:    m.UnmatchedPatternEdges,
		ElapsedMs:         elapsedMs,
	}

	s.mu.Lock()
	s.matching = &data
	s.mu.Unlock()

	return s.publisher.Publish("matching", "solved", data)
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/solve_status", s.subscribeHandler("solve_status")).Methods("GET")
	s.router.HandleFunc("/api/subscribe/matching", s.subscribeHandler("matching")).Methods("GET")

	// API routes
	s.router.HandleFunc("/api/problem", s.handleProblem).Methods("GET")
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/api/matching", s.handleMatching).Methods("GET")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("embedded static files missing", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// subscribeHandler returns an SSE handler that streams events for a topic
func (s *Server) subscribeHandler(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// Initial comment establishes the connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "error writing SSE event", "topic", topic, "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleProblem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	problem := s.problem
	s.mu.RUnlock()

	if problem == nil {
		http.Error(w, "no problem loaded", http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(problem)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status == nil {
		json.NewEncoder(w).Encode(pubsub.SolveStatus{State: "idle"})
		return
	}

	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleMatching(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	matching := s.matching
	s.mu.RUnlock()

	if matching == nil {
		http.Error(w, "no matching result available", http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(matching)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close shuts down the event publisher
func (s *Server) Close() error {
	return s.publisher.Close()
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
