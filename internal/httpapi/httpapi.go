// Package httpapi exposes a node's debug and operational surface over
// HTTP: a health check, a JSON dump of the tangle and of its tip set, and
// the prometheus scrape endpoint, routed with gorilla/mux following
// quidnug's handlers.go layout of one method per route, all registered in
// New; Start only begins listening.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/internal/tangle"
)

// Server serves the debug/admin surface for one node.
type Server struct {
	engine *tangle.Engine
	log    *logrus.Entry
	srv    *http.Server
}

// New builds a Server bound to addr. Start must be called to actually
// listen; addr == "" means the surface is disabled entirely.
func New(addr string, engine *tangle.Engine, log *logrus.Entry) *Server {
	s := &Server{engine: engine, log: log}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.HandleFunc("/debug/dump", s.handleDump).Methods("GET")
	router.HandleFunc("/debug/tips", s.handleTips).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.srv = &http.Server{Addr: addr, Handler: router}
	return s
}

// Start begins listening in the background. A no-op if addr was empty.
func (s *Server) Start() {
	if s.srv.Addr == "" {
		return
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Warnf("httpapi: server stopped: %s", err)
		}
	}()
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.srv.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
	})
}

type nodeView struct {
	Hash             string   `json:"hash"`
	Parents          []string `json:"parents"`
	Children         []string `json:"children"`
	MiningDifficulty uint8    `json:"miningDifficulty"`
	CumulativeWeight float64  `json:"cumulativeWeight"`
	IsGenesis        bool     `json:"isGenesis"`
	IsTip            bool     `json:"isTip"`
}

func toView(n *dag.Node) nodeView {
	v := nodeView{
		Hash:             n.Hash().String(),
		MiningDifficulty: n.Tx.MiningDifficulty,
		CumulativeWeight: n.CumulativeWeight(),
		IsGenesis:        n.IsGenesis,
		IsTip:            n.IsTip(),
	}
	for _, p := range n.Parents() {
		v.Parents = append(v.Parents, p.Hash().String())
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, c.Hash().String())
	}
	return v
}

// handleDump serves every node currently in the graph, unordered, the
// JSON counterpart of Engine's own DebugDump printout.
func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	nodes := s.engine.ListTransactions()
	views := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, toView(n))
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(views),
		"nodes": views,
	})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	tips := s.engine.Tips()
	views := make([]nodeView, 0, len(tips))
	for _, n := range tips {
		views = append(views, toView(n))
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(views),
		"tips":  views,
	})
}
