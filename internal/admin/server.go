package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"hetnet-sim/internal/sim"
)

// Server exposes a small operations UI and JSON endpoints over the running
// simulator. It owns no simulation logic.
type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
	mux *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

// NewServer builds the admin server around a simulator.
func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	s := &Server{Sim: simulator, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/attachments", s.handleAttachments)
	s.mux.HandleFunc("/energy", s.handleEnergy)
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/topology", s.handleTopology)
	s.mux.HandleFunc("/toggle-surge", s.handleToggleSurge)
	s.mux.HandleFunc("/add-terminals", s.handleAddTerminals)
}

// Start serves until the context is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		State  any
		Health []sim.GroupHealth
		Surge  bool
	}{
		State:  s.Sim.TickState(),
		Health: s.Sim.Health(),
		Surge:  s.Sim.Surge(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleAttachments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.AttachmentSnapshot())
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.EnergySnapshot())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.TickState())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Health())
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	cells, terminals := s.Sim.Topology()
	cellLabels, terminalLabels := sim.GnuplotTopology(cells, terminals, s.Sim.GetConfig().TechPriority())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(cellLabels))
	w.Write([]byte(terminalLabels))
}

func (s *Server) handleToggleSurge(w http.ResponseWriter, r *http.Request) {
	state := s.Sim.ToggleSurge()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"surge": state})
}

func (s *Server) handleAddTerminals(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = 1
	}
	if err := s.Sim.AddTerminals(group, count); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
