package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	qr "github.com/skip2/go-qrcode"

	"legislature/internal/config"
	"legislature/internal/engine"
	"legislature/internal/lobby"
	"legislature/internal/store"
)

const (
	qrSize          = 256
	maxSnapshotSize = 1 << 20
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	mu       sync.Mutex
	LobbyMgr *lobby.Manager
	Hubs     map[string]*Hub
	Store    *store.GameStore
	Metrics  *Metrics
	cfg      config.Config
	upgrader websocket.Upgrader
}

func NewHandlers(cfg config.Config, m *Metrics) *Handlers {
	h := &Handlers{
		LobbyMgr: lobby.NewManager(),
		Hubs:     make(map[string]*Hub),
		Store:    store.NewGameStore(cfg.HistoryLimit),
		Metrics:  m,
		cfg:      cfg,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Handlers) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range h.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (h *Handlers) hub(gameID string) (*Hub, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hub, ok := h.Hubs[gameID]
	return hub, ok
}

// HandleCreateGame creates a new game lobby and returns its ID.
func (h *Handlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gameID := h.LobbyMgr.Create()
	hub := NewHub(gameID, h.LobbyMgr.Get(gameID), h.Store, h.Metrics, h.cfg.DeckSeed)
	h.mu.Lock()
	h.Hubs[gameID] = hub
	h.mu.Unlock()
	go hub.Run()

	log.Printf("created game %s, %d open", gameID, h.LobbyMgr.Count())
	writeJSON(w, http.StatusCreated, map[string]string{"game_id": gameID})
}

// HandleQR generates a QR code PNG for joining the game.
func (h *Handlers) HandleQR(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	if _, ok := h.hub(gameID); !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	png, err := qr.Encode(h.joinURL(r, gameID), qr.Medium, qrSize)
	if err != nil {
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handlers) joinURL(r *http.Request, gameID string) string {
	base := h.cfg.PublicURL
	if base == "" {
		base = "http://" + r.Host
	}
	return fmt.Sprintf("%s/join?game=%s", base, url.QueryEscape(gameID))
}

// HandleState returns the public view of a game.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	state, ok := h.Store.Get(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, engine.PublicView(state, nil, 0))
}

// HandleHistory returns the public view of every retained snapshot of a
// game, oldest first. Roles stay hidden until the game is over.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	history := h.Store.History(gameID)
	if len(history) == 0 {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	views := make([]engine.PublicViewData, len(history))
	for i, state := range history {
		views[i] = engine.PublicView(state, nil, 0)
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleSnapshot exports a finished game on GET and archives an uploaded
// snapshot on POST. Games still in progress cannot be exported since their
// snapshot holds the legislative hands.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		gameID := r.URL.Query().Get("game")
		state, ok := h.Store.Get(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		if !state.Over() {
			http.Error(w, "game in progress", http.StatusConflict)
			return
		}
		data, err := h.Store.Export(gameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)

	case http.MethodPost:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotSize))
		if err != nil {
			http.Error(w, "read body failed", http.StatusBadRequest)
			return
		}
		if _, ok := h.hub(snapshotID(data)); ok {
			http.Error(w, "game is live", http.StatusConflict)
			return
		}
		state, err := h.Store.Import(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("archived snapshot of game %s (%s)", state.GameID, state.Phase)
		writeJSON(w, http.StatusCreated, map[string]string{"game_id": state.GameID})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func snapshotID(data []byte) string {
	var head struct {
		GameID string `json:"game_id"`
	}
	json.Unmarshal(data, &head)
	return head.GameID
}

// HandleDeleteGame stops a game's hub and forgets everything about it.
func (h *Handlers) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gameID := r.URL.Query().Get("game")
	h.mu.Lock()
	hub, ok := h.Hubs[gameID]
	delete(h.Hubs, gameID)
	h.mu.Unlock()
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	hub.Stop()
	h.LobbyMgr.Remove(gameID)
	h.Store.Delete(gameID)
	log.Printf("deleted game %s, %d open", gameID, h.LobbyMgr.Count())
	w.WriteHeader(http.StatusNoContent)
}

// HandleWS handles WebSocket connections.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	clientType := r.URL.Query().Get("type") // "table" or "player"

	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	hub, ok := h.hub(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	ct := ClientPlayer
	if clientType == "table" {
		ct = ClientTable
	}

	client := NewClient(hub, conn, ct)
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// HandlePlayerID returns a new player ID.
func (h *Handlers) HandlePlayerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(uuid.NewString()))
}

// Close stops every hub.
func (h *Handlers) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, hub := range h.Hubs {
		hub.Stop()
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
