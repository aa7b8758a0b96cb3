package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"legislature/internal/engine"
	"legislature/internal/lobby"
	"legislature/internal/powers"
	"legislature/internal/protocol"
	"legislature/internal/store"
)

// Hub owns one game. Its Run loop is the only goroutine that touches the
// game, so actions for a game id are applied strictly one at a time.
type Hub struct {
	mu       sync.Mutex
	gameID   string
	lobby    *lobby.Lobby
	store    *store.GameStore
	metrics  *Metrics
	seed     uint64
	clients  map[*Client]bool
	finished bool

	eng    *engine.Engine
	deck   *engine.Deck
	roles  *engine.Assignment
	powers *powers.Resolver

	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a hub for a lobby. A zero seed draws a random one when the
// game starts.
func NewHub(gameID string, lob *lobby.Lobby, st *store.GameStore, m *Metrics, seed uint64) *Hub {
	return &Hub{
		gameID:     gameID,
		lobby:      lob,
		store:      st,
		metrics:    m,
		seed:       seed,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.connections.Inc()
			h.sendLobbyUpdate()
			h.sendStateToClient(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.release()
				h.metrics.connections.Dec()
			}
			h.mu.Unlock()
			if !h.lobby.IsStarted() && client.PlayerID != "" && !h.connected(client.PlayerID) {
				h.lobby.Leave(client.PlayerID)
				h.sendLobbyUpdate()
			}

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case <-h.quit:
			if h.eng != nil && !h.finished {
				h.metrics.activeGames.Dec()
			}
			h.dropClients()
			return
		}
	}
}

func (h *Hub) connected(playerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.PlayerID == playerID {
			return true
		}
	}
	return false
}

// dropClients releases every client so the write pumps say goodbye.
func (h *Hub) dropClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		h.metrics.connections.Dec()
		c.release()
	}
}

// Stop ends the Run loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Deliver queues a message for the Run loop.
func (h *Hub) Deliver(msg IncomingMessage) bool {
	select {
	case <-h.quit:
		return false
	default:
	}
	select {
	case h.incoming <- msg:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	// A message can still be queued after its client unregistered.
	h.mu.Lock()
	live := h.clients[msg.Client]
	h.mu.Unlock()
	if !live {
		return
	}
	if reason := msg.Client.check(msg); reason != "" {
		h.sendError(msg.Client, reason)
		return
	}

	switch msg.Envelope.Type {
	case protocol.MsgJoin:
		h.handleJoin(msg)
	case protocol.MsgReady:
		h.handleReady(msg)
	case protocol.MsgStartGame:
		h.handleStartGame(msg)
	default:
		h.handleGameAction(msg)
	}
}

// handleJoin seats a connection. A new seat gets a session token that only
// this connection learns; taking an existing seat back needs that token.
func (h *Hub) handleJoin(msg IncomingMessage) {
	var join protocol.JoinMsg
	if err := msg.Envelope.Decode(&join); err != nil {
		h.sendError(msg.Client, "invalid join message")
		return
	}
	if id := msg.Client.PlayerID; id != "" && id != join.PlayerID {
		h.sendError(msg.Client, "already seated as "+id)
		return
	}
	token := join.Token
	if token == "" {
		token = uuid.NewString()
	}
	if err := h.lobby.Join(join.PlayerID, join.Name, token); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	msg.Client.PlayerID = join.PlayerID
	msg.Client.Type = ClientPlayer
	msg.Client.SendEnvelope(protocol.MustEnvelope(protocol.MsgSession, protocol.Session{
		PlayerID: join.PlayerID,
		Token:    token,
	}))
	h.sendLobbyUpdate()
	h.sendStateToClient(msg.Client)
}

func (h *Hub) handleReady(msg IncomingMessage) {
	var ready protocol.ReadyMsg
	if err := msg.Envelope.Decode(&ready); err != nil {
		h.sendError(msg.Client, "invalid ready message")
		return
	}
	h.lobby.SetReady(msg.Client.PlayerID, ready.Ready)
	h.sendLobbyUpdate()
}

func (h *Hub) handleStartGame(msg IncomingMessage) {
	if err := h.lobby.CheckStart(msg.Client.PlayerID); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	state, err := h.startGame(msg.Client.PlayerID)
	if err != nil {
		log.Printf("hub %s: start failed: %v", h.gameID, err)
		h.sendError(msg.Client, err.Error())
		return
	}
	h.metrics.activeGames.Inc()
	h.sendLobbyUpdate()
	h.commit(engine.GameState{}, state)
}

// startGame seats the lobby, deals roles, builds the deck and opens the
// first nomination.
func (h *Hub) startGame(host string) (engine.GameState, error) {
	ids := h.lobby.PlayerIDs()
	state, err := engine.NewGame(h.gameID, ids)
	if err != nil {
		return state, err
	}
	if err := h.lobby.Start(host); err != nil {
		return state, err
	}
	state, err = engine.Start(state)
	if err != nil {
		return state, err
	}

	seed := h.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	roles, err := engine.AssignRoles(len(ids), rng)
	if err != nil {
		return state, err
	}
	h.roles = roles
	h.deck = engine.NewDeck(engine.StandardPolicies(), rng.Uint64())
	h.powers = powers.NewResolver(roles, h.deck)
	h.eng = engine.New(h.deck, roles, h.powers)

	return engine.RolesAssigned(state, rng.IntN(len(ids)))
}

func (h *Hub) handleGameAction(msg IncomingMessage) {
	state, ok := h.store.Get(h.gameID)
	if !ok || h.eng == nil {
		h.sendError(msg.Client, "game not started")
		return
	}

	action, err := parseAction(msg.Envelope)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	next, err := h.eng.Apply(state, msg.Client.PlayerID, action)
	h.metrics.observe(string(action.Type), err)
	if err != nil {
		h.powers.Discard()
		h.sendActionError(msg.Client, err)
		return
	}

	// Ballots are resolved as soon as the last living player has voted.
	if action.Type == engine.ActionVote {
		resolved, err := h.eng.ResolveVotes(next)
		switch {
		case err == nil:
			h.metrics.observe("resolve_votes", nil)
			next = resolved
		case errors.Is(err, engine.ErrVotesPending):
		default:
			h.metrics.observe("resolve_votes", err)
			log.Printf("hub %s: resolve votes: %v", h.gameID, err)
		}
	}

	if h.deck.EnsureAtLeast(engine.PresidentDraw) {
		h.metrics.reshuffles.Inc()
		log.Printf("hub %s: reshuffled discards, %d policies in deck", h.gameID, h.deck.Len())
	}

	president := state.PresidentSeat
	h.commit(state, next)
	if rv := h.powers.TakeReveal(); rv != nil {
		h.sendReveal(president, rv)
	}
}

// parseAction maps an envelope onto an engine action.
func parseAction(env protocol.Envelope) (engine.Action, error) {
	var m protocol.ActionMsg
	if err := env.Decode(&m); err != nil {
		return engine.Action{}, fmt.Errorf("invalid payload")
	}
	return engine.Action{
		Type:     engine.ActionType(env.Type),
		Target:   m.Target,
		Vote:     engine.Vote(m.Vote),
		PolicyID: m.PolicyID,
		Accept:   m.Accept,
	}, nil
}

// commit persists the new snapshot and tells everyone what changed.
func (h *Hub) commit(before, after engine.GameState) {
	h.store.Save(after)
	h.broadcastEvents(engine.Events(before, after))
	h.broadcastState()

	if after.Winner != nil && !h.finished {
		h.finished = true
		h.metrics.activeGames.Dec()
		h.metrics.gamesFinished.WithLabelValues(after.Winner.String()).Inc()
		log.Printf("hub %s: game over, %s win", h.gameID, after.Winner)
	}
}

func (h *Hub) broadcastEvents(events []engine.Event) {
	for _, ev := range events {
		h.broadcastAll(protocol.MustEnvelope(protocol.MsgEvent, ev))
	}
}

func (h *Hub) broadcastState() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.sendStateToClient(c)
	}
}

func (h *Hub) sendStateToClient(client *Client) {
	state, ok := h.store.Get(h.gameID)
	if !ok {
		return
	}
	var roles engine.RoleLookup
	deckSize := 0
	if h.roles != nil {
		roles = h.roles
		deckSize = h.deck.Len()
	}
	if client.Type == ClientTable || client.PlayerID == "" {
		client.SendEnvelope(protocol.MustEnvelope(protocol.MsgGameState, engine.PublicView(state, roles, deckSize)))
		return
	}
	view := engine.ViewFor(state, roles, deckSize, client.PlayerID)
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgPlayerState, view))
}

// sendReveal shows private power results to the president's connections only.
func (h *Hub) sendReveal(presidentSeat int, rv *powers.Reveal) {
	state, ok := h.store.Get(h.gameID)
	if !ok {
		return
	}
	president, ok := state.PlayerAt(presidentSeat)
	if !ok {
		return
	}
	env := protocol.MustEnvelope(protocol.MsgReveal, rv)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.Type == ClientPlayer && c.PlayerID == president.ID {
			c.SendEnvelope(env)
		}
	}
}

func (h *Hub) sendLobbyUpdate() {
	seats := h.lobby.Seats()
	lps := make([]protocol.LobbyPlayer, len(seats))
	for i, p := range seats {
		lps[i] = protocol.LobbyPlayer{ID: p.ID, Name: p.Name, Ready: p.Ready}
	}
	env := protocol.MustEnvelope(protocol.MsgLobbyUpdate, protocol.LobbyUpdate{
		GameID:  h.gameID,
		Players: lps,
		Host:    h.lobby.Host(),
		Started: h.lobby.IsStarted(),
	})
	h.broadcastAll(env)
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.enqueue(data)
	}
}

func (h *Hub) sendError(client *Client, message string) {
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{Message: message}))
}

// sendActionError reports a refused action. Rejections carry their reason;
// anything else is a server-side failure and is logged.
func (h *Hub) sendActionError(client *Client, err error) {
	var rej *engine.RejectedError
	if errors.As(err, &rej) {
		client.SendEnvelope(protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{
			Message: rej.Error(),
			Reason:  rej.Reason.Error(),
		}))
		return
	}
	log.Printf("hub %s: action from %s failed: %v", h.gameID, client.PlayerID, err)
	h.sendError(client, "internal error")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
