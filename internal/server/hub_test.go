package server

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"legislature/internal/engine"
	"legislature/internal/lobby"
	"legislature/internal/protocol"
	"legislature/internal/store"
)

func newTestHub(t *testing.T) (*Hub, *store.GameStore, *Metrics) {
	t.Helper()
	st := store.NewGameStore(0)
	m := NewMetrics(prometheus.NewRegistry())
	return NewHub("g1", lobby.NewLobby("g1"), st, m, 7), st, m
}

// attach adds a client without a connection; the hub only ever writes to
// its send channel.
func attach(h *Hub) *Client {
	c := NewClient(h, nil, ClientPlayer)
	c.send = make(chan []byte, 1024)
	h.clients[c] = true
	return c
}

func send(t *testing.T, h *Hub, c *Client, typ string, payload interface{}) {
	t.Helper()
	env, err := protocol.NewEnvelope(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	h.handleMessage(IncomingMessage{Client: c, Envelope: env})
}

func drain(c *Client) []protocol.Envelope {
	var out []protocol.Envelope
	for {
		select {
		case data := <-c.send:
			var env protocol.Envelope
			if err := json.Unmarshal(data, &env); err == nil {
				out = append(out, env)
			}
		default:
			return out
		}
	}
}

func lastOf(t *testing.T, c *Client, typ string, v interface{}) bool {
	t.Helper()
	envs := drain(c)
	for i := len(envs) - 1; i >= 0; i-- {
		if envs[i].Type == typ {
			if err := envs[i].Decode(v); err != nil {
				t.Fatal(err)
			}
			return true
		}
	}
	return false
}

func startedHub(t *testing.T) (*Hub, *store.GameStore, *Metrics, map[string]*Client) {
	t.Helper()
	h, st, m := newTestHub(t)
	clients := make(map[string]*Client)
	for _, id := range []string{"p0", "p1", "p2", "p3", "p4"} {
		c := attach(h)
		send(t, h, c, protocol.MsgJoin, protocol.JoinMsg{PlayerID: id, Name: id})
		send(t, h, c, protocol.MsgReady, protocol.ReadyMsg{Ready: true})
		clients[id] = c
	}
	send(t, h, clients["p0"], protocol.MsgStartGame, nil)
	if _, ok := st.Get("g1"); !ok {
		t.Fatal("game did not start")
	}
	return h, st, m, clients
}

func TestActionBeforeStart(t *testing.T) {
	h, _, _ := newTestHub(t)
	c := attach(h)
	send(t, h, c, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p0", Name: "Ann"})
	send(t, h, c, protocol.MsgVote, protocol.ActionMsg{Vote: "JA"})

	var msg protocol.ErrorMsg
	if !lastOf(t, c, protocol.MsgError, &msg) || msg.Message != "game not started" {
		t.Errorf("error: %+v", msg)
	}
}

func TestStartNeedsReadyPlayers(t *testing.T) {
	h, st, _ := newTestHub(t)
	c := attach(h)
	send(t, h, c, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p0", Name: "Ann"})
	send(t, h, c, protocol.MsgStartGame, nil)

	var msg protocol.ErrorMsg
	if !lastOf(t, c, protocol.MsgError, &msg) {
		t.Fatal("expected an error")
	}
	if _, ok := st.Get("g1"); ok {
		t.Error("game should not have started")
	}
}

func TestGovernmentOverHub(t *testing.T) {
	h, st, m, clients := startedHub(t)
	state, _ := st.Get("g1")
	if state.Phase != engine.PhaseNomination {
		t.Fatalf("expected NOMINATION, got %s", state.Phase)
	}
	if got := testutil.ToFloat64(m.activeGames); got != 1 {
		t.Errorf("active games: %v", got)
	}

	president := state.Players[state.PresidentSeat].ID
	bystander := state.Players[(state.PresidentSeat+1)%5].ID
	candidate := engine.EligibleChancellors(state)[0]
	chancellor := state.Players[candidate].ID

	send(t, h, clients[bystander], protocol.MsgNominate, protocol.ActionMsg{Target: &candidate})
	var msg protocol.ErrorMsg
	if !lastOf(t, clients[bystander], protocol.MsgError, &msg) || msg.Reason != engine.ErrNotYourTurn.Error() {
		t.Fatalf("bystander nomination: %+v", msg)
	}

	send(t, h, clients[president], protocol.MsgNominate, protocol.ActionMsg{Target: &candidate})
	for _, id := range []string{"p0", "p1", "p2", "p3", "p4"} {
		send(t, h, clients[id], protocol.MsgVote, protocol.ActionMsg{Vote: "JA"})
	}

	state, _ = st.Get("g1")
	if state.Phase != engine.PhaseLegislativePresident {
		t.Fatalf("expected LEGISLATIVE_PRESIDENT after the last vote, got %s", state.Phase)
	}
	var view engine.PlayerViewData
	if !lastOf(t, clients[president], protocol.MsgPlayerState, &view) || len(view.Hand) != 3 {
		t.Fatalf("president view hand: %v", view.Hand)
	}
	var other engine.PlayerViewData
	if !lastOf(t, clients[bystander], protocol.MsgPlayerState, &other) || other.Hand != nil {
		t.Errorf("bystander sees a hand: %v", other.Hand)
	}

	send(t, h, clients[president], protocol.MsgDiscard, protocol.ActionMsg{PolicyID: state.PresidentHand[0].ID})
	state, _ = st.Get("g1")
	send(t, h, clients[chancellor], protocol.MsgEnact, protocol.ActionMsg{PolicyID: state.ChancellorHand[0].ID})

	state, _ = st.Get("g1")
	if state.LiberalPolicies+state.FascistPolicies != 1 || state.Phase != engine.PhaseNomination {
		t.Fatalf("after enactment: %d/%d in %s", state.LiberalPolicies, state.FascistPolicies, state.Phase)
	}
	if got := len(st.History("g1")); got != 9 {
		t.Errorf("history: got %d snapshots, want 9", got)
	}

	checks := []struct {
		action, outcome string
		want            float64
	}{
		{"nominate", "rejected", 1},
		{"nominate", "accepted", 1},
		{"vote", "accepted", 5},
		{"resolve_votes", "accepted", 1},
		{"discard", "accepted", 1},
		{"enact", "accepted", 1},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(m.transitions.WithLabelValues(c.action, c.outcome)); got != c.want {
			t.Errorf("%s/%s: got %v, want %v", c.action, c.outcome, got, c.want)
		}
	}
}

func TestDisconnectLeavesLobby(t *testing.T) {
	h, _, m := newTestHub(t)
	go h.Run()
	defer h.Stop()

	if err := h.lobby.Join("p0", "Ann", "secret"); err != nil {
		t.Fatal(err)
	}
	c := NewClient(h, nil, ClientPlayer)
	c.PlayerID = "p0"
	h.Register(c)
	h.Unregister(c)
	// Run handles one message at a time, so the unregister is done once
	// the next register goes through.
	h.Register(NewClient(h, nil, ClientTable))

	if n := len(h.lobby.Seats()); n != 0 {
		t.Errorf("lobby still holds %d players", n)
	}
	if n := h.ClientCount(); n != 1 {
		t.Errorf("client count: %d", n)
	}
	if got := testutil.ToFloat64(m.connections); got != 1 {
		t.Errorf("connections gauge: %v", got)
	}
}

func TestClientCheck(t *testing.T) {
	table := &Client{Type: ClientTable}
	player := &Client{Type: ClientPlayer, PlayerID: "p0"}
	tests := []struct {
		client    *Client
		typ       string
		malformed bool
		allowed   bool
	}{
		{table, protocol.MsgJoin, false, true},
		{table, protocol.MsgVote, false, false},
		{player, protocol.MsgVote, false, true},
		{player, protocol.MsgPower, false, true},
		{player, protocol.MsgGameState, false, false},
		{player, protocol.MsgSession, false, false},
		{player, "shuffle", false, false},
		{player, "", true, false},
	}
	for _, tt := range tests {
		msg := IncomingMessage{Client: tt.client, Envelope: protocol.Envelope{Type: tt.typ}, Malformed: tt.malformed}
		if got := tt.client.check(msg) == ""; got != tt.allowed {
			t.Errorf("%s sending %q: allowed %v, want %v", tt.client.name(), tt.typ, got, tt.allowed)
		}
	}
}

func TestTableDisplayJoinsBeforeActing(t *testing.T) {
	h, _, _ := newTestHub(t)
	c := attach(h)
	c.Type = ClientTable

	send(t, h, c, protocol.MsgReady, protocol.ReadyMsg{Ready: true})
	var msg protocol.ErrorMsg
	if !lastOf(t, c, protocol.MsgError, &msg) || msg.Message != "the table display cannot act" {
		t.Fatalf("table ready: %+v", msg)
	}

	send(t, h, c, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p0", Name: "Ann"})
	send(t, h, c, protocol.MsgReady, protocol.ReadyMsg{Ready: true})
	if c.Type != ClientPlayer {
		t.Fatalf("client type after join: %s", c.Type)
	}
	if seats := h.lobby.Seats(); len(seats) != 1 || !seats[0].Ready {
		t.Errorf("seats: %+v", seats)
	}
}

func TestDepartedClientIsIgnored(t *testing.T) {
	h, _, _ := newTestHub(t)
	c := attach(h)
	delete(h.clients, c)
	c.release()

	send(t, h, c, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p0", Name: "Ann"})
	if n := len(h.lobby.Seats()); n != 0 {
		t.Errorf("a departed client took a seat")
	}
	if envs := drain(c); len(envs) != 0 {
		t.Errorf("departed client was sent %d messages", len(envs))
	}
}

func TestStopReleasesClients(t *testing.T) {
	h, _, m := newTestHub(t)
	go h.Run()

	c := NewClient(h, nil, ClientTable)
	h.Register(c)
	h.Stop()
	<-c.done
	if got := testutil.ToFloat64(m.connections); got != 0 {
		t.Errorf("connections gauge after stop: %v", got)
	}
	if h.Register(NewClient(h, nil, ClientTable)) {
		t.Error("a stopped hub accepted a client")
	}

	drain(c)
	h.sendError(c, "malformed message")
	if envs := drain(c); len(envs) != 0 {
		t.Errorf("released client was sent %d messages", len(envs))
	}
	if h.Deliver(IncomingMessage{Client: c, Malformed: true}) {
		t.Error("a stopped hub accepted a message")
	}
}

func sessionOf(t *testing.T, c *Client) protocol.Session {
	t.Helper()
	var sess protocol.Session
	for _, env := range drain(c) {
		if env.Type == protocol.MsgSession {
			if err := env.Decode(&sess); err != nil {
				t.Fatal(err)
			}
		}
	}
	return sess
}

func TestJoinIssuesSession(t *testing.T) {
	h, _, _ := newTestHub(t)
	ann, bob := attach(h), attach(h)
	send(t, h, ann, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p0", Name: "Ann"})

	sess := sessionOf(t, ann)
	if sess.PlayerID != "p0" || sess.Token == "" {
		t.Fatalf("session: %+v", sess)
	}
	for _, env := range drain(bob) {
		if env.Type == protocol.MsgSession {
			t.Error("another connection saw the session token")
		}
	}

	send(t, h, ann, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p1", Name: "Ann"})
	var msg protocol.ErrorMsg
	if !lastOf(t, ann, protocol.MsgError, &msg) || msg.Message != "already seated as p0" {
		t.Errorf("second identity: %+v", msg)
	}
}

func TestSeatCannotBeClaimedWithoutToken(t *testing.T) {
	h, st, _, clients := startedHub(t)
	sess := sessionOf(t, clients["p3"])

	outsider := attach(h)
	for _, token := range []string{"", "p3", "guess"} {
		send(t, h, outsider, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p3", Name: "p3", Token: token})
	}
	target := 1
	send(t, h, outsider, protocol.MsgNominate, protocol.ActionMsg{Target: &target})

	state, _ := st.Get("g1")
	candidate := engine.EligibleChancellors(state)[0]
	president := clients[state.Players[state.PresidentSeat].ID]
	send(t, h, president, protocol.MsgNominate, protocol.ActionMsg{Target: &candidate})

	refusals, views := 0, 0
	for _, env := range drain(outsider) {
		switch env.Type {
		case protocol.MsgPlayerState, protocol.MsgSession, protocol.MsgReveal:
			t.Fatalf("outsider received %s", env.Type)
		case protocol.MsgGameState:
			var view engine.PublicViewData
			if err := env.Decode(&view); err != nil {
				t.Fatal(err)
			}
			views++
			for _, p := range view.Players {
				if p.Role != "" {
					t.Fatalf("outsider sees the role of seat %d", p.Seat)
				}
			}
		case protocol.MsgError:
			refusals++
		}
	}
	if refusals != 4 || views == 0 {
		t.Errorf("outsider got %d refusals and %d public views", refusals, views)
	}
	if outsider.PlayerID != "" {
		t.Errorf("outsider became %q", outsider.PlayerID)
	}

	back := attach(h)
	send(t, h, back, protocol.MsgJoin, protocol.JoinMsg{PlayerID: "p3", Name: "p3", Token: sess.Token})
	var view engine.PlayerViewData
	if !lastOf(t, back, protocol.MsgPlayerState, &view) || view.Seat != 3 || view.Role == "" {
		t.Errorf("reconnect with token: %+v", view)
	}
}
