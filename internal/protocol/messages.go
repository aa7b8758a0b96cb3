package protocol

// Message types: Server → Client
const (
	MsgLobbyUpdate = "lobby_update"
	MsgGameState   = "game_state"
	MsgPlayerState = "player_state"
	MsgSession     = "session"
	MsgReveal      = "reveal"
	MsgError       = "error"
	MsgEvent       = "event"
)

// Message types: Client → Server
const (
	MsgJoin      = "join"
	MsgReady     = "ready"
	MsgStartGame = "start_game"
	// In-game actions use the same names as engine ActionType
	MsgNominate     = "nominate"
	MsgVote         = "vote"
	MsgDiscard      = "discard"
	MsgEnact        = "enact"
	MsgVeto         = "veto"
	MsgVetoResponse = "veto_response"
	MsgPower        = "power"
)

// LobbyUpdate is sent to all clients when lobby state changes.
type LobbyUpdate struct {
	GameID  string        `json:"game_id"`
	Players []LobbyPlayer `json:"players"`
	Host    string        `json:"host,omitempty"`
	Started bool          `json:"started"`
}

type LobbyPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// JoinMsg is sent by a player to join the game. Token is empty on the
// first join and carries the session token when reclaiming a seat.
type JoinMsg struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Token    string `json:"token,omitempty"`
}

// Session is sent only to the connection that joined. The token is the
// player's credential; the player id is public.
type Session struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}

// ReadyMsg is sent by a player to toggle ready state.
type ReadyMsg struct {
	Ready bool `json:"ready"`
}

// ActionMsg carries the parameters of any in-game action.
type ActionMsg struct {
	Target   *int   `json:"target,omitempty"`
	Vote     string `json:"vote,omitempty"`
	PolicyID string `json:"policy_id,omitempty"`
	Accept   bool   `json:"accept,omitempty"`
}

// ErrorMsg is sent to a client on error. Reason is set for rejected actions.
type ErrorMsg struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

var clientMessages = map[string]bool{
	MsgJoin: true, MsgReady: true, MsgStartGame: true,
	MsgNominate: true, MsgVote: true, MsgDiscard: true, MsgEnact: true,
	MsgVeto: true, MsgVetoResponse: true, MsgPower: true,
}

// IsClientMessage reports whether clients may send messages of this type.
func IsClientMessage(typ string) bool {
	return clientMessages[typ]
}
