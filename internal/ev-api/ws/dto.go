package ws

// ChannelPicks é o canal lógico do feed de picks de EV alto.
const ChannelPicks = "picks"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Channel: obrigatório para subscribe/unsubscribe (hoje só "picks")
type ClientMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}
