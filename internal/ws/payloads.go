package ws

import "encoding/json"

// client → server
type MovePayload struct {
	Column *json.Number `json:"column"`
}

// server → client
type ReadyPayload struct {
	LobbyID int64  `json:"lobby_id"`
	GameID  uint64 `json:"game_id"`
	Player  int64  `json:"player"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
