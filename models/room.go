package models

type Room struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Rank float64 `json:"rank"`
}

// RoomCheckIn records that a room is usable for a given in-round number.
// Round number zero is used for outround availability.
type RoomCheckIn struct {
	RoomID      int `json:"room_id"`
	RoundNumber int `json:"round_number"`
}
