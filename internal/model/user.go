package model

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Points uint64 `json:"points"`
	Level  int    `json:"level"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
