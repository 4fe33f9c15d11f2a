package model

const (
	ActorUser   = "user"
	ActorTenant = "tenant"
)

type AccessToken struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}
