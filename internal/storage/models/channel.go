package models

// Channel is an upstream provider account that served requests.
type Channel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
