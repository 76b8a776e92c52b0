package models

type School struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
