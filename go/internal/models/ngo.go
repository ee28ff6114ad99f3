package models

import "encoding/json"

// NGO is the beneficiary organisation summary the backend embeds in auctions
// and withdrawal requests.
type NGO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	IsVerified bool     `json:"isVerified,omitempty"`
	Domains    []string `json:"domains,omitempty"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (n *NGO) UnmarshalJSON(data []byte) error {
	type alias NGO
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = aux.MongoID
	}
	return nil
}
