package model

import "time"

// Event is an event hosted by a club. Creating an event increments the owning
// club's eventCount; registering for one does not touch any counter; only the
// registration document is written.
type Event struct {
	ID           string    `json:"id"           bson:"_id"`
	ClubID       string    `json:"clubId"       bson:"clubId"`
	Title        string    `json:"title"        bson:"title"`
	Description  string    `json:"description"  bson:"description,omitempty"`
	Location     string    `json:"location"     bson:"location,omitempty"`
	Fee          float64   `json:"fee"          bson:"fee"`
	ManagerEmail string    `json:"managerEmail" bson:"managerEmail"`
	StartsAt     time.Time `json:"startsAt"     bson:"startsAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"    bson:"createdAt"`
}
