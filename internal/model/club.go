package model

import "time"

// ClubStatus tracks where a club is in its approval lifecycle.
type ClubStatus string

const (
	ClubStatusPending  ClubStatus = "pending"
	ClubStatusApproved ClubStatus = "approved"
	ClubStatusRejected ClubStatus = "rejected"
)

// Club is a club document. MemberCount and EventCount are advisory counters
// maintained exclusively by the server (reconciliation and event creation);
// they are never taken from client input. Membership documents remain the
// authoritative record; a counter may drift low on partial failure.
type Club struct {
	ID           string     `json:"id"           bson:"_id"`
	Name         string     `json:"name"         bson:"name"`
	Description  string     `json:"description"  bson:"description,omitempty"`
	Category     string     `json:"category"     bson:"category,omitempty"`
	BannerURL    string     `json:"bannerUrl"    bson:"bannerUrl,omitempty"`
	Fee          float64    `json:"fee"          bson:"fee"`
	ManagerEmail string     `json:"managerEmail" bson:"managerEmail"`
	Status       ClubStatus `json:"status"       bson:"status"`
	MemberCount  int64      `json:"memberCount"  bson:"memberCount"`
	EventCount   int64      `json:"eventCount"   bson:"eventCount"`
	CreatedAt    time.Time  `json:"createdAt"    bson:"createdAt"`
}
