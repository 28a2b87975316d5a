package model

import "time"

// MemberStatus is the lifecycle state of a membership or registration.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusExpired MemberStatus = "expired"
)

// PaymentType discriminates what a checkout session is paying for. It travels
// through the payment provider's session metadata and decides which record the
// reconciliation step creates.
type PaymentType string

const (
	PaymentTypeClubMembership    PaymentType = "clubMembership"
	PaymentTypeEventRegistration PaymentType = "eventRegistration"
)

// ClubMembership joins a participant to a club.
//
// At most one document may exist per (clubId, participantEmail). The invariant
// is enforced by a find-then-insert sequence, optionally backed by a compound
// unique index (see repository/mongo). PaymentID is empty for free joins.
type ClubMembership struct {
	ClubID           string       `json:"clubId"           bson:"clubId"`
	ClubName         string       `json:"clubName"         bson:"clubName,omitempty"`
	ParticipantEmail string       `json:"participantEmail" bson:"participantEmail"`
	Status           MemberStatus `json:"status"           bson:"status"`
	PaymentID        string       `json:"paymentId"        bson:"paymentId,omitempty"`
	JoinedAt         time.Time    `json:"joinedAt"         bson:"joinedAt"`
}

// EventRegistration joins a participant to an event. Same shape and same
// at-most-one invariant as ClubMembership, keyed by event instead of club.
type EventRegistration struct {
	EventID          string       `json:"eventId"          bson:"eventId"`
	EventName        string       `json:"eventName"        bson:"eventName,omitempty"`
	ClubID           string       `json:"clubId"           bson:"clubId,omitempty"`
	EventManager     string       `json:"eventManager"     bson:"eventManager,omitempty"`
	ParticipantEmail string       `json:"participantEmail" bson:"participantEmail"`
	Status           MemberStatus `json:"status"           bson:"status"`
	PaymentID        string       `json:"paymentId"        bson:"paymentId,omitempty"`
	JoinedAt         time.Time    `json:"joinedAt"         bson:"joinedAt"`
}
