package model

const (
	EventUserRegistered = "UserRegistered"
	EventContactCreated = "ContactCreated"
)

// UserEvent is the payload published to the message broker for domain events
type UserEvent struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	EventType string `json:"event_type"`
}
