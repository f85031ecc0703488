package model

// Contact represents a single address book entry owned by a user
type Contact struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	UserID int    `json:"user_id"`
}

// CreateContactRequest is used for creating a new contact
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,len=10,numeric"`
}

// UpdateContactRequest is used for updating an existing contact.
// The owner of a contact never changes through an update.
type UpdateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,len=10,numeric"`
}
