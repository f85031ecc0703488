package repository

import (
	"context"
	"errors"
	"fmt"

	"address_book/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContactRepository defines operations for contact data. It is the system
// of record; the cache layer above it only mirrors what it returns.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id int) (*model.Contact, error)
	FindAll(ctx context.Context) ([]model.Contact, error)
	Update(ctx context.Context, id int, contact *model.Contact) error
	Delete(ctx context.Context, id int) error
}

type contactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a new contact into the database
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (name, email, phone, user_id)
            VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Email, c.Phone, c.UserID).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by its ID
func (r *contactRepository) FindByID(ctx context.Context, id int) (*model.Contact, error) {
	c := &model.Contact{}
	sql := `SELECT id, name, email, phone, user_id FROM contacts WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

// FindAll retrieves every contact, ordered by id so the collection cache
// always holds the store's canonical ordering
func (r *contactRepository) FindAll(ctx context.Context) ([]model.Contact, error) {
	sql := `SELECT id, name, email, phone, user_id FROM contacts ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

// Update modifies the name, email and phone of an existing contact.
// Ownership never changes through an update.
func (r *contactRepository) Update(ctx context.Context, id int, c *model.Contact) error {
	sql := `UPDATE contacts SET name = $1, email = $2, phone = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, c.Name, c.Email, c.Phone, id)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact not found for update")
	}
	return nil
}

// Delete removes a contact from the database
func (r *contactRepository) Delete(ctx context.Context, id int) error {
	sql := `DELETE FROM contacts WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact not found for deletion")
	}
	return nil
}
