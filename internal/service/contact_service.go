package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"address_book/internal/authz"
	"address_book/internal/cache"
	"address_book/internal/messaging"
	"address_book/internal/model"
	"address_book/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrForbidden       = errors.New("forbidden: user does not have permission for this action")
)

const (
	contactListKey = "contact_list"
	contactKeyFmt  = "contact_%d"

	// DefaultCacheTTL bounds how long a cache entry may outlive the store
	DefaultCacheTTL = 300 * time.Second
)

// ContactService provides contact CRUD with a cache-aside layer in front
// of the contact store. The store is always the source of truth: reads
// fall through to it on a miss, and every mutation hits it first before
// any cache key is touched.
type ContactService interface {
	GetAllContacts(ctx context.Context) ([]model.Contact, error)
	GetContactByID(ctx context.Context, id int, claims authz.Claims) (*model.Contact, error)
	CreateContact(ctx context.Context, claims authz.Claims, req model.CreateContactRequest) (*model.Contact, error)
	UpdateContact(ctx context.Context, id int, claims authz.Claims, req model.UpdateContactRequest) (*model.Contact, error)
	DeleteContact(ctx context.Context, id int, claims authz.Claims) error
}

type contactService struct {
	repo      repository.ContactRepository
	kv        cache.KVStore
	ttl       time.Duration
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewContactService creates a new ContactService. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewContactService(repo repository.ContactRepository, kv cache.KVStore, ttl time.Duration, publisher messaging.Publisher, logger *zap.Logger) ContactService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &contactService{
		repo:      repo,
		kv:        kv,
		ttl:       ttl,
		publisher: publisher,
		logger:    logger,
	}
}

func contactKey(id int) string {
	return fmt.Sprintf(contactKeyFmt, id)
}

// GetAllContacts returns the full contact collection, served from the
// collection cache entry when present and refilled from the store on a miss.
func (s *contactService) GetAllContacts(ctx context.Context) ([]model.Contact, error) {
	if raw, err := s.kv.Get(ctx, contactListKey); err == nil {
		var contacts []model.Contact
		uerr := json.Unmarshal([]byte(raw), &contacts)
		if uerr == nil {
			return contacts, nil
		}
		s.logger.Warn("discarding undecodable collection cache entry", zap.Error(uerr))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed, falling back to store", zap.Error(err))
	}

	contacts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts from store: %w", err)
	}

	// Read-path refill is best effort; the response is already store-fresh
	if err := s.setCollectionCache(ctx, contacts); err != nil {
		s.logger.Warn("failed to fill collection cache", zap.Error(err))
	}
	return contacts, nil
}

// GetContactByID returns a single contact, cache first, store on a miss.
// A store miss is not cached: absent contacts stay uncached so a later
// create becomes visible immediately.
func (s *contactService) GetContactByID(ctx context.Context, id int, claims authz.Claims) (*model.Contact, error) {
	key := contactKey(id)

	if raw, err := s.kv.Get(ctx, key); err == nil {
		var contact model.Contact
		uerr := json.Unmarshal([]byte(raw), &contact)
		if uerr == nil {
			if !authz.CanAccess(&claims, contact.UserID) {
				return nil, ErrForbidden
			}
			return &contact, nil
		}
		s.logger.Warn("discarding undecodable contact cache entry",
			zap.Int("contact_id", id), zap.Error(uerr))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed, falling back to store",
			zap.Int("contact_id", id), zap.Error(err))
	}

	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	if err := s.setContactCache(ctx, contact); err != nil {
		s.logger.Warn("failed to fill contact cache",
			zap.Int("contact_id", id), zap.Error(err))
	}

	if !authz.CanAccess(&claims, contact.UserID) {
		return nil, ErrForbidden
	}
	return contact, nil
}

// CreateContact writes through the store first; only a confirmed insert
// touches the cache. The collection entry is refreshed from a fresh store
// read rather than appended to, so it keeps the store's canonical ordering.
func (s *contactService) CreateContact(ctx context.Context, claims authz.Claims, req model.CreateContactRequest) (*model.Contact, error) {
	contact := &model.Contact{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		UserID: claims.UserID,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact in store: %w", err)
	}

	if err := s.setContactCache(ctx, contact); err != nil {
		return nil, fmt.Errorf("contact stored but cache update failed: %w", err)
	}
	if err := s.refreshCollectionCache(ctx); err != nil {
		return nil, fmt.Errorf("contact stored but collection cache refresh failed: %w", err)
	}

	event := model.UserEvent{
		FirstName: contact.Name,
		Email:     contact.Email,
		EventType: model.EventContactCreated,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish contact created event",
			zap.Int("contact_id", contact.ID), zap.Error(err))
	}

	return contact, nil
}

// UpdateContact mutates the store first, then invalidates the collection
// entry and refreshes the single entry so it never lags the store write.
func (s *contactService) UpdateContact(ctx context.Context, id int, claims authz.Claims, req model.UpdateContactRequest) (*model.Contact, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact for update: %w", err)
	}
	if existing == nil {
		return nil, ErrContactNotFound
	}
	if !authz.CanAccess(&claims, existing.UserID) {
		return nil, ErrForbidden
	}

	updated := &model.Contact{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		UserID: existing.UserID,
	}
	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("failed to update contact in store: %w", err)
	}

	if err := s.kv.Delete(ctx, contactListKey); err != nil {
		return nil, fmt.Errorf("contact updated but collection cache invalidation failed: %w", err)
	}
	if err := s.setContactCache(ctx, updated); err != nil {
		return nil, fmt.Errorf("contact updated but cache refresh failed: %w", err)
	}

	return updated, nil
}

// DeleteContact removes the contact from the store first; only a confirmed
// delete evicts the cache entries.
func (s *contactService) DeleteContact(ctx context.Context, id int, claims authz.Claims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find contact for deletion: %w", err)
	}
	if existing == nil {
		return ErrContactNotFound
	}
	if !authz.CanAccess(&claims, existing.UserID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact in store: %w", err)
	}

	if err := s.kv.Delete(ctx, contactKey(id)); err != nil {
		return fmt.Errorf("contact deleted but cache eviction failed: %w", err)
	}
	if err := s.kv.Delete(ctx, contactListKey); err != nil {
		return fmt.Errorf("contact deleted but collection cache eviction failed: %w", err)
	}
	return nil
}

func (s *contactService) setContactCache(ctx context.Context, contact *model.Contact) error {
	data, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}
	return s.kv.Set(ctx, contactKey(contact.ID), string(data), s.ttl)
}

func (s *contactService) setCollectionCache(ctx context.Context, contacts []model.Contact) error {
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}
	return s.kv.Set(ctx, contactListKey, string(data), s.ttl)
}

func (s *contactService) refreshCollectionCache(ctx context.Context) error {
	contacts, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload contacts from store: %w", err)
	}
	return s.setCollectionCache(ctx, contacts)
}
