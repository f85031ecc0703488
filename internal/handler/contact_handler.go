package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"address_book/internal/authz"
	"address_book/internal/middleware"
	"address_book/internal/model"
	"address_book/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact related requests
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// Helper to assemble the caller's claims from context
func getAuthClaims(c *gin.Context) (authz.Claims, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return authz.Claims{}, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return authz.Claims{}, errors.New("invalid user ID type in context")
	}

	email, _ := c.Get(middleware.AuthEmailKey)
	emailStr, _ := email.(string)

	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return authz.Claims{}, errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return authz.Claims{}, errors.New("invalid user role type in context")
	}

	return authz.Claims{UserID: userID, Email: emailStr, Role: role}, nil
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	claims, err := getAuthClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.CreateContact(c.Request.Context(), claims, req)
	if err != nil {
		log.Printf("Error creating contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) GetContactByID(c *gin.Context) {
	claims, err := getAuthClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contactID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	contact, err := h.service.GetContactByID(c.Request.Context(), contactID, claims)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error getting contact by ID: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contact"})
		}
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	claims, err := getAuthClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contactID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var req model.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.UpdateContact(c.Request.Context(), contactID, claims, req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error updating contact: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		}
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	claims, err := getAuthClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contactID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	err = h.service.DeleteContact(c.Request.Context(), contactID, claims)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error deleting contact: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

// --- Admin Routes ---

func (h *ContactHandler) GetAllContactsAdmin(c *gin.Context) {
	contacts, err := h.service.GetAllContacts(c.Request.Context())
	if err != nil {
		log.Printf("Error getting all contacts for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// RegisterContactRoutes registers contact routes
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	contactRoutes := rg.Group("/contacts")
	contactRoutes.Use(authMW) // All routes in this group require authentication
	{
		contactRoutes.POST("", h.CreateContact)
		contactRoutes.GET("/:id", h.GetContactByID)    // Service layer handles ownership for non-admins
		contactRoutes.PUT("/:id", h.UpdateContact)     // Service layer handles ownership
		contactRoutes.DELETE("/:id", h.DeleteContact)  // Service layer handles ownership for non-admins
	}

	// Admin-specific routes
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)  // Requires authentication
	adminRoutes.Use(adminMW) // Requires admin role
	{
		adminRoutes.GET("/contacts", h.GetAllContactsAdmin)
	}
}
