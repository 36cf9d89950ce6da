package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Client is a minimal identity record. Anything beyond simple CRUD lives
// outside this service.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClient(name, email string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &Client{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}
