package types

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// ItemType is the server-side discriminator naming what kind of entity a
// CRUD call targets.
type ItemType string

const (
	ItemTypeSpace  ItemType = "SMARTSPACE"
	ItemTypeType   ItemType = "TYPE"
	ItemTypeItem   ItemType = "ITEM"
	ItemTypeFolder ItemType = "FOLDER"
)

// RawItem is an entity exactly as the API returns it: a loosely-typed JSON
// object whose canonical keys are Title-case (ID, Name, Description, URL,
// plus whatever fields the entity's type declares). Field decoding and
// case-insensitive lookup live in the client package.
type RawItem map[string]json.RawMessage

// Credential is the long-lived token obtained through the email+code
// handshake, persisted locally between process runs.
type Credential struct {
	Token      string    `json:"token"`
	Email      string    `json:"email,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	ObtainedAt time.Time `json:"obtainedAt"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}

// Valid reports whether the credential can still authorize requests.
// A zero ExpiresAt means the token is long-lived.
func (c *Credential) Valid() bool {
	if c == nil || c.Token == "" {
		return false
	}
	return c.ExpiresAt.IsZero() || time.Now().Before(c.ExpiresAt)
}
