package order

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewRef produces a short human-readable order reference of the form
// ORD-XXXXXXXX (8 uppercase hex characters). Uniqueness is probabilistic at
// generation time; the orders primary key is the backstop, and checkout
// regenerates on a collision.
func NewRef() string {
	u := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}
