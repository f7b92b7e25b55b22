// Package rider holds the user profile created at onboarding.
package rider

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/onlycabs/booking-backend/store"
)

// Collection is the document collection user profiles are written to.
const Collection = "users"

const (
	MinAge     = 1
	MaxAge     = 100
	DefaultAge = 25
)

// Profile is a rider's onboarding record. It is written once and never
// updated or deleted from this flow.
type Profile struct {
	Name     string
	Username string
	Password string
	Age      int
}

// ClampAge normalises an age the way the input control does: zero falls
// back to the default, out-of-range values are pinned to [MinAge, MaxAge].
func ClampAge(age int) int {
	if age == 0 {
		return DefaultAge
	}
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}

// Fields is the record written to the users collection. The password is
// stored bcrypt-hashed; the source client stored it in plaintext, which
// we deliberately do not reproduce.
func (p Profile) Fields() (store.Fields, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return store.Fields{
		"name":     p.Name,
		"username": p.Username,
		"password": string(hash),
		"age":      p.Age,
	}, nil
}
