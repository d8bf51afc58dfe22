package domain

import (
	"strings"
	"time"
)

// Account is a registered identity with its credential and delivery profile.
// Username is unique and never changes after registration.
type Account struct {
	// ID is the internal user id assigned by storage. Quotes reference it.
	ID int64

	Username     string
	PasswordHash string

	// ProfileComplete flips to true on profile completion and never reverts.
	ProfileComplete bool

	Profile Profile

	CreatedAt time.Time
}

// Profile holds the delivery details a user supplies after registration.
// Address2 is the only optional field.
type Profile struct {
	FullName string
	Address1 string
	Address2 string
	City     string
	State    string
	Zipcode  string
}

// MissingFields returns the names of required profile fields that are blank,
// in the order the profile form lists them.
func (p Profile) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", p.FullName},
		{"address1", p.Address1},
		{"city", p.City},
		{"state", p.State},
		{"zipcode", p.Zipcode},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	return missing
}

// Redirect targets returned after a successful login.
const (
	RouteProfile         = "/profile"
	RouteCompleteProfile = "/complete-profile"
)

// LandingRoute is where a freshly logged-in user should go next.
func (a *Account) LandingRoute() string {
	if a.ProfileComplete {
		return RouteProfile
	}

	return RouteCompleteProfile
}
