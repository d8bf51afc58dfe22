package dto

import "github.com/jsamuelsen/fuel-quote-service/internal/domain"

// CredentialsRequest is the body of both register and login.
// Presence is checked by the account service so that both fields are reported together;
// the tags here only bound sizes. bcrypt ignores input past 72 bytes.
type CredentialsRequest struct {
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password" validate:"max=72"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token      string `json:"token"`
	RedirectTo string `json:"redirectTo"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileRequest is the body of profile completion and profile update.
type ProfileRequest struct {
	Username string `json:"username" validate:"max=64"`
	FullName string `json:"fullName" validate:"max=100"`
	Address1 string `json:"address1" validate:"max=100"`
	Address2 string `json:"address2" validate:"max=100"`
	City     string `json:"city" validate:"max=100"`
	State    string `json:"state" validate:"omitempty,len=2"`
	Zipcode  string `json:"zipcode" validate:"omitempty,min=5,max=9"`
}

// Profile converts the request into a domain profile.
func (r *ProfileRequest) Profile() domain.Profile {
	return domain.Profile{
		FullName: r.FullName,
		Address1: r.Address1,
		Address2: r.Address2,
		City:     r.City,
		State:    r.State,
		Zipcode:  r.Zipcode,
	}
}

// ProfileResponse is the wire form of a stored or echoed profile.
type ProfileResponse struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
}

// NewProfileResponse converts a domain profile for the wire.
func NewProfileResponse(username string, p *domain.Profile) *ProfileResponse {
	return &ProfileResponse{
		Username: username,
		FullName: p.FullName,
		Address1: p.Address1,
		Address2: p.Address2,
		City:     p.City,
		State:    p.State,
		Zipcode:  p.Zipcode,
	}
}
