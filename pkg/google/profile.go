package google

import "github.com/dmitrymomot/googlelogin/pkg/jwt"

// Profile is the subset of a Google account the login flow needs.
type Profile struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	DisplayName   string
	GivenName     string
	FamilyName    string
	PictureURL    string
}

// HasEmail reports whether the profile carries a verified email address.
func (p *Profile) HasEmail() bool {
	return p != nil && p.Email != "" && p.EmailVerified
}

// ProfileFromClaims builds a profile from verified ID token claims.
func ProfileFromClaims(c *jwt.Claims) *Profile {
	if c == nil {
		return nil
	}
	return &Profile{
		SubjectID:     c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		DisplayName:   c.Name,
		GivenName:     c.GivenName,
		FamilyName:    c.FamilyName,
		PictureURL:    c.Picture,
	}
}

type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (u userInfo) profile() *Profile {
	return &Profile{
		SubjectID:     u.ID,
		Email:         u.Email,
		EmailVerified: u.VerifiedEmail,
		DisplayName:   u.Name,
		GivenName:     u.GivenName,
		FamilyName:    u.FamilyName,
		PictureURL:    u.Picture,
	}
}
