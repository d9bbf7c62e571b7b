package client

import (
	"strings"
	"time"
)

// Source identifies how a client found the business
type Source string

const (
	SourceReferral Source = "referral"
	SourceSocial   Source = "social"
	SourceWalkIn   Source = "walk-in"
	SourceOther    Source = "other"
)

// IsValid checks if the source belongs to the closed set
func (s Source) IsValid() bool {
	switch s {
	case SourceReferral, SourceSocial, SourceWalkIn, SourceOther:
		return true
	}
	return false
}

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}

// Phone number types
const (
	PhoneTypeMobile   = "mobile"
	PhoneTypeWhatsApp = "whatsapp"
)

// Phone is a number tagged with its type
type Phone struct {
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

// Address holds a city reference and a free-text line
type Address struct {
	CityID  int64  `json:"city_id"`
	Address string `json:"address"`
}

// Client represents a client as returned by the server
type Client struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	FirstName   string     `json:"first_name"`
	MiddleName  string     `json:"middle_name"`
	LastName    string     `json:"last_name"`
	NationalID  string     `json:"national_id"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Source      Source     `json:"source"`
	Address     *Address   `json:"address,omitempty"`
	Phones      []Phone    `json:"phones"`
	Notes       string     `json:"notes,omitempty"`
}

// FullName derives a display name for the client. The explicit name field
// wins; otherwise the name parts are joined, skipping empty ones.
func (c *Client) FullName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{c.FirstName, c.MiddleName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
