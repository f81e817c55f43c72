// internal/domain/models/identity.go
package models

import (
	"time"
)

// Roles known to the client. Other values may be stored and are shown the
// fallback error view.
const (
	RoleAdmin     = "admin"
	RoleOrganiser = "organiser"
	RoleMember    = "member"
	RoleDelegate  = "delegate"
)

// StatusActive is the membership_status value the "active only" filter matches.
const StatusActive = "Active"

// Identity is a union member's profile record. Its ID is the same subject id
// the auth service issues for the member's credentials.
type Identity struct {
	ID           string `bson:"_id" json:"id"`
	MemberNumber *int64 `bson:"member_number,omitempty" json:"member_number,omitempty"`

	FullName         string `bson:"full_name" json:"full_name"`
	FullNameCI       string `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email            string `bson:"email" json:"email"`
	Role             string `bson:"role" json:"role"`
	MembershipStatus string `bson:"membership_status" json:"membership_status"`
	AvatarURL        string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	// Contact
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`

	Site   string `bson:"site,omitempty" json:"site,omitempty"`
	Region string `bson:"region,omitempty" json:"region,omitempty"`
	Active bool   `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActiveMember reports whether the membership status is the active sentinel.
func (i Identity) IsActiveMember() bool {
	return i.MembershipStatus == StatusActive
}

// Initials returns up to two initials for avatar placeholders.
func (i Identity) Initials() string {
	out := make([]rune, 0, 2)
	prev := ' '
	for _, r := range i.FullName {
		if prev == ' ' && r != ' ' {
			out = append(out, r)
			if len(out) == 2 {
				break
			}
		}
		prev = r
	}
	return string(out)
}

// SearchCriteria filters identities. Each field applies only when set;
// the zero value matches everything.
type SearchCriteria struct {
	Name       string
	Site       string
	ActiveOnly bool
}

// IsEmpty reports whether no criterion is set.
func (c SearchCriteria) IsEmpty() bool {
	return c.Name == "" && c.Site == "" && !c.ActiveOnly
}
