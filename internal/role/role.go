// Package role derives a user's role from the configured admin allow-list.
package role

import "strings"

const (
	Admin   = "admin"
	Student = "student"
)

// AllowList is the set of email addresses granted the admin role.
// Matching is exact and case-sensitive.
type AllowList struct {
	emails map[string]struct{}
}

// ParseAllowList builds an AllowList from a comma-separated list. Entries are
// trimmed and empty entries are skipped.
func ParseAllowList(csv string) AllowList {
	emails := make(map[string]struct{})
	for _, e := range strings.Split(csv, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		emails[e] = struct{}{}
	}
	return AllowList{emails: emails}
}

// NewAllowList builds an AllowList from already split entries.
func NewAllowList(emails ...string) AllowList {
	return ParseAllowList(strings.Join(emails, ","))
}

func (a AllowList) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := a.emails[email]
	return ok
}

// RoleFor returns Admin or Student for the given email.
func (a AllowList) RoleFor(email string) string {
	if a.IsAdmin(email) {
		return Admin
	}
	return Student
}

func (a AllowList) Len() int {
	return len(a.emails)
}

// Emails returns the configured addresses in no particular order.
func (a AllowList) Emails() []string {
	out := make([]string, 0, len(a.emails))
	for e := range a.emails {
		out = append(out, e)
	}
	return out
}
