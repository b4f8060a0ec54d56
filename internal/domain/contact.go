package domain

import "time"

// Contact status constants.
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// Contact represents an inbound contact-form message.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidContactStatuses returns the set of valid contact statuses.
func ValidContactStatuses() []string {
	return []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied}
}

// IsValidContactStatus checks whether the given status string is a valid contact status.
func IsValidContactStatus(status string) bool {
	for _, s := range ValidContactStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
