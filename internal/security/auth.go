package security

// Authorizer checks if a chat user is allowed to interact with the bot.
type Authorizer struct {
	allowedIDs map[int64]bool
}

// NewAuthorizer creates an authorizer with the given allowed user IDs.
// If the list is empty, all users are allowed.
func NewAuthorizer(allowedIDs []int64) *Authorizer {
	m := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		m[id] = true
	}
	return &Authorizer{allowedIDs: m}
}

// IsAllowed returns true if the user is authorized.
func (a *Authorizer) IsAllowed(userID int64) bool {
	if len(a.allowedIDs) == 0 {
		return true // no allowlist = allow all
	}
	return a.allowedIDs[userID]
}
