package novel

import (
	"encoding/json"
	"fmt"
)

// Identifier is one entry of a novel's staff roster. Legacy rosters mixed two
// representations in the same list: numeric user IDs and plain username
// strings. Both forms are kept and membership checks normalize the candidate
// to both before comparing, so old string entries keep granting access.
type Identifier struct {
	userID   uint
	username string
}

// ByUserID creates an identifier holding a numeric user ID.
func ByUserID(userID uint) Identifier {
	return Identifier{userID: userID}
}

// ByUsername creates an identifier holding a legacy username string.
func ByUsername(username string) Identifier {
	return Identifier{username: username}
}

// IsUserID reports whether this identifier carries a numeric user ID.
func (i Identifier) IsUserID() bool {
	return i.userID != 0
}

func (i Identifier) UserID() uint {
	return i.userID
}

func (i Identifier) Username() string {
	return i.username
}

// Matches checks the identifier against both representations of a candidate.
func (i Identifier) Matches(userID uint, username string) bool {
	if i.IsUserID() {
		return userID != 0 && i.userID == userID
	}
	return username != "" && i.username == username
}

// MarshalJSON renders the identifier in its stored wire form: a JSON number
// for IDs, a JSON string for usernames.
func (i Identifier) MarshalJSON() ([]byte, error) {
	if i.IsUserID() {
		return json.Marshal(i.userID)
	}
	return json.Marshal(i.username)
}

// UnmarshalJSON accepts either wire form.
func (i *Identifier) UnmarshalJSON(data []byte) error {
	var asID uint
	if err := json.Unmarshal(data, &asID); err == nil {
		if asID == 0 {
			return fmt.Errorf("roster identifier cannot be zero")
		}
		*i = ByUserID(asID)
		return nil
	}

	var asName string
	if err := json.Unmarshal(data, &asName); err == nil {
		if asName == "" {
			return fmt.Errorf("roster identifier cannot be empty")
		}
		*i = ByUsername(asName)
		return nil
	}

	return fmt.Errorf("roster identifier must be a user ID or a username: %s", data)
}

// Roster is the list of identifiers allowed project-user access to a novel.
type Roster []Identifier

// Contains reports whether the candidate, given in both representations,
// appears in the roster under either form.
func (r Roster) Contains(userID uint, username string) bool {
	for _, entry := range r {
		if entry.Matches(userID, username) {
			return true
		}
	}
	return false
}
