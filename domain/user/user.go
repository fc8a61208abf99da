// Package user holds the account model and its relations to hives.
package user

// User is an account. LastCreatedItem is the encoded undo stamp of the most
// recently created point/synapse; it authorizes exactly one deletion.
type User struct {
	Key             string `json:"_key,omitempty"`
	ID              string `json:"_id,omitempty"`
	Username        string `json:"Username"`
	PasswordHash    string `json:"PasswordHash"`
	CurrentHiveID   string `json:"CurrentHiveId,omitempty"`
	LastCreatedItem string `json:"LastCreatedItem,omitempty"`
}

// Ownership tags how a saved hive relates to the user.
type Ownership string

const (
	OwnershipCreator Ownership = "creator"
	OwnershipSaved   Ownership = "saved"
)

// SavedHive is the relation from a user to a hive they keep on their yard.
type SavedHive struct {
	Key       string    `json:"_key,omitempty"`
	ID        string    `json:"_id,omitempty"`
	From      string    `json:"_from"`
	To        string    `json:"_to"`
	Ownership Ownership `json:"Ownership"`
}

// Participation records that a user has ever acted in a hive. LastDay is the
// most recent calendar date the user participated; it gates the once-per-day
// bucket increment.
type Participation struct {
	Key     string `json:"_key,omitempty"`
	ID      string `json:"_id,omitempty"`
	From    string `json:"_from"`
	To      string `json:"_to"`
	LastDay string `json:"LastDay"`
}
