package store

// Key names one persisted session entry.
type Key string

// Persisted session keys. The names match the browser storage layout so an
// exported session stays recognisable.
const (
	KeyCurrentUser Key = "currentUser"
	KeyAuthToken   Key = "authToken"
	KeyCart        Key = "cart"
	KeyBookings    Key = "bookings"
	KeyDarkMode    Key = "darkMode"
	KeyBudget      Key = "budget"
)

// keyPrefix namespaces session entries inside the database.
const keyPrefix = "session:"

// AllKeys lists every persisted key in load order.
var AllKeys = []Key{KeyCurrentUser, KeyAuthToken, KeyCart, KeyBookings, KeyDarkMode, KeyBudget}

// SessionKeys are the entries cleared on logout. Preferences and the budget survive.
var SessionKeys = []Key{KeyCurrentUser, KeyAuthToken, KeyCart, KeyBookings}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	for _, known := range AllKeys {
		if k == known {
			return true
		}
	}
	return false
}

func (k Key) dbKey() []byte {
	return []byte(keyPrefix + string(k))
}
