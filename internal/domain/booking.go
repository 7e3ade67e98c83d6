package domain

// Kind distinguishes event bookings from vendor bookings.
type Kind string

const (
	// KindEvent is a booking of a catalog event (ceremony, reception, ...).
	KindEvent Kind = "event"
	// KindVendor is a booking of a vendor (caterer, photographer, ...).
	KindVendor Kind = "vendor"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindEvent || k == KindVendor
}

// BookingDetails holds the fields shared by cart items and confirmed bookings.
// The validate tags are the required-field constraints every mutation enforces.
type BookingDetails struct {
	Kind           Kind   `json:"kind" validate:"required,oneof=event vendor"`
	TargetRef      string `json:"targetRef,omitempty"`
	DisplayName    string `json:"displayName" validate:"required,notblank"`
	RequesterName  string `json:"requesterName" validate:"required,notblank"`
	RequesterEmail string `json:"requesterEmail" validate:"required,notblank,email"`
	Date           string `json:"date" validate:"required,ymd"`
	GuestCount     int    `json:"guestCount" validate:"gte=1"`
}

// CartItem is a booking intent that has not been confirmed yet.
//
// ID lives in exactly one namespace: a local identifier (see id.IsLocal) for
// items that only exist on this client, or a server-assigned identifier once
// the server has created a pending booking for it.
type CartItem struct {
	ID string `json:"id"`
	BookingDetails
}

// BookingRecord is a booking the server has confirmed.
type BookingRecord struct {
	ServerID string `json:"serverId"`
	BookingDetails
}

// DetailsPatch describes a partial update of BookingDetails.
// Nil fields are left unchanged. Kind cannot be patched.
type DetailsPatch struct {
	TargetRef      *string `json:"targetRef,omitempty"`
	DisplayName    *string `json:"displayName,omitempty"`
	RequesterName  *string `json:"requesterName,omitempty"`
	RequesterEmail *string `json:"requesterEmail,omitempty"`
	Date           *string `json:"date,omitempty"`
	GuestCount     *int    `json:"guestCount,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p DetailsPatch) IsEmpty() bool {
	return p.TargetRef == nil && p.DisplayName == nil && p.RequesterName == nil &&
		p.RequesterEmail == nil && p.Date == nil && p.GuestCount == nil
}

// Apply returns d with the patch applied.
func (p DetailsPatch) Apply(d BookingDetails) BookingDetails {
	if p.TargetRef != nil {
		d.TargetRef = *p.TargetRef
	}
	if p.DisplayName != nil {
		d.DisplayName = *p.DisplayName
	}
	if p.RequesterName != nil {
		d.RequesterName = *p.RequesterName
	}
	if p.RequesterEmail != nil {
		d.RequesterEmail = *p.RequesterEmail
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.GuestCount != nil {
		d.GuestCount = *p.GuestCount
	}
	return d
}
