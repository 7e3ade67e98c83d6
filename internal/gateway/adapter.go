package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// The remote API has used several names for the same field over time.
// Decoding accepts every observed alias; encoding always emits the first name
// listed for each field:
//
//	identifier      _id | id
//	event title     eventTitle | title | eventName
//	vendor name     vendorName
//	requester name  name | userName
//	requester email email | userEmail
//	guest count     guests | guestCount (number or numeric string)
//	target ref      event | vendor (string or populated object)

// WireBooking is the server representation of a booking or pending booking.
type WireBooking struct {
	ID         string  `json:"_id,omitempty"`
	EventTitle string  `json:"eventTitle,omitempty"`
	VendorName string  `json:"vendorName,omitempty"`
	Event      wireRef `json:"event,omitempty"`
	Vendor     wireRef `json:"vendor,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Date       string  `json:"date"`
	Guests     flexInt `json:"guests"`
}

// UnmarshalJSON folds aliases into the canonical fields.
func (b *WireBooking) UnmarshalJSON(data []byte) error {
	type plain WireBooking
	var in struct {
		plain
		AltID      string  `json:"id"`
		Title      string  `json:"title"`
		EventName  string  `json:"eventName"`
		UserName   string  `json:"userName"`
		UserEmail  string  `json:"userEmail"`
		GuestCount flexInt `json:"guestCount"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*b = WireBooking(in.plain)
	b.ID = firstNonEmpty(b.ID, in.AltID)
	b.EventTitle = firstNonEmpty(b.EventTitle, in.Title, in.EventName)
	b.Name = firstNonEmpty(b.Name, in.UserName)
	b.Email = firstNonEmpty(b.Email, in.UserEmail)
	if b.Guests == 0 {
		b.Guests = in.GuestCount
	}
	b.Date = normalizeDate(b.Date)
	return nil
}

// bookingToWire encodes canonical details in the server's field names.
func bookingToWire(serverID string, d domain.BookingDetails) WireBooking {
	w := WireBooking{
		ID:     serverID,
		Name:   d.RequesterName,
		Email:  d.RequesterEmail,
		Date:   d.Date,
		Guests: flexInt(d.GuestCount),
	}
	switch d.Kind {
	case domain.KindVendor:
		w.VendorName = d.DisplayName
		w.Vendor = wireRef(d.TargetRef)
	default:
		w.EventTitle = d.DisplayName
		w.Event = wireRef(d.TargetRef)
	}
	return w
}

// details decodes the server booking into canonical details of the given kind.
func (b WireBooking) details(kind domain.Kind) domain.BookingDetails {
	d := domain.BookingDetails{
		Kind:           kind,
		RequesterName:  b.Name,
		RequesterEmail: b.Email,
		Date:           b.Date,
		GuestCount:     int(b.Guests),
	}
	switch kind {
	case domain.KindVendor:
		d.DisplayName = b.VendorName
		d.TargetRef = string(b.Vendor)
	default:
		d.DisplayName = b.EventTitle
		d.TargetRef = string(b.Event)
	}
	return d
}

// record converts a server booking into a BookingRecord.
func (b WireBooking) record(kind domain.Kind) domain.BookingRecord {
	return domain.BookingRecord{ServerID: b.ID, BookingDetails: b.details(kind)}
}

// wireIdentity is the server representation of a user.
type wireIdentity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON folds aliases into the canonical fields.
func (u *wireIdentity) UnmarshalJSON(data []byte) error {
	type plain wireIdentity
	var in struct {
		plain
		AltID    string `json:"id"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*u = wireIdentity(in.plain)
	u.ID = firstNonEmpty(u.ID, in.AltID)
	u.Name = firstNonEmpty(u.Name, in.UserName)
	return nil
}

func (u *wireIdentity) identity() *domain.Identity {
	if u == nil {
		return nil
	}
	return &domain.Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// wireEvent is the server representation of a catalog event.
type wireEvent struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"img"`
}

// UnmarshalJSON folds aliases into the canonical fields.
func (e *wireEvent) UnmarshalJSON(data []byte) error {
	type plain wireEvent
	var in struct {
		plain
		AltID      string `json:"id"`
		EventTitle string `json:"eventTitle"`
		EventName  string `json:"eventName"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = wireEvent(in.plain)
	e.ID = firstNonEmpty(e.ID, in.AltID)
	e.Title = firstNonEmpty(e.Title, in.EventTitle, in.EventName)
	return nil
}

func (e wireEvent) event() domain.Event {
	return domain.Event{ID: e.ID, Title: e.Title, Description: e.Description, Image: e.Image}
}

// wireVendor is the server representation of a catalog vendor.
type wireVendor struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"img"`
}

// UnmarshalJSON folds aliases into the canonical fields.
func (v *wireVendor) UnmarshalJSON(data []byte) error {
	type plain wireVendor
	var in struct {
		plain
		AltID      string `json:"id"`
		VendorName string `json:"vendorName"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = wireVendor(in.plain)
	v.ID = firstNonEmpty(v.ID, in.AltID)
	v.Name = firstNonEmpty(v.Name, in.VendorName)
	return nil
}

func (v wireVendor) vendor() domain.Vendor {
	return domain.Vendor{ID: v.ID, Name: v.Name, Description: v.Description, Image: v.Image}
}

// wireRef is a reference to a catalog entry. The server sends either the bare
// identifier or the populated document.
type wireRef string

// UnmarshalJSON accepts a string, null, or an object carrying _id or id.
func (r *wireRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case len(data) > 0 && data[0] == '{':
		var doc struct {
			ID    string `json:"_id"`
			AltID string `json:"id"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*r = wireRef(firstNonEmpty(doc.ID, doc.AltID))
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("reference: %w", err)
		}
		*r = wireRef(s)
		return nil
	}
}

// flexInt decodes integers sent either as JSON numbers or numeric strings.
type flexInt int

// UnmarshalJSON accepts 5, 5.0, "5", "", and null.
func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*n = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("guest count %q: %w", text, err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("guest count %q is not a whole number", text)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("guest count %q is out of range", text)
	}
	*n = flexInt(f)
	return nil
}

// normalizeDate reduces server timestamps to YYYY-MM-DD.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= len(time.DateOnly) {
		return s
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
		return s[:len(time.DateOnly)]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
