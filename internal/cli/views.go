package cli

import (
	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// The view types fix the field names of the json and yaml output.

type messageView struct {
	Message string `json:"message" yaml:"message"`
}

type identityView struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type sessionView struct {
	State    string        `json:"state" yaml:"state"`
	Identity *identityView `json:"identity,omitempty" yaml:"identity,omitempty"`
	Cart     int           `json:"cartItems" yaml:"cartItems"`
	Bookings int           `json:"bookings" yaml:"bookings"`
	DarkMode bool          `json:"darkMode" yaml:"darkMode"`
}

type bookingView struct {
	ID             string `json:"id" yaml:"id"`
	Kind           string `json:"kind" yaml:"kind"`
	TargetRef      string `json:"targetRef,omitempty" yaml:"targetRef,omitempty"`
	DisplayName    string `json:"displayName" yaml:"displayName"`
	RequesterName  string `json:"requesterName" yaml:"requesterName"`
	RequesterEmail string `json:"requesterEmail" yaml:"requesterEmail"`
	Date           string `json:"date" yaml:"date"`
	GuestCount     int    `json:"guestCount" yaml:"guestCount"`
}

type catalogView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string `json:"img,omitempty" yaml:"img,omitempty"`
}

type budgetItemView struct {
	ID   int     `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	Cost float64 `json:"cost" yaml:"cost"`
}

type budgetView struct {
	Items []budgetItemView `json:"items" yaml:"items"`
	Total float64          `json:"total" yaml:"total"`
}

type darkModeView struct {
	DarkMode bool `json:"darkMode" yaml:"darkMode"`
}

func newIdentityView(i *domain.Identity) *identityView {
	if i == nil {
		return nil
	}
	return &identityView{ID: i.ID, Name: i.Name, Email: i.Email}
}

func newBookingView(id string, d domain.BookingDetails) bookingView {
	return bookingView{
		ID:             id,
		Kind:           string(d.Kind),
		TargetRef:      d.TargetRef,
		DisplayName:    d.DisplayName,
		RequesterName:  d.RequesterName,
		RequesterEmail: d.RequesterEmail,
		Date:           d.Date,
		GuestCount:     d.GuestCount,
	}
}

func cartViews(items []domain.CartItem) []bookingView {
	views := make([]bookingView, 0, len(items))
	for _, item := range items {
		views = append(views, newBookingView(item.ID, item.BookingDetails))
	}
	return views
}

func recordViews(records []domain.BookingRecord) []bookingView {
	views := make([]bookingView, 0, len(records))
	for _, r := range records {
		views = append(views, newBookingView(r.ServerID, r.BookingDetails))
	}
	return views
}

func eventViews(events []domain.Event) []catalogView {
	views := make([]catalogView, 0, len(events))
	for _, e := range events {
		views = append(views, catalogView{ID: e.ID, Name: e.Title, Description: e.Description, Image: e.Image})
	}
	return views
}

func vendorViews(vendors []domain.Vendor) []catalogView {
	views := make([]catalogView, 0, len(vendors))
	for _, v := range vendors {
		views = append(views, catalogView{ID: v.ID, Name: v.Name, Description: v.Description, Image: v.Image})
	}
	return views
}

func newBudgetView(items []domain.BudgetItem, total float64) budgetView {
	v := budgetView{Items: make([]budgetItemView, 0, len(items)), Total: total}
	for _, item := range items {
		v.Items = append(v.Items, budgetItemView{ID: item.ID, Name: item.Name, Cost: item.Cost})
	}
	return v
}
