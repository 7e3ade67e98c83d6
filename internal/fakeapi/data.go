package fakeapi

import (
	"time"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// dateLayout is how booking dates leave the server: a UTC midnight timestamp.
const dateLayout = "2006-01-02T15:04:05.000Z"

const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"
)

type user struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

func (u *user) doc() userDoc {
	return userDoc{ID: u.ID, Name: u.Name, Email: u.Email}
}

type userDoc struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type booking struct {
	ID        string
	UserID    string
	Kind      domain.Kind
	Target    string
	Title     string
	Name      string
	Email     string
	Date      time.Time
	Guests    int
	Status    string
	CreatedAt time.Time
}

// bookingDoc is the JSON shape of a booking as the server sends it.
type bookingDoc struct {
	ID         string `json:"_id"`
	User       string `json:"user"`
	Event      string `json:"event,omitempty"`
	Vendor     string `json:"vendor,omitempty"`
	EventTitle string `json:"eventTitle,omitempty"`
	VendorName string `json:"vendorName,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Date       string `json:"date"`
	Guests     int    `json:"guests"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

func (b *booking) doc() bookingDoc {
	d := bookingDoc{
		ID:        b.ID,
		User:      b.UserID,
		Name:      b.Name,
		Email:     b.Email,
		Date:      b.Date.UTC().Format(dateLayout),
		Guests:    b.Guests,
		Status:    b.Status,
		CreatedAt: b.CreatedAt.UTC().Format(dateLayout),
	}
	if b.Kind == domain.KindVendor {
		d.Vendor = b.Target
		d.VendorName = b.Title
	} else {
		d.Event = b.Target
		d.EventTitle = b.Title
	}
	return d
}

type catalogDoc struct {
	ID          string `json:"_id"`
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Image       string `json:"img"`
}

// Email is a message the server would have sent.
type Email struct {
	To      string
	Subject string
	Body    string
	// Bookings lists the booking IDs a confirmation email covers.
	Bookings []string
}

// ContactMessage is a message received through the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

func seedEvents() []catalogDoc {
	return []catalogDoc{
		{ID: "e1", Title: "Wedding Ceremony", Description: "The ceremony itself, officiant and venue setup included.", Image: "/images/wedding_ceremony.jpg"},
		{ID: "e2", Title: "Reception", Description: "Dinner, dancing and toasts after the ceremony.", Image: "/images/reception.jpg"},
		{ID: "e3", Title: "Engagement Party", Description: "Celebrate the engagement with friends and family.", Image: "/images/engagement_party.jpg"},
		{ID: "e4", Title: "Bridal Shower", Description: "An afternoon gathering for the bride-to-be.", Image: "/images/bridal_shower.jpg"},
	}
}

func seedVendors() []catalogDoc {
	return []catalogDoc{
		{ID: "v1", Name: "ABC Catering", Description: "Seasonal menus for up to 300 guests.", Image: "/images/catering.jpg"},
		{ID: "v2", Name: "XYZ Photography", Description: "Photo and video coverage of the whole day.", Image: "/images/photography.jpg"},
		{ID: "v3", Name: "Elegant Florists", Description: "Bouquets, centrepieces and arches.", Image: "/images/florist.jpg"},
		{ID: "v4", Name: "Classic Musicians", Description: "String quartet and evening band.", Image: "/images/musicians.jpg"},
		{ID: "v5", Name: "Luxurious Transportation", Description: "Vintage cars and limousines.", Image: "/images/transportation.jpg"},
	}
}
