package domain

// Event is a bookable catalog event.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"img,omitempty"`
}

// Vendor is a bookable catalog vendor.
type Vendor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"img,omitempty"`
}
