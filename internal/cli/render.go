package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderBookings prints cart items or booking records as a table.
func renderBookings(w io.Writer, views []bookingView, empty string) {
	if len(views) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tKIND\tBOOKING\tDATE\tGUESTS\tREQUESTER")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s <%s>\n",
			v.ID, v.Kind, v.DisplayName, v.Date, v.GuestCount, v.RequesterName, v.RequesterEmail)
	}
	_ = tw.Flush()
}

func renderBooking(w io.Writer, v bookingView) {
	fmt.Fprintf(w, "%s (%s)\n", v.DisplayName, v.Kind)
	fmt.Fprintf(w, "  id:        %s\n", v.ID)
	if v.TargetRef != "" {
		fmt.Fprintf(w, "  ref:       %s\n", v.TargetRef)
	}
	fmt.Fprintf(w, "  date:      %s\n", v.Date)
	fmt.Fprintf(w, "  guests:    %d\n", v.GuestCount)
	fmt.Fprintf(w, "  requester: %s <%s>\n", v.RequesterName, v.RequesterEmail)
}

func renderCatalog(w io.Writer, views []catalogView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Name, v.Description)
	}
	_ = tw.Flush()
}

func renderCatalogEntry(w io.Writer, v catalogView) {
	fmt.Fprintf(w, "%s (%s)\n", v.Name, v.ID)
	if v.Description != "" {
		fmt.Fprintf(w, "  %s\n", v.Description)
	}
	if v.Image != "" {
		fmt.Fprintf(w, "  image: %s\n", v.Image)
	}
}

func renderBudget(w io.Writer, v budgetView) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tITEM\tCOST")
	for _, item := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\n", item.ID, item.Name, item.Cost)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Total: %.2f\n", v.Total)
}

func renderSession(w io.Writer, v sessionView) {
	if v.Identity == nil {
		fmt.Fprintln(w, "Not logged in.")
	} else {
		fmt.Fprintf(w, "Logged in as %s <%s>\n", v.Identity.Name, v.Identity.Email)
	}
	fmt.Fprintf(w, "Cart: %d item(s)\n", v.Cart)
	fmt.Fprintf(w, "Bookings: %d\n", v.Bookings)
	mode := "off"
	if v.DarkMode {
		mode = "on"
	}
	fmt.Fprintf(w, "Dark mode: %s\n", mode)
}
