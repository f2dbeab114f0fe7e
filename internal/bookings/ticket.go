package bookings

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

const ticketTimeLayout = "Mon 02 Jan 2006 15:04 MST"

// RenderTicketPDF lays out a single-page e-ticket for a confirmed booking
func RenderTicketPDF(b *Booking, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.BookingRef, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUSLY E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.Cell(0, 7, fmt.Sprintf("%-14s: %s", label, orDash(value)))
		pdf.Ln(7)
	}

	line("Booking ref", b.BookingRef)
	line("Status", b.Status.String())
	if s := b.Schedule; s != nil {
		if s.Route != nil {
			line("Route", fmt.Sprintf("%s -> %s", s.Route.Source, s.Route.Destination))
		}
		if s.Bus != nil {
			line("Bus", fmt.Sprintf("%s (%s)", s.Bus.BusNumber, s.Bus.BusType))
		}
		line("Departure", s.DepartureTime.Format(ticketTimeLayout))
		line("Arrival", s.ArrivalTime.Format(ticketTimeLayout))
	}
	line("Seats", strings.Join(b.SeatNumbers(), ", "))
	line("Total", fmt.Sprintf("%.2f", b.TotalAmount))
	line("Contact", b.ContactDetails.Email+" / "+b.ContactDetails.Phone)
	pdf.Ln(4)

	if len(b.Passengers) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passengers")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		for i, p := range b.Passengers {
			pdf.Cell(0, 6, fmt.Sprintf("%d) %s, %d %s  seat %s", i+1, p.Name, p.Age, orDash(p.Gender), orDash(p.SeatNumber)))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf(
		"Issued %s. Present this ticket when boarding. Cancellations are refunded 90%% up to 72h, 70%% up to 48h and 50%% up to 24h before departure.",
		issuedAt.UTC().Format(ticketTimeLayout)), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
