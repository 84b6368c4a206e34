package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"takemeto75/trip"
)

// GenerateItineraryPDF renders a one-page itinerary for a package and
// returns the raw bytes.
func GenerateItineraryPDF(pkg trip.TripPackage) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("TakeMeTo75 itinerary "+pkg.ID, true)
	pdf.AddPage()
	// Core fonts are cp1252; translate names and reasoning that carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "TakeMeTo75", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tierTitle(pkg.Tier)+" package - somewhere sunny and 75", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Disclaimer ───────────────────────────────────────────
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	pdf.MultiCell(164, 4, itineraryDisclaimer(pkg.Degraded), "", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Destination ───────────────────────────────────────────
	dest := pkg.Destination
	sectionHeader("Destination")
	row("City", fmt.Sprintf("%s, %s (%s)", dest.City, dest.Country, dest.Airport))
	row("Weather", fmt.Sprintf("%.0f F, %s", dest.Weather.AvgTemp, dest.Weather.Condition))
	row("Dates", fmt.Sprintf("%s to %s (%d nights)", pkg.Dates.Display.CheckIn, pkg.Dates.Display.CheckOut, pkg.Dates.Nights))
	pdf.Ln(4)

	// ── Flight ────────────────────────────────────────────────
	f := pkg.Flight
	sectionHeader("Flight")
	row("Airline", fmt.Sprintf("%s, %s", f.Airline, cabinTitle(f.CabinClass)))
	row("Outbound", formatFlightLeg(f.Outbound))
	row("Return", formatFlightLeg(f.Inbound))
	row("Baggage", yesNoText(f.BaggageIncluded, "Checked bag included", "Carry-on only"))
	row("Price", fmt.Sprintf("$%.2f round-trip", f.Price))
	pdf.Ln(4)

	// ── Hotel ─────────────────────────────────────────────────
	h := pkg.Hotel
	sectionHeader("Hotel")
	row("Hotel", fmt.Sprintf("%s (%d stars)", h.Name, h.StarRating))
	if h.Address != "" {
		row("Address", h.Address)
	}
	if h.ReviewScore > 0 {
		row("Reviews", fmt.Sprintf("%.0f/100 from %d reviews", h.ReviewScore, h.ReviewCount))
	}
	row("Room", h.RoomType)
	row("Check-in", fmtDateReadable(pkg.Dates.CheckIn))
	row("Check-out", fmtDateReadable(pkg.Dates.CheckOut))
	row("Price", fmt.Sprintf("$%.2f/night x %d nights = $%.2f", h.NightlyRate(pkg.Dates.Nights), pkg.Dates.Nights, h.Price))
	pdf.Ln(4)

	// ── Cost Summary ──────────────────────────────────────────
	sectionHeader("Price")
	row("Flight", fmt.Sprintf("$%.2f", pkg.Breakdown.Flight))
	row("Hotel", fmt.Sprintf("$%.2f", pkg.Breakdown.Hotel))
	row("Package fee", fmt.Sprintf("$%.2f", pkg.Breakdown.Markup))

	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.2f %s", pkg.TotalPrice, pkg.Currency), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if pkg.Reasoning != "" {
		sectionHeader("Why this package")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, tr(pkg.Reasoning), "", "L", false)
		pdf.Ln(4)
	}

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		fmt.Sprintf("Package %s - generated %s", pkg.ID, pkg.CreatedAt.UTC().Format("02 Jan 2006, 15:04 UTC")),
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func itineraryDisclaimer(degraded bool) string {
	if degraded {
		return "ESTIMATED PRICES - live availability was unavailable for part of this package. " +
			"This is NOT a booking confirmation. Verify all prices before booking."
	}
	return "This is NOT a booking confirmation. Prices are quoted at search time and subject to change until booked."
}

func tierTitle(t trip.Tier) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func cabinTitle(c trip.CabinClass) string {
	return titleCase(strings.ReplaceAll(string(c), "_", " "))
}

func yesNoText(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func fmtDateReadable(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}

func formatFlightLeg(s trip.Segment) string {
	dep, ok1 := parseTimestamp(s.Departure.Time)
	arr, ok2 := parseTimestamp(s.Arrival.Time)
	if !ok1 || !ok2 {
		if s.Departure.Airport == "" {
			return "N/A"
		}
		return s.Departure.Airport + " - " + s.Arrival.Airport
	}
	result := fmt.Sprintf("%s %s - %s %s",
		s.Departure.Airport, dep.Format("02 Jan 15:04"),
		s.Arrival.Airport, arr.Format("02 Jan 15:04"))
	if s.Duration != "" {
		result += fmt.Sprintf(" (%s", s.Duration)
		if s.Stops > 0 {
			result += fmt.Sprintf(", %d stop(s)", s.Stops)
		}
		result += ")"
	}
	return result
}
