package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// DocsService renders booking e-tickets and payment receipts as PDFs.
type DocsService struct {
	DB          *sql.DB
	BookingRepo repositories.BookingRepository
	PaymentRepo repositories.PaymentRepository
	CatalogRepo repositories.CatalogRepository
	UserRepo    repositories.UserRepository
	RequestID   string
}

type bookingDocData struct {
	BookingID    int64
	CustomerName string
	TourName     string
	VehicleName  string
	GuideName    string
	DriverName   string
	StartDate    string
	EndDate      string
	PeopleCount  int
	TotalPrice   float64
	Status       string
	PaidMethod   string
	PaidTxRef    string
}

// GenerateETicket builds the customer-facing trip ticket.
func (s DocsService) GenerateETicket(bookingID, customerID int64) ([]byte, string, error) {
	d, err := s.loadBookingDocData(bookingID, customerID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	return buildETicketPDF(d)
}

// GenerateReceipt builds the payment receipt; it requires a completed
// payment on the booking.
func (s DocsService) GenerateReceipt(bookingID, customerID int64) ([]byte, string, error) {
	d, err := s.loadBookingDocData(bookingID, customerID)
	if err != nil {
		return nil, "", err
	}
	if d.PaidTxRef == "" {
		return nil, "", domain.NotFoundError{Resource: "payment"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(d)
}

func (s DocsService) loadBookingDocData(bookingID, customerID int64) (bookingDocData, error) {
	var out bookingDocData
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return out, err
	}
	if b.CustomerID != customerID {
		return out, domain.PermissionError{Msg: "not your booking"}
	}

	out.BookingID = b.ID
	out.StartDate = b.StartDate
	out.EndDate = b.EndDate
	out.PeopleCount = b.PeopleCount
	out.TotalPrice = b.TotalPrice
	out.Status = b.Status

	if customer, err := s.UserRepo.GetByID(s.DB, b.CustomerID); err == nil {
		out.CustomerName = customer.Name
	}
	if b.TourID != nil {
		if tour, err := s.CatalogRepo.GetTour(s.DB, *b.TourID); err == nil {
			out.TourName = tour.Name
		}
	}
	if b.VehicleID != nil {
		if vehicle, err := s.CatalogRepo.GetVehicle(s.DB, *b.VehicleID); err == nil {
			out.VehicleName = vehicle.Name
		}
	}
	if b.TourGuideID != nil {
		if guide, err := s.UserRepo.GetByID(s.DB, *b.TourGuideID); err == nil {
			out.GuideName = guide.Name
		}
	}
	if b.DriverID != nil {
		if driver, err := s.UserRepo.GetByID(s.DB, *b.DriverID); err == nil {
			out.DriverName = driver.Name
		}
	}
	if p, err := s.PaymentRepo.GetCompletedByBooking(s.DB, bookingID); err == nil {
		out.PaidMethod = p.Method
		out.PaidTxRef = p.TxRef
	}
	return out, nil
}

func buildETicketPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TES TOUR E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : #%d", d.BookingID),
		fmt.Sprintf("Customer       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Tour           : %s", safe(d.TourName, "-")),
		fmt.Sprintf("Vehicle        : %s", safe(d.VehicleName, "-")),
		fmt.Sprintf("Tour guide     : %s", safe(d.GuideName, "to be assigned")),
		fmt.Sprintf("Driver         : %s", safe(d.DriverName, "to be assigned")),
		fmt.Sprintf("Dates          : %s to %s", safe(d.StartDate, "-"), safe(d.EndDate, "-")),
		fmt.Sprintf("People         : %d", d.PeopleCount),
		fmt.Sprintf("Status         : %s", d.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket to your tour guide at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.BookingID, safeFilenamePart(d.CustomerName))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt no     : RCP-%d", d.BookingID),
		fmt.Sprintf("Date           : %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Customer       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Booking        : #%d", d.BookingID),
		fmt.Sprintf("Dates          : %s to %s", safe(d.StartDate, "-"), safe(d.EndDate, "-")),
		fmt.Sprintf("Method         : %s", safe(d.PaidMethod, "-")),
		fmt.Sprintf("Reference      : %s", safe(d.PaidTxRef, "-")),
		fmt.Sprintf("Total paid     : %s", utils.FormatMoney(d.TotalPrice)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%d.pdf", d.BookingID)
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "booking"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
