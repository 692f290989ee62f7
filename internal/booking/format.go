package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateRange is returned when checkin is not strictly before checkout.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrInvalidDate is returned for dates not in YYYY-MM-DD form or outside the calendar.
var ErrInvalidDate = errors.New("invalid date")

// monthNames maps time.Month to its Indonesian name.
var monthNames = map[time.Month]string{
	time.January:   "Januari",
	time.February:  "Februari",
	time.March:     "Maret",
	time.April:     "April",
	time.May:       "Mei",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "Agustus",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Desember",
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date as "<day> <Indonesian month name> <year>",
// e.g. "26 September 2025".
func FormatDate(t time.Time) (string, error) {
	name, ok := monthNames[t.Month()]
	if !ok {
		return "", fmt.Errorf("%w: month %d has no name", ErrInvalidDate, t.Month())
	}
	return fmt.Sprintf("%d %s %d", t.Day(), name, t.Year()), nil
}

// FormatText renders an availability response as human-readable Indonesian
// lines, prefixed with a localized date-range header. The output is the text
// blob that gets chunked and embedded.
func FormatText(a *Availability) (string, error) {
	checkinText, err := FormatDate(a.Checkin)
	if err != nil {
		return "", err
	}
	checkoutText, err := FormatDate(a.Checkout)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ketersediaan Kamar untuk tanggal : %s sampai %s\n", checkinText, checkoutText)
	for i, room := range a.Rooms {
		fmt.Fprintf(&b, "\n%d. Tipe Kamar : %s\n", i+1, room.Name)
		fmt.Fprintf(&b, "Jumlah Tersedia : %d\n", room.AvailableRoom)
		fmt.Fprintf(&b, "Jenis Tempat Tidur : %s\n", room.BedType)
		for _, offer := range room.Offers {
			fmt.Fprintf(&b, "Penawaran: %s, Harga: %s\n", offer.Name, offer.Price)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
