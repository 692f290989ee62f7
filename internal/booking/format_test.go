package booking

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFormatDate_AllMonths(t *testing.T) {
	want := []string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	for m := 1; m <= 12; m++ {
		date := fmt.Sprintf("2025-%02d-15", m)
		parsed, err := ParseDate(date)
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		got, err := FormatDate(parsed)
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		if got != fmt.Sprintf("15 %s 2025", want[m-1]) {
			t.Errorf("month %d: got %q", m, got)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"2025-13-01", "2025-02-30", "26-09-2025", "not-a-date", ""} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestFormatText(t *testing.T) {
	in, _ := ParseDate("2025-09-26")
	out, _ := ParseDate("2025-09-27")
	a := &Availability{
		Checkin:  in,
		Checkout: out,
		Rooms: []Room{
			{
				Name:          "Deluxe King",
				AvailableRoom: 3,
				BedType:       "King",
				Offers:        []Offer{{Name: "Room Only", Price: "IDR 550.000"}},
			},
			{Name: "Superior Twin", AvailableRoom: 0, BedType: "Twin"},
		},
	}
	text, err := FormatText(a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "Ketersediaan Kamar untuk tanggal : 26 September 2025 sampai 27 September 2025") {
		t.Errorf("header wrong: %q", text)
	}
	for _, want := range []string{
		"1. Tipe Kamar : Deluxe King",
		"Jumlah Tersedia : 3",
		"Jenis Tempat Tidur : King",
		"Penawaran: Room Only, Harga: IDR 550.000",
		"2. Tipe Kamar : Superior Twin",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing line %q in:\n%s", want, text)
		}
	}
}

func TestFormatText_BadMonth(t *testing.T) {
	a := &Availability{Checkin: time.Time{}, Checkout: time.Time{}}
	// Zero time is January 1, year 1: still a valid month, so this must not fail.
	if _, err := FormatText(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
