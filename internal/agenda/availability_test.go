package agenda

import (
	"reflect"
	"testing"
)

func TestBuildDayAggregates(t *testing.T) {
	entries := []Entry{
		{Date: "2025-12-01", Slots: []string{"10:00-10:30"}, Status: StatusConfirmed},
		{Date: "2025-12-01", Slots: []string{"10:00-10:30"}, Status: StatusCancelled},
		{Date: "2025-12-01", Slots: []string{"11:00"}, Status: StatusConfirmed},
		{Date: "2025-12-02", Slots: nil, Status: StatusReminder},
	}

	got := BuildDayAggregates(entries)
	want := DayAggregates{
		"2025-12-01": {StatusConfirmed: 2, StatusCancelled: 1},
		"2025-12-02": {StatusReminder: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildDayAggregates = %v, want %v", got, want)
	}
}

func TestOccupiedSlotsExcludesCancelled(t *testing.T) {
	entries := []Entry{
		{Date: "2025-12-01", Slots: []string{"10:00-10:30"}, Status: StatusConfirmed},
		{Date: "2025-12-01", Slots: []string{"10:00-10:30"}, Status: StatusCancelled},
		{Date: "2025-12-01", Slots: []string{"11:00", "11:30"}, Status: StatusPending},
		{Date: "2025-12-01", Slots: []string{"12:00"}, Status: StatusReminder},
		{Date: "2025-12-02", Slots: []string{"09:00"}, Status: StatusConfirmed},
	}

	got := OccupiedSlots(entries, "2025-12-01").Sorted()
	want := []string{"10:00-10:30", "11:00", "11:30", "12:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OccupiedSlots = %v, want %v", got, want)
	}

	if OccupiedSlots(entries, "2025-12-03").Contains("09:00") {
		t.Fatal("unexpected occupancy on a date with no bookings")
	}
}

func TestIsDateFullyBooked(t *testing.T) {
	catalogue := []string{"09:00", "09:30", "10:00"}

	t.Run("true when every slot occupied", func(t *testing.T) {
		entries := []Entry{
			{Date: "2025-12-01", Slots: []string{"09:00", "09:30"}, Status: StatusConfirmed},
			{Date: "2025-12-01", Slots: []string{"10:00"}, Status: StatusPending},
		}
		if !IsDateFullyBooked(entries, "2025-12-01", catalogue) {
			t.Fatal("expected date to be fully booked")
		}
	})

	t.Run("false when a slot is missing", func(t *testing.T) {
		entries := []Entry{
			{Date: "2025-12-01", Slots: []string{"09:00", "09:30"}, Status: StatusConfirmed},
		}
		if IsDateFullyBooked(entries, "2025-12-01", catalogue) {
			t.Fatal("expected date not to be fully booked")
		}
	})

	t.Run("cancelled bookings do not fill slots", func(t *testing.T) {
		entries := []Entry{
			{Date: "2025-12-01", Slots: []string{"09:00", "09:30"}, Status: StatusConfirmed},
			{Date: "2025-12-01", Slots: []string{"10:00"}, Status: StatusCancelled},
		}
		if IsDateFullyBooked(entries, "2025-12-01", catalogue) {
			t.Fatal("cancelled booking must not count toward occupancy")
		}
	})

	t.Run("empty catalogue is never fully booked", func(t *testing.T) {
		if IsDateFullyBooked(nil, "2025-12-01", nil) {
			t.Fatal("empty catalogue reported fully booked")
		}
	})
}

func TestSlotCatalogue(t *testing.T) {
	codes, err := SlotCatalogue(TimeOfDay{9, 0}, TimeOfDay{11, 0}, 30)
	if err != nil {
		t.Fatalf("SlotCatalogue returned error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("SlotCatalogue = %v, want %v", codes, want)
	}

	if _, err := SlotCatalogue(TimeOfDay{11, 0}, TimeOfDay{9, 0}, 30); err == nil {
		t.Fatal("expected error for inverted business hours")
	}
	if _, err := SlotCatalogue(TimeOfDay{9, 0}, TimeOfDay{11, 0}, 0); err == nil {
		t.Fatal("expected error for non-positive step")
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []Status{StatusConfirmed, StatusPending, StatusCancelled, StatusReminder} {
		if !KnownStatus(s) {
			t.Fatalf("KnownStatus(%q) = false", s)
		}
	}
	if KnownStatus("archived") {
		t.Fatal("KnownStatus accepted an unknown literal")
	}
}
