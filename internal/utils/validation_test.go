package utils

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func TestDatesInRange(t *testing.T) {
	dates, err := DatesInRange("2024-06-10", "2024-06-12")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	if dates[0] != "2024-06-10" || dates[2] != "2024-06-12" {
		t.Fatalf("unexpected dates: %v", dates)
	}

	// 单日区间包含它自己
	dates, err = DatesInRange("2024-06-10", "2024-06-10")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}

	// 跨月
	dates, err = DatesInRange("2024-06-29", "2024-07-02")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dates) != 4 || dates[2] != "2024-07-01" {
		t.Fatalf("unexpected dates across month boundary: %v", dates)
	}
}

func TestDatesInRange_Invalid(t *testing.T) {
	if _, err := DatesInRange("2024-06-12", "2024-06-10"); err == nil {
		t.Fatalf("expected error for inverted range, got nil")
	}
	if _, err := DatesInRange("06/10/2024", "2024-06-12"); err == nil {
		t.Fatalf("expected error for bad format, got nil")
	}
}

func TestValidateTimeSlots(t *testing.T) {
	valid := []domain.TimeSlot{
		{StartTime: "09:00", EndTime: "17:00", Status: domain.StatusAvailable},
		{StartTime: "22:00", EndTime: "06:00", Status: domain.StatusUnavailable}, // 跨天合法
	}
	if err := ValidateTimeSlots(valid); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ValidateTimeSlots(nil); err == nil {
		t.Fatalf("expected error for empty slots, got nil")
	}

	badFormat := []domain.TimeSlot{{StartTime: "9am", EndTime: "17:00", Status: domain.StatusAvailable}}
	if err := ValidateTimeSlots(badFormat); err == nil {
		t.Fatalf("expected error for bad clock format, got nil")
	}

	badStatus := []domain.TimeSlot{{StartTime: "09:00", EndTime: "17:00", Status: "摸鱼"}}
	if err := ValidateTimeSlots(badStatus); err == nil {
		t.Fatalf("expected error for unknown status, got nil")
	}
}

func TestValidateShift(t *testing.T) {
	ok := &domain.Shift{Role: "接线员", StartTime: "23:00", EndTime: "07:00", BreakDuration: "00:30"}
	if err := ValidateShift(ok); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	breakTooLong := &domain.Shift{Role: "接线员", StartTime: "09:00", EndTime: "10:00", BreakDuration: "02:00"}
	if err := ValidateShift(breakTooLong); !errors.Is(err, domain.ErrInvalidShift) {
		t.Fatalf("expected ErrInvalidShift, got %v", err)
	}

	noRole := &domain.Shift{StartTime: "09:00", EndTime: "17:00", BreakDuration: "00:30"}
	if err := ValidateShift(noRole); err == nil {
		t.Fatalf("expected error for empty role, got nil")
	}
}
