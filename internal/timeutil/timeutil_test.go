package timeutil

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name        string
		start, end  string
		wantHours   int
		wantMinutes int
	}{
		{"普通班次", "09:00", "17:00", 8, 0},
		{"跨天班次", "22:00", "06:00", 8, 0},
		{"跨天带分钟", "23:30", "07:15", 7, 45},
		{"零时长", "09:00", "09:00", 0, 0},
		{"不足一小时", "09:00", "09:45", 0, 45},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Duration(tc.start, tc.end)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Hours != tc.wantHours || got.Minutes != tc.wantMinutes {
				t.Fatalf("Duration(%s, %s) = %+v, want %dh%dm", tc.start, tc.end, got, tc.wantHours, tc.wantMinutes)
			}
		})
	}
}

func TestDuration_InvalidFormat(t *testing.T) {
	if _, err := Duration("9 am", "17:00"); err == nil {
		t.Fatalf("expected error for invalid clock format, got nil")
	}
	if _, err := Duration("09:00", "25:00"); err == nil {
		t.Fatalf("expected error for out-of-range clock, got nil")
	}
}

func TestNetDuration(t *testing.T) {
	// 跨天班次 23:00-07:00 扣除半小时休息后应该是 7 小时 30 分钟
	got, err := NetDuration("23:00", "07:00", "00:30")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Hours != 7 || got.Minutes != 30 {
		t.Fatalf("NetDuration = %+v, want 7h30m", got)
	}
}

func TestNetDuration_ExactMinutes(t *testing.T) {
	// 净时长的分钟数必须落在 [0, 60) 中，并且总分钟数等于总时长减去休息时长
	cases := []struct {
		start, end, brk string
	}{
		{"09:00", "17:00", "01:00"},
		{"22:00", "06:00", "00:45"},
		{"08:15", "12:40", "00:20"},
		{"13:00", "13:30", "00:29"},
	}

	for _, tc := range cases {
		total, err := Duration(tc.start, tc.end)
		if err != nil {
			t.Fatalf("Duration(%s, %s): %v", tc.start, tc.end, err)
		}
		brk, err := Duration("00:00", tc.brk)
		if err != nil {
			t.Fatalf("Duration(00:00, %s): %v", tc.brk, err)
		}

		net, err := NetDuration(tc.start, tc.end, tc.brk)
		if err != nil {
			t.Fatalf("NetDuration(%s, %s, %s): %v", tc.start, tc.end, tc.brk, err)
		}

		if net.Minutes < 0 || net.Minutes >= 60 {
			t.Fatalf("minutes %d out of [0, 60)", net.Minutes)
		}
		if net.TotalMinutes() != total.TotalMinutes()-brk.TotalMinutes() {
			t.Fatalf("net %d != total %d - break %d", net.TotalMinutes(), total.TotalMinutes(), brk.TotalMinutes())
		}
	}
}

func TestNetDuration_BreakTooLong(t *testing.T) {
	// 休息时间超过班次时长必须报 ErrInvalidShift，不能静默截断成零
	if _, err := NetDuration("09:00", "10:00", "01:30"); !errors.Is(err, domain.ErrInvalidShift) {
		t.Fatalf("expected ErrInvalidShift, got %v", err)
	}
	// 恰好等于班次时长同样非法
	if _, err := NetDuration("09:00", "10:00", "01:00"); !errors.Is(err, domain.ErrInvalidShift) {
		t.Fatalf("expected ErrInvalidShift for break == duration, got %v", err)
	}
}

func TestPosition(t *testing.T) {
	cases := []struct {
		clock      string
		rangeStart int
		rangeEnd   int
		want       float64
	}{
		{"08:00", 8, 20, 0},
		{"20:00", 8, 20, 100},
		{"14:00", 8, 20, 50},
		{"09:30", 8, 20, 12.5},
		{"06:00", 8, 20, 0},   // 区间外截断到 0
		{"22:00", 8, 20, 100}, // 区间外截断到 100
	}

	for _, tc := range cases {
		got, err := Position(tc.clock, tc.rangeStart, tc.rangeEnd)
		if err != nil {
			t.Fatalf("Position(%s, %d, %d): %v", tc.clock, tc.rangeStart, tc.rangeEnd, err)
		}
		if got != tc.want {
			t.Fatalf("Position(%s, %d, %d) = %v, want %v", tc.clock, tc.rangeStart, tc.rangeEnd, got, tc.want)
		}
	}
}

func TestPosition_InvalidRange(t *testing.T) {
	if _, err := Position("09:00", 20, 8); err == nil {
		t.Fatalf("expected error for inverted range, got nil")
	}
}
