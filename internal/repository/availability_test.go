package repository

import "testing"

func TestLocked(t *testing.T) {
	cutoff := "2026-06-15"

	tests := []struct {
		name   string
		cutoff *string
		date   string
		want   bool
	}{
		{name: "没有设置锁定日期", cutoff: nil, date: "2026-06-01", want: false},
		{name: "早于锁定日期", cutoff: &cutoff, date: "2026-06-14", want: true},
		{name: "等于锁定日期", cutoff: &cutoff, date: "2026-06-15", want: false},
		{name: "晚于锁定日期", cutoff: &cutoff, date: "2026-06-16", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := locked(tt.cutoff, tt.date); got != tt.want {
				t.Fatalf("locked(%v, %s) = %v，预期 %v", tt.cutoff, tt.date, got, tt.want)
			}
		})
	}
}
