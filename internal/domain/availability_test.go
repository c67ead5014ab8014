package domain

import "testing"

func TestAggregateStatus(t *testing.T) {
	cases := []struct {
		name  string
		slots []TimeSlot
		want  AvailabilityStatus
	}{
		{
			"全部空闲",
			[]TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
				{StartTime: "13:00", EndTime: "17:00", Status: StatusAvailable},
			},
			StatusAvailable,
		},
		{
			"全部不空闲",
			[]TimeSlot{
				{StartTime: "00:00", EndTime: "23:59", Status: StatusUnavailable},
			},
			StatusUnavailable,
		},
		{
			"混合",
			[]TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
				{StartTime: "13:00", EndTime: "17:00", Status: StatusUnavailable},
			},
			StatusPartial,
		},
		{
			"包含部分空闲",
			[]TimeSlot{
				{StartTime: "09:00", EndTime: "17:00", Status: StatusPartial},
			},
			StatusPartial,
		},
		{
			"空列表没有意义",
			[]TimeSlot{},
			StatusNotSpecified,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AggregateStatus(tc.slots); got != tc.want {
				t.Fatalf("AggregateStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestStatusColor(t *testing.T) {
	cases := []struct {
		status AvailabilityStatus
		want   string
	}{
		{StatusAvailable, "green"},
		{StatusUnavailable, "red"},
		{StatusPartial, "yellow"},
		{StatusTentative, "blue"},
		{StatusOnLeave, "purple"},
		{StatusNotSpecified, "gray"},
		{AvailabilityStatus("随便什么"), "gray"},
	}

	for _, tc := range cases {
		if got := StatusColor(tc.status); got != tc.want {
			t.Fatalf("StatusColor(%s) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestPresetExpandSlots(t *testing.T) {
	preset := &AvailabilityPreset{
		Name: "标准班 (9-5)",
		Slots: []PresetSlot{
			{StartTime: "09:00", EndTime: "17:00"},
			{StartTime: "18:00", EndTime: "20:00", Status: StatusUnavailable},
		},
	}

	slots := preset.ExpandSlots()
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	// 模板中未指定状态的时间段默认为空闲
	if slots[0].Status != StatusAvailable {
		t.Fatalf("expected default status 空闲, got %s", slots[0].Status)
	}
	if slots[1].Status != StatusUnavailable {
		t.Fatalf("expected explicit status to be kept, got %s", slots[1].Status)
	}
}
