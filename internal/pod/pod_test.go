package pod

import (
	"encoding/binary"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/seagrayinc/hp48-redeye/pkg/hp48"
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

func TestEdgeReportRoundTrip(t *testing.T) {
	c := qt.New(t)

	var events []Event
	for i := 0; i < 45; i++ {
		ev := Event{Counter: uint16(i * 1000)}
		if i%7 == 0 {
			ev.Overflow = true
			ev.Counter = 0
		}
		events = append(events, ev)
	}

	reports := EdgeReports(events)
	c.Assert(reports, qt.HasLen, 3)
	for i, counts := range []byte{20, 20, 5} {
		c.Assert(reports[i].ID, qt.Equals, EdgeReportID)
		c.Assert(reports[i].Data, qt.HasLen, PayloadLen)
		c.Assert(reports[i].Data[0], qt.Equals, counts)
	}

	var got []Event
	for _, r := range reports {
		parsed, err := ParseEdgeReport(r.Data)
		c.Assert(err, qt.IsNil)
		got = append(got, parsed...)
	}
	c.Assert(got, qt.DeepEquals, events)
}

func TestEdgeReportLayout(t *testing.T) {
	c := qt.New(t)

	reports := EdgeReports([]Event{
		{Counter: 0x1234},
		{Overflow: true},
	})
	c.Assert(reports, qt.HasLen, 1)

	data := reports[0].Data
	c.Assert(data[0], qt.Equals, byte(2))
	c.Assert(data[1], qt.Equals, itemEdge)
	c.Assert(data[2], qt.Equals, byte(0x34))
	c.Assert(data[3], qt.Equals, byte(0x12))
	c.Assert(data[4], qt.Equals, itemOverflow)
}

func TestEdgeReportsEmpty(t *testing.T) {
	c := qt.New(t)

	c.Assert(EdgeReports(nil), qt.HasLen, 0)

	events, err := ParseEdgeReport(make([]byte, PayloadLen))
	c.Assert(err, qt.IsNil)
	c.Assert(events, qt.HasLen, 0)
}

func TestParseEdgeReportErrors(t *testing.T) {
	c := qt.New(t)

	short := make([]byte, 7)
	short[0] = 5

	unknown := make([]byte, PayloadLen)
	unknown[0] = 1
	unknown[1] = 0x02

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty payload", nil, ErrShortReport},
		{"count beyond max", []byte{MaxItems + 1}, ErrBadItemCount},
		{"truncated items", short, ErrShortReport},
		{"unknown item kind", unknown, ErrUnknownKind},
	}
	for _, tt := range tests {
		_, err := ParseEdgeReport(tt.data)
		c.Assert(err, qt.ErrorIs, tt.want, qt.Commentf("%s", tt.name))
	}
}

func TestScheduleReports(t *testing.T) {
	c := qt.New(t)

	s := redeye.Schedule{
		{Carrier: true, Duration: redeye.BurstTime},
		{Duration: redeye.Low1Time},
		{Duration: redeye.Low3Time},
		{Duration: 400 * time.Nanosecond}, // rounds to zero, dropped
		{Duration: redeye.SettleTime},
	}
	reports := ScheduleReports(s)
	c.Assert(reports, qt.HasLen, 1)
	c.Assert(reports[0].ID, qt.Equals, ScheduleReportID)
	c.Assert(reports[0].Data, qt.HasLen, PayloadLen)

	data := reports[0].Data
	c.Assert(data[0], qt.Equals, byte(4))

	kinds := []byte{itemCarrier, itemIdle, itemIdle, itemIdle}
	micros := []uint16{242, 185, 612, 31950}
	for i := range kinds {
		off := 1 + i*3
		c.Assert(data[off], qt.Equals, kinds[i], qt.Commentf("item %d", i))
		c.Assert(binary.LittleEndian.Uint16(data[off+1:]), qt.Equals, micros[i], qt.Commentf("item %d", i))
	}
}

func TestScheduleReportsSplitLongSpan(t *testing.T) {
	c := qt.New(t)

	s := redeye.Schedule{{Duration: 80 * time.Millisecond}}
	reports := ScheduleReports(s)
	c.Assert(reports, qt.HasLen, 1)

	parsed, err := ParseScheduleReport(reports[0].Data)
	c.Assert(err, qt.IsNil)
	c.Assert(parsed, qt.DeepEquals, redeye.Schedule{
		{Duration: 65535 * time.Microsecond},
		{Duration: 14465 * time.Microsecond},
	})
}

func TestScheduleRoundTrip(t *testing.T) {
	c := qt.New(t)

	s := hp48.Transmission(hp48.RequestCount())
	reports := ScheduleReports(s)
	c.Assert(reports, qt.HasLen, (len(s)+MaxItems-1)/MaxItems)

	var got redeye.Schedule
	for _, r := range reports {
		parsed, err := ParseScheduleReport(r.Data)
		c.Assert(err, qt.IsNil)
		got = append(got, parsed...)
	}

	// No span in a transmission exceeds one item, so the round trip
	// only rounds durations to whole microseconds.
	want := make(redeye.Schedule, 0, len(s))
	for _, p := range s {
		us := (p.Duration + 500*time.Nanosecond) / time.Microsecond
		want = append(want, redeye.Pulse{Carrier: p.Carrier, Duration: us * time.Microsecond})
	}
	c.Assert(got, qt.DeepEquals, want)
}

func TestParseScheduleReportErrors(t *testing.T) {
	c := qt.New(t)

	unknown := make([]byte, PayloadLen)
	unknown[0] = 1
	unknown[1] = 0x05

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty payload", nil, ErrShortReport},
		{"count beyond max", []byte{MaxItems + 1}, ErrBadItemCount},
		{"unknown item kind", unknown, ErrUnknownKind},
	}
	for _, tt := range tests {
		_, err := ParseScheduleReport(tt.data)
		c.Assert(err, qt.ErrorIs, tt.want, qt.Commentf("%s", tt.name))
	}
}
