// Package pod speaks the wire format of the USB IR pod: the dongle
// carrying the 33 kHz emitter and sensor. The host sends pulse
// schedule reports; the pod streams back edge event reports from its
// capture counter.
package pod

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

// VID/PID the pod enumerates with.
const (
	VendorID  uint16 = 0x04D8
	ProductID uint16 = 0xF4B9
)

const (
	EdgeReportID     byte = 0x01
	ScheduleReportID byte = 0x02

	// Both report types carry a count byte plus up to 20 three-byte
	// items, zero-padded to a fixed payload.
	MaxItems   = 20
	PayloadLen = 1 + MaxItems*3

	// The pod's capture counter runs at 250 kHz. Edge timestamps and
	// the decoder's width bands are expressed in these ticks.
	CaptureTick = 4 * time.Microsecond
)

// ReportLengths gives the full report size, ID byte included, per
// report ID.
var ReportLengths = map[byte]int{
	EdgeReportID:     PayloadLen + 1,
	ScheduleReportID: PayloadLen + 1,
}

// Edge report item kinds.
const (
	itemEdge     byte = 0x00
	itemOverflow byte = 0x01
)

// Schedule report item kinds.
const (
	itemIdle    byte = 0x00
	itemCarrier byte = 0x01
)

var (
	ErrShortReport  = errors.New("short report payload")
	ErrBadItemCount = errors.New("bad report item count")
	ErrUnknownKind  = errors.New("unknown report item kind")
)

// Event is one entry of an edge report: either an input edge with the
// capture counter value at the transition, or a counter overflow
// marker. The pod emits items in capture order, so overflow markers
// sit between the edges they separate.
type Event struct {
	Overflow bool
	Counter  uint16
}

// EdgeReports packs capture events into pod edge reports, at most
// MaxItems per report.
func EdgeReports(events []Event) []hid.Report {
	var reports []hid.Report
	for len(events) > 0 {
		n := len(events)
		if n > MaxItems {
			n = MaxItems
		}
		data := make([]byte, PayloadLen)
		data[0] = byte(n)
		for i, ev := range events[:n] {
			off := 1 + i*3
			if ev.Overflow {
				data[off] = itemOverflow
			} else {
				data[off] = itemEdge
			}
			binary.LittleEndian.PutUint16(data[off+1:], ev.Counter)
		}
		reports = append(reports, hid.Report{ID: EdgeReportID, Data: data})
		events = events[n:]
	}
	return reports
}

// ParseEdgeReport decodes one edge report payload.
func ParseEdgeReport(data []byte) ([]Event, error) {
	if len(data) < 1 {
		return nil, ErrShortReport
	}
	n := int(data[0])
	if n > MaxItems {
		return nil, fmt.Errorf("%w: %d", ErrBadItemCount, n)
	}
	if len(data) < 1+n*3 {
		return nil, fmt.Errorf("%w: %d items in %d bytes", ErrShortReport, n, len(data))
	}

	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		off := 1 + i*3
		ev := Event{Counter: binary.LittleEndian.Uint16(data[off+1:])}
		switch data[off] {
		case itemEdge:
		case itemOverflow:
			ev.Overflow = true
		default:
			return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownKind, data[off])
		}
		events = append(events, ev)
	}
	return events, nil
}

// ScheduleReports renders a pulse schedule into pod output reports.
// Durations go on the wire in whole microseconds; spans too long for
// one item are split. The pod executes reports back to back in
// arrival order.
func ScheduleReports(s redeye.Schedule) []hid.Report {
	type item struct {
		kind byte
		us   uint16
	}
	var items []item
	for _, p := range s {
		kind := itemIdle
		if p.Carrier {
			kind = itemCarrier
		}
		us := (p.Duration + 500*time.Nanosecond) / time.Microsecond
		for us > 0xFFFF {
			items = append(items, item{kind, 0xFFFF})
			us -= 0xFFFF
		}
		if us > 0 {
			items = append(items, item{kind, uint16(us)})
		}
	}

	var reports []hid.Report
	for len(items) > 0 {
		n := len(items)
		if n > MaxItems {
			n = MaxItems
		}
		data := make([]byte, PayloadLen)
		data[0] = byte(n)
		for i, it := range items[:n] {
			off := 1 + i*3
			data[off] = it.kind
			binary.LittleEndian.PutUint16(data[off+1:], it.us)
		}
		reports = append(reports, hid.Report{ID: ScheduleReportID, Data: data})
		items = items[n:]
	}
	return reports
}

// ParseScheduleReport decodes one schedule report payload back into
// pulses. The simulator uses this to stand in for the pod firmware.
func ParseScheduleReport(data []byte) (redeye.Schedule, error) {
	if len(data) < 1 {
		return nil, ErrShortReport
	}
	n := int(data[0])
	if n > MaxItems {
		return nil, fmt.Errorf("%w: %d", ErrBadItemCount, n)
	}
	if len(data) < 1+n*3 {
		return nil, fmt.Errorf("%w: %d items in %d bytes", ErrShortReport, n, len(data))
	}

	s := make(redeye.Schedule, 0, n)
	for i := 0; i < n; i++ {
		off := 1 + i*3
		us := binary.LittleEndian.Uint16(data[off+1:])
		p := redeye.Pulse{Duration: time.Duration(us) * time.Microsecond}
		switch data[off] {
		case itemIdle:
		case itemCarrier:
			p.Carrier = true
		default:
			return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownKind, data[off])
		}
		s = append(s, p)
	}
	return s, nil
}
