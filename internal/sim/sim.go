// Package sim provides a loopback pod for tests and demos. Pulse
// schedules written to the device are demodulated in software and
// come back as the edge reports a physical pod would produce, so the
// whole transport stack can run without hardware.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/internal/pod"
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

// Demod selects how the simulated receiver turns carrier bursts into
// demodulator marks.
type Demod int

const (
	// DemodMatched models a receiver tuned to the protocol cell grid:
	// a burst in the first half of a bit cell becomes a three quarter
	// mark, a burst in the second half a one quarter mark. This is
	// the waveform the decoder's quarter walk expects.
	DemodMatched Demod = iota

	// DemodEnvelope reports the raw carrier envelope: one mark
	// exactly as long as each burst. Bursts sit on even quarters
	// while the decoder samples odd ones, so frames decode to zero
	// bytes. Useful to demonstrate why a plain envelope detector
	// cannot drive the decoder.
	DemodEnvelope
)

// A frame ends at the first dark stretch longer than this. Within a
// frame the longest gap between bursts is just over one millisecond;
// the stop gap that follows every frame is twice that.
const frameGapMin = redeye.StopTime / 2

const quarter = redeye.HalfBitTime / 2

// Device is a loopback hid.Device. Set Demod before the first write.
type Device struct {
	Demod Demod

	mu     sync.Mutex
	pulses redeye.Schedule
	clock  time.Duration // absolute time at the start of pulses[0]
	base   uint64        // counter ticks already accounted as overflows
	closed bool

	reports chan hid.Report
}

func NewDevice() *Device {
	return &Device{
		reports: make(chan hid.Report, 64),
	}
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.reports)
	}
	return nil
}

// WriteReport accepts a schedule report, replays it through the
// simulated receiver and queues the resulting edge reports.
func (d *Device) WriteReport(_ context.Context, r hid.Report) error {
	if r.ID != pod.ScheduleReportID {
		return fmt.Errorf("unexpected report id 0x%02X", r.ID)
	}

	sched, err := pod.ParseScheduleReport(r.Data)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("device closed")
	}

	// Schedules may be split across reports mid pulse, so adjacent
	// pulses at the same level are merged back together.
	for _, p := range sched {
		if n := len(d.pulses); n > 0 && d.pulses[n-1].Carrier == p.Carrier {
			d.pulses[n-1].Duration += p.Duration
			continue
		}
		d.pulses = append(d.pulses, p)
	}

	d.pump()
	return nil
}

// pump peels complete frames off the front of the pulse timeline and
// emits their edges. A trailing frame is left in place until the dark
// gap that ends it has arrived.
func (d *Device) pump() {
	for {
		for len(d.pulses) > 0 && !d.pulses[0].Carrier {
			d.clock += d.pulses[0].Duration
			d.pulses = d.pulses[1:]
		}

		end := -1
		for i, p := range d.pulses {
			if !p.Carrier && p.Duration >= frameGapMin {
				end = i
				break
			}
		}
		if end < 0 {
			return
		}

		d.emitFrame(d.pulses[:end])
		for _, p := range d.pulses[:end] {
			d.clock += p.Duration
		}
		d.pulses = d.pulses[end:]
	}
}

func (d *Device) emitFrame(frame redeye.Schedule) {
	var offsets []time.Duration

	switch d.Demod {
	case DemodEnvelope:
		var o time.Duration
		for _, p := range frame {
			if p.Carrier {
				offsets = append(offsets, o, o+p.Duration)
			}
			o += p.Duration
		}

	default:
		var o time.Duration
		for _, p := range frame {
			if p.Carrier {
				q := int((o + quarter/2) / quarter)
				mark := 1
				if q >= 6 && (q-6)%4 == 0 {
					// Burst in the first half of its bit cell.
					mark = 3
				}
				offsets = append(offsets,
					time.Duration(q)*quarter,
					time.Duration(q+mark)*quarter)
			}
			o += p.Duration
		}
	}

	events := make([]pod.Event, 0, len(offsets))
	for _, o := range offsets {
		tick := uint64((d.clock + o) / pod.CaptureTick)
		for tick-d.base >= 1<<16 {
			events = append(events, pod.Event{Overflow: true})
			d.base += 1 << 16
		}
		events = append(events, pod.Event{Counter: uint16(tick - d.base)})
	}

	for _, r := range pod.EdgeReports(events) {
		select {
		case d.reports <- r:
		default:
			slog.Warn("dropping edge report, queue full")
		}
	}
}

func (d *Device) PollReports(ctx context.Context) <-chan hid.Report {
	out := make(chan hid.Report)

	go func() {
		defer close(out)
		for {
			select {
			case r, ok := <-d.reports:
				if !ok {
					return
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
