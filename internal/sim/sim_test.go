package sim

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/seagrayinc/hp48-redeye/internal/pod"
	"github.com/seagrayinc/hp48-redeye/pkg/hp48"
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

// writeSchedule plays a command's schedule into the device the way
// the transport would.
func writeSchedule(c *qt.C, d *Device, cmd hp48.Command) {
	for _, r := range pod.ScheduleReports(hp48.Transmission(cmd)) {
		c.Assert(d.WriteReport(context.Background(), r), qt.IsNil)
	}
}

// drainEvents collects exactly want events from the device's report
// stream.
func drainEvents(c *qt.C, d *Device, want int) []pod.Event {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	reportChan := d.PollReports(ctx)
	var events []pod.Event
	for len(events) < want {
		select {
		case r, ok := <-reportChan:
			if !ok {
				c.Fatalf("report stream closed after %d events", len(events))
			}
			c.Assert(r.ID, qt.Equals, pod.EdgeReportID)
			evs, err := pod.ParseEdgeReport(r.Data)
			c.Assert(err, qt.IsNil)
			events = append(events, evs...)
		case <-ctx.Done():
			c.Fatalf("timed out after %d of %d events", len(events), want)
		}
	}
	return events
}

// edgeTimes widens the event stream to absolute tick timestamps,
// dropping the overflow markers.
func edgeTimes(events []pod.Event) []uint64 {
	var base uint64
	var times []uint64
	for _, ev := range events {
		if ev.Overflow {
			base += 1 << 16
			continue
		}
		times = append(times, base+uint64(ev.Counter))
	}
	return times
}

func decodeFrame(times []uint64, frame int) byte {
	var window [redeye.EventsPerFrame]uint64
	copy(window[:], times[frame*redeye.EventsPerFrame:])
	return redeye.DecodeWindow(window)
}

func TestMatchedDemodulation(t *testing.T) {
	c := qt.New(t)

	d := NewDevice()
	defer d.Close()
	writeSchedule(c, d, hp48.RequestCount())

	// 11 frames on the wire, 30 edges each, and the whole schedule
	// runs well inside one counter period.
	events := drainEvents(c, d, 330)
	times := edgeTimes(events)
	c.Assert(times, qt.HasLen, 330)

	transmitted := []byte{0x1B, 0xF9, 'Y', 'P', '3', 'M', 'I', 'O', 'F', 0x0C, 0x04}
	for i, want := range transmitted {
		c.Assert(decodeFrame(times, i), qt.Equals, want, qt.Commentf("frame %d", i))
	}
}

func TestEnvelopeDemodulation(t *testing.T) {
	c := qt.New(t)

	d := NewDevice()
	d.Demod = DemodEnvelope
	defer d.Close()
	writeSchedule(c, d, hp48.RequestCount())

	events := drainEvents(c, d, 330)
	times := edgeTimes(events)

	// Envelope marks hug the bursts on even quarters; every sample
	// position falls in a gap and every frame reads zero.
	for i := 0; i < 11; i++ {
		c.Assert(decodeFrame(times, i), qt.Equals, byte(0), qt.Commentf("frame %d", i))
	}
}

func TestCounterOverflow(t *testing.T) {
	c := qt.New(t)

	d := NewDevice()
	defer d.Close()
	writeSchedule(c, d, hp48.RequestCount())
	writeSchedule(c, d, hp48.RequestCount())

	// Two back to back commands run past one counter period, so the
	// stream carries exactly one overflow marker among the 660 edges.
	events := drainEvents(c, d, 661)
	var overflows int
	for _, ev := range events {
		if ev.Overflow {
			overflows++
		}
	}
	c.Assert(overflows, qt.Equals, 1)

	times := edgeTimes(events)
	c.Assert(times, qt.HasLen, 660)

	// Frames decode the same on both sides of the wrap, including the
	// frame the wrap lands in.
	c.Assert(decodeFrame(times, 0), qt.Equals, byte(0x1B))
	c.Assert(decodeFrame(times, 11), qt.Equals, byte(0x1B))
	c.Assert(decodeFrame(times, 13), qt.Equals, byte('Y'))
	c.Assert(decodeFrame(times, 21), qt.Equals, byte(0x04))
}
