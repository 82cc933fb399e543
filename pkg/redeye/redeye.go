// Package redeye implements the HP-48GX "Red Eye" one-way infrared
// protocol: the pulse level alphabet and its timing, frame layout, and
// the window decoder that turns captured edge timestamps back into
// bytes.
//
// A frame is 30 half-bits on the wire: three preamble bursts, four
// error bits, eight data bits (MSB first) and a trailing stop gap.
// Characters are stored as fixed level tables rather than synthesized,
// matching the transmitting firmware.
package redeye

import (
	"fmt"
	"time"
)

const (
	// The IR carrier runs at 33 kHz; a burst keeps the LED toggling
	// for 8 full carrier cycles.
	CarrierPeriod = 30_300 * time.Nanosecond
	BurstCycles   = 8
	BurstTime     = BurstCycles * CarrierPeriod

	HalfBitTime = 427_250 * time.Nanosecond

	// Dark gap closing every frame, and the settle pause the counter
	// unit needs between the start command and the payload.
	StopTime   = 2_840 * time.Microsecond
	SettleTime = 31_950 * time.Microsecond

	// Low level durations are derived, never stored independently.
	// Low1 pads a burst out to a half-bit; Low2 is a full dark
	// half-bit; Low3 and Low4 combine them.
	Low1Time = HalfBitTime - BurstTime
	Low2Time = HalfBitTime
	Low3Time = Low1Time + Low2Time
	Low4Time = Low1Time + 2*Low2Time
)

// PulseLevel is one element of a frame table: a carrier burst or one
// of the four dark gap lengths.
type PulseLevel uint8

const (
	High PulseLevel = iota
	Low1
	Low2
	Low3
	Low4
)

// Duration returns the wire time of the level. The enum is closed;
// an unknown tag is a programming error.
func (l PulseLevel) Duration() time.Duration {
	switch l {
	case High:
		return BurstTime
	case Low1:
		return Low1Time
	case Low2:
		return Low2Time
	case Low3:
		return Low3Time
	case Low4:
		return Low4Time
	}
	panic(fmt.Sprintf("redeye: invalid pulse level %d", l))
}

func (l PulseLevel) String() string {
	switch l {
	case High:
		return "High"
	case Low1:
		return "Low1"
	case Low2:
		return "Low2"
	case Low3:
		return "Low3"
	case Low4:
		return "Low4"
	}
	return fmt.Sprintf("PulseLevel(%d)", uint8(l))
}

// Frame is the level sequence of one character, preamble excluded.
// Tables are 24 levels when the character opens with a burst and 25
// when a leading Low2 pads the first half-bit dark. Frames are fixed
// data; callers must not modify them.
type Frame []PulseLevel

// Bursts counts the carrier bursts in the frame. Every character
// carries exactly 12 after the preamble.
func (f Frame) Bursts() int {
	n := 0
	for _, l := range f {
		if l == High {
			n++
		}
	}
	return n
}

// Duration is the wire time of the frame's levels, preamble and stop
// gap excluded.
func (f Frame) Duration() time.Duration {
	var d time.Duration
	for _, l := range f {
		d += l.Duration()
	}
	return d
}

// Preamble opens every frame: three bursts, each padded to a
// half-bit.
var Preamble = Frame{High, Low1, High, Low1, High, Low1}

// Pulse is one timed step of IR output: carrier on or dark.
// The 8-cycle toggling inside a carrier pulse is performed by the
// output stage; at this layer a burst is a single step of BurstTime.
type Pulse struct {
	Carrier  bool
	Duration time.Duration
}

// Schedule is a rendered pulse sequence ready for an output stage.
type Schedule []Pulse

// AppendLevel renders one level to the schedule.
func (s *Schedule) AppendLevel(l PulseLevel) {
	*s = append(*s, Pulse{Carrier: l == High, Duration: l.Duration()})
}

// AppendIdle adds a dark pause.
func (s *Schedule) AppendIdle(d time.Duration) {
	*s = append(*s, Pulse{Duration: d})
}

// AppendFrame renders a complete frame: preamble, the character's
// levels, then the stop gap.
func (s *Schedule) AppendFrame(f Frame) {
	for _, l := range Preamble {
		s.AppendLevel(l)
	}
	for _, l := range f {
		s.AppendLevel(l)
	}
	s.AppendIdle(StopTime)
}

// Total is the wall time of the whole schedule.
func (s Schedule) Total() time.Duration {
	var d time.Duration
	for _, p := range s {
		d += p.Duration
	}
	return d
}
