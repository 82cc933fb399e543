package redeye

// EventsPerFrame is the number of sensor edges in one frame window:
// 15 marks, each contributing a falling and a rising edge.
const EventsPerFrame = 30

// Sample positions within a frame, counted in quarter half-bits from
// the frame's first edge. The data bits sit every four quarters from
// position 23 (bit 7, sent first) down to position 51 (bit 0).
const (
	firstSamplePos = 23
	lastSamplePos  = 51
	sampleStride   = 4
)

// classifyWidth converts an interval width in capture counter ticks
// to quarter half-bits through open-interval bands. A width outside
// every band keeps the previous classification; callers start it at
// zero so that leading unclassifiable intervals cover nothing.
func classifyWidth(width uint64, prev int) int {
	switch {
	case width > 20 && width < 100:
		return 1
	case width > 120 && width < 200:
		return 3
	case width > 220 && width < 300:
		return 5
	}
	return prev
}

// DecodeWindow reconstructs one data byte from a full edge window.
//
// Timestamps are in capture counter ticks (the pod's counter runs at
// 250 kHz, 4 µs per tick). The first event anchors the frame; each of
// the 29 following intervals is classified into quarter half-bits and
// covers that many quarter positions. The sensor output alternates
// starting with a mark, so odd intervals are marks and even intervals
// gaps; whenever a covered position is one of the sample positions the
// level there becomes the corresponding data bit. Positions a garbled
// window never covers are left zero.
func DecodeWindow(events [EventsPerFrame]uint64) byte {
	var b byte
	pos := 0
	quarters := 0
	mark := true

	for i := 1; i < EventsPerFrame; i++ {
		quarters = classifyWidth(events[i]-events[i-1], quarters)
		for j := 0; j < quarters; j++ {
			if mark && pos >= firstSamplePos && pos <= lastSamplePos && (pos-firstSamplePos)%sampleStride == 0 {
				bit := 7 - (pos-firstSamplePos)/sampleStride
				b |= 1 << bit
			}
			pos++
		}
		mark = !mark
	}

	return b
}
