// Package capture turns the edge event stream reported by the IR
// capture pod back into transfer bytes.
//
// The pod timestamps every output transition of its IR demodulator
// with a free-running 16-bit counter and reports the counter value per
// edge, plus a marker item whenever the counter wraps. Decoder widens
// the timestamps to 64 bits, groups them into 30-event frame windows
// and decodes one byte per completed window.
package capture

import (
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

// TransferLen is the number of bytes in one complete transfer. The
// calculator sends fixed-size bursts of frames, so the decoder
// collects exactly this many bytes before handing them out.
const TransferLen = 12

// Decoder accumulates edge events into frame windows and decoded
// bytes into a transfer buffer. The zero value is ready to use.
//
// Decoder is not safe for concurrent use. Feed events and poll from
// the same goroutine; polling between events keeps windows from being
// overwritten before they are decoded.
type Decoder struct {
	base   uint64
	window [redeye.EventsPerFrame]uint64
	idx    int
	full   bool

	buf   [TransferLen]byte
	count int

	windows  uint64
	overruns uint64
}

// Overflow records a counter wrap. All subsequent edges are shifted
// up by one full counter period.
func (d *Decoder) Overflow() {
	d.base += 1 << 16
}

// Edge records one demodulator transition at the given counter value.
// When the 30th event of a window arrives the window is marked full
// for the next Poll. Events keep being accepted while a window is
// pending; if a second window completes before the first was polled,
// the first one is lost and the overrun counter advances.
func (d *Decoder) Edge(counter uint16) {
	d.window[d.idx] = d.base + uint64(counter)
	d.idx++
	if d.idx == len(d.window) {
		d.idx = 0
		d.windows++
		if d.full {
			d.overruns++
		}
		d.full = true
	}
}

// Poll decodes a pending window, if any, into the transfer buffer.
// Once TransferLen bytes have been collected it returns the completed
// transfer and resets for the next one.
func (d *Decoder) Poll() ([]byte, bool) {
	if d.full {
		d.buf[d.count] = redeye.DecodeWindow(d.window)
		d.count++
		d.full = false
	}

	if d.count == TransferLen {
		transfer := append([]byte(nil), d.buf[:]...)
		d.count = 0
		return transfer, true
	}
	return nil, false
}

// Buffer returns a copy of the bytes decoded so far in the current,
// incomplete transfer.
func (d *Decoder) Buffer() []byte {
	return append([]byte(nil), d.buf[:d.count]...)
}

// Windows returns the number of frame windows completed since the
// decoder was created, whether or not they were decoded in time.
func (d *Decoder) Windows() uint64 {
	return d.windows
}

// Overruns returns the number of windows that were overwritten before
// they could be decoded.
func (d *Decoder) Overruns() uint64 {
	return d.overruns
}
