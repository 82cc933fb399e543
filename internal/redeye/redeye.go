// Package redeye drives the IR capture pod. Commands are rendered
// into pulse schedules and written to the pod; edge reports coming
// back are decoded into the transfers the calculator sent.
package redeye

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/seagrayinc/hp48-redeye/internal/capture"
	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/internal/pod"
	"github.com/seagrayinc/hp48-redeye/pkg/hp48"
)

// Transfer is one complete burst of bytes received from the
// calculator, start and stop markers included.
type Transfer []byte

// String renders the transfer as dash-separated hex.
func (t Transfer) String() string {
	hexDigits := hex.EncodeToString(t)
	var builder strings.Builder
	for i, r := range hexDigits {
		if i > 0 && i%2 == 0 {
			builder.WriteString("-")
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

type Transport struct {
	Device        hid.Device
	ReportLengths map[byte]int
	SendBuffer    int // Size of send buffer (default 16)

	sendOnce sync.Once
	cmdChan  chan hp48.Command
}

func (t *Transport) Close() error {
	return t.Device.Close()
}

// StartSender starts the background goroutine that plays out buffered
// commands. It must be called before Send. The context controls the
// lifetime of the sender.
func (t *Transport) StartSender(ctx context.Context) {
	t.sendOnce.Do(func() {
		bufSize := t.SendBuffer
		if bufSize <= 0 {
			bufSize = 16
		}
		t.cmdChan = make(chan hp48.Command, bufSize)

		go t.sendLoop(ctx)
	})
}

func (t *Transport) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-t.cmdChan:
			if !ok {
				return
			}

			for _, report := range pod.ScheduleReports(hp48.Transmission(cmd)) {
				if err := t.Device.WriteReport(ctx, report); err != nil {
					slog.Warn("failed to write report", slog.Any("error", err))
					break
				}
			}
		}
	}
}

// Send buffers commands for transmission. It is non-blocking.
// StartSender must be called before Send.
func (t *Transport) Send(_ context.Context, commands ...hp48.Command) error {
	for _, c := range commands {
		select {
		case t.cmdChan <- c:
			slog.Debug("queueing command", slog.Int("frames", hp48.Frames(c)))
		default:
			slog.Warn("send buffer full, dropping command")
			return errors.New("send buffer full")
		}
	}

	return nil
}

// Poll consumes edge reports from reportChan and emits each completed
// transfer on the returned channel. The channel is closed when the
// context is cancelled or reportChan closes.
func (t *Transport) Poll(ctx context.Context, reportChan <-chan hid.Report) <-chan Transfer {
	out := make(chan Transfer)

	go func() {
		defer close(out)

		var dec capture.Decoder
		var overruns uint64
		for {
			select {
			case <-ctx.Done():
				return

			case report, ok := <-reportChan:
				if !ok {
					slog.Info("report channel closed")
					return
				}

				if _, ok := t.ReportLengths[report.ID]; !ok {
					slog.Warn("unknown report id", slog.Int("id", int(report.ID)))
					continue
				}

				events, err := pod.ParseEdgeReport(report.Data)
				if err != nil {
					slog.Warn("edge report parsing failed", slog.Any("error", err))
					continue
				}

				for _, ev := range events {
					if ev.Overflow {
						dec.Overflow()
						continue
					}
					dec.Edge(ev.Counter)

					transfer, done := dec.Poll()
					if !done {
						continue
					}
					select {
					case out <- Transfer(transfer):
					case <-ctx.Done():
						return
					}
				}

				if o := dec.Overruns(); o != overruns {
					slog.Warn("capture window overrun", slog.Uint64("lost", o-overruns))
					overruns = o
				}
			}
		}
	}()
	return out
}
