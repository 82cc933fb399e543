package redeye

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/internal/pod"
	"github.com/seagrayinc/hp48-redeye/internal/sim"
	"github.com/seagrayinc/hp48-redeye/pkg/hp48"
)

// TestEndToEnd exercises the full round trip:
// 1. Commands are rendered to schedules and written to the (simulated) pod
// 2. The pod's edge reports come back through the poll loop
// 3. The capture decoder reassembles the transferred bytes
func TestEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		commands []hp48.Command
		expected Transfer
	}{
		{
			// A counter request is 11 frames, so the 12th byte that
			// completes the transfer is the start marker of the
			// command after it.
			name:     "RepeatedCounterRequest",
			commands: []hp48.Command{hp48.RequestCount(), hp48.RequestCount()},
			expected: Transfer{0x1B, 0xF9, 'Y', 'P', '3', 'M', 'I', 'O', 'F', 0x0C, 0x04, 0x1B},
		},
		{
			name:     "ClearThenRequest",
			commands: []hp48.Command{hp48.ClearMemory(), hp48.RequestCount()},
			expected: Transfer{0x1B, 0xF9, 'C', 'N', 'F', 'G', 0x7F, 0x0C, 0x04, 0x1B, 0xF9, 'Y'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := sim.NewDevice()

			transport := &Transport{
				Device:        dev,
				ReportLengths: pod.ReportLengths,
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			reportChan := dev.PollReports(ctx)
			transferChan := transport.Poll(ctx, reportChan)

			transport.StartSender(ctx)
			if err := transport.Send(ctx, tt.commands...); err != nil {
				t.Fatalf("Send failed: %v", err)
			}

			select {
			case transfer := <-transferChan:
				if !reflect.DeepEqual(transfer, tt.expected) {
					t.Errorf("transfer mismatch:\ngot:  %v\nwant: %v", transfer, tt.expected)
				}
			case <-ctx.Done():
				t.Fatal("timeout waiting for transfer")
			}
		})
	}
}

func TestSendWritesSchedules(t *testing.T) {
	mockHID := hid.NewMockHID()

	transport := &Transport{
		Device:        mockHID,
		ReportLengths: pod.ReportLengths,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport.StartSender(ctx)
	if err := transport.Send(ctx, hp48.RequestCount()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// The sender runs in the background; wait for it to drain.
	want := len(pod.ScheduleReports(hp48.Transmission(hp48.RequestCount())))
	deadline := time.Now().Add(time.Second)
	var written []hid.Report
	for {
		written = mockHID.Written()
		if len(written) == want || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(written) != want {
		t.Fatalf("report count mismatch: got %d, want %d", len(written), want)
	}

	for i, r := range written {
		if r.ID != pod.ScheduleReportID {
			t.Errorf("report[%d] has id 0x%02X, want 0x%02X", i, r.ID, pod.ScheduleReportID)
		}
		if len(r.Data) != pod.PayloadLen {
			t.Errorf("report[%d] payload length %d, want %d", i, len(r.Data), pod.PayloadLen)
		}
	}
}

func TestPollSkipsUnknownReports(t *testing.T) {
	mockHID := hid.NewMockHID()

	transport := &Transport{
		Device:        mockHID,
		ReportLengths: pod.ReportLengths,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	reportChan := mockHID.PollReports(ctx)
	transferChan := transport.Poll(ctx, reportChan)

	go func() {
		mockHID.Emit(hid.Report{ID: 0x07, Data: make([]byte, pod.PayloadLen)})
		mockHID.Emit(hid.Report{ID: pod.EdgeReportID, Data: make([]byte, pod.PayloadLen)})
		cancel()
	}()

	if transfer, ok := <-transferChan; ok {
		t.Fatalf("unexpected transfer: %v", transfer)
	}
}
