// Package podusb opens the capture pod over its raw bulk endpoints.
// Pods running the vendor bulk firmware enumerate with the same
// VID/PID but without a HID descriptor, so the HID backends cannot
// see them; the report framing on the wire is identical.
package podusb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karalabe/usb"

	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/internal/pod"
)

const (
	Interface = 0

	// Bulk transfers are padded to the endpoint size.
	endpointSize = 64
)

// Device is a pod handle over bulk USB. It satisfies the same Device
// interface as the HID backends.
type Device struct {
	dev usb.Device
}

// Open finds and opens the pod by VID/PID.
func Open() (*Device, error) {
	infos, err := usb.Enumerate(pod.VendorID, pod.ProductID)
	if err != nil {
		return nil, fmt.Errorf("usb enumerate: %w", err)
	}
	if len(infos) == 0 {
		// Enumerate everything so the error can tell a missing pod
		// from a missing driver.
		allInfos, allErr := usb.Enumerate(0, 0)
		if allErr != nil {
			return nil, fmt.Errorf("pod not found (VID:0x%04X PID:0x%04X); enumerate all failed: %w", pod.VendorID, pod.ProductID, allErr)
		}
		return nil, fmt.Errorf("pod not found (VID:0x%04X PID:0x%04X); found %d other USB devices (may need WinUSB driver)", pod.VendorID, pod.ProductID, len(allInfos))
	}

	dev, err := infos[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}

	return &Device{dev: dev}, nil
}

func (d *Device) Close() error {
	return d.dev.Close()
}

// WriteReport sends one report, ID byte first, padded to the
// endpoint size.
func (d *Device) WriteReport(_ context.Context, r hid.Report) error {
	buf := make([]byte, endpointSize)
	copy(buf, r.Bytes())

	if _, err := d.dev.Write(buf); err != nil {
		return fmt.Errorf("usb write: %w", err)
	}
	return nil
}

// PollReports starts a goroutine that reads reports from the IN
// endpoint and emits them to the returned channel. Reads are
// synchronous, so a watcher closes the device on context cancel to
// unblock the reader.
func (d *Device) PollReports(ctx context.Context) <-chan hid.Report {
	out := make(chan hid.Report)

	go func() {
		<-ctx.Done()
		_ = d.Close()
	}()

	go func() {
		defer close(out)

		for {
			buf := make([]byte, endpointSize)
			n, err := d.dev.Read(buf)
			if err != nil {
				slog.Info("reading report failed", slog.Any("error", err))
				return
			}
			if n < 1 {
				continue
			}

			report := hid.Report{
				ID:   buf[0],
				Data: append([]byte(nil), buf[1:n]...),
			}

			select {
			case out <- report:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
