// Package hid is a minimal report-level HID layer for the IR pod:
// device enumeration, output report writes and a polled input report
// stream.
package hid

import "context"

// Report represents an individual report. Data excludes the report ID
// byte.
type Report struct {
	ID   byte
	Data []byte
}

// Bytes returns the wire form, report ID first.
func (r Report) Bytes() []byte {
	b := make([]byte, len(r.Data)+1)
	b[0] = r.ID
	copy(b[1:], r.Data)
	return b
}

// Device represents an opened HID device capable of report I/O.
// PollReports starts a single reader goroutine; the returned channel
// closes when the context ends or the device stops delivering.
type Device interface {
	WriteReport(ctx context.Context, r Report) error
	PollReports(ctx context.Context) <-chan Report
	Close() error
}

// Info represents a HID device descriptor.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	Open(info Info) (Device, error)
	OpenVIDPID(vendorID, productID uint16) (Device, error)
}

// NewManager returns the OS-specific HID manager.
func NewManager() (Manager, error) {
	return newManager()
}
