package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/seagrayinc/hp48-redeye/internal/hid"
	"github.com/seagrayinc/hp48-redeye/internal/pod"
	"github.com/seagrayinc/hp48-redeye/internal/podusb"
	"github.com/seagrayinc/hp48-redeye/internal/redeye"
	"github.com/seagrayinc/hp48-redeye/internal/sim"
	"github.com/seagrayinc/hp48-redeye/pkg/hp48"
)

func commandNames() []string {
	names := make([]string, 0, len(hp48.Commands))
	for name := range hp48.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openDevice(transport string) (hid.Device, error) {
	switch transport {
	case "hid":
		mgr, err := hid.NewManager()
		if err != nil {
			return nil, err
		}
		return mgr.OpenVIDPID(pod.VendorID, pod.ProductID)
	case "bulk":
		return podusb.Open()
	case "sim":
		return sim.NewDevice(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want hid, bulk or sim)", transport)
	}
}

func main() {
	list := flag.Bool("list", false, "list HID devices and exit")
	transportName := flag.String("transport", "hid", "pod transport: hid, bulk or sim")
	send := flag.String("send", "", "command to send: "+strings.Join(commandNames(), " or "))
	watch := flag.Bool("watch", false, "keep polling and print received transfers")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if *list {
		mgr, err := hid.NewManager()
		if err != nil {
			panic(err)
		}
		devices, err := mgr.List()
		if err != nil {
			panic(err)
		}
		for _, d := range devices {
			fmt.Printf("%04x:%04x  %s %s  %s\n", d.VendorID, d.ProductID, d.Manufacturer, d.Product, d.Path)
		}
		return
	}

	if *send == "" && !*watch {
		flag.Usage()
		os.Exit(2)
	}

	dev, err := openDevice(*transportName)
	if err != nil {
		panic(err)
	}

	transport := &redeye.Transport{
		Device:        dev,
		ReportLengths: pod.ReportLengths,
	}
	defer transport.Close()
	transport.StartSender(ctx)

	var sendDuration time.Duration
	if *send != "" {
		build, ok := hp48.Commands[*send]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown command %q, have: %s\n", *send, strings.Join(commandNames(), ", "))
			os.Exit(2)
		}
		cmd := build()
		sendDuration = hp48.Transmission(cmd).Total()
		if err := transport.Send(ctx, cmd); err != nil {
			panic(err)
		}
	}

	if !*watch {
		// Give the pod time to play the schedule out before closing
		// the device.
		select {
		case <-time.After(sendDuration + time.Second):
		case <-ctx.Done():
		}
		return
	}

	reports := dev.PollReports(ctx)
	for transfer := range transport.Poll(ctx, reports) {
		fmt.Printf("%s  %q\n", transfer, string(transfer))
	}
}
