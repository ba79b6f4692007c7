//go:build linux

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"kuldippatel.dev/touchtrack/evdev"
	"kuldippatel.dev/touchtrack/internal/config"
	"kuldippatel.dev/touchtrack/mt"
)

// runDevice tracks a real touch device until ctx is done or the device goes
// away. A nil sink sends the tracked stream to a new uinput device.
func runDevice(ctx context.Context, tt config.TouchtrackConfig, sink mt.Sink) error {
	dev, err := openDevice(tt.Device.Path)
	if err != nil {
		return err
	}
	defer dev.Close()

	log.Printf("touchtrack: %s (%s, %s, %d slots)", dev.Name, dev.Path, dev.Protocol, dev.Slots)

	mtCfg := tt.Tracker.Apply(dev.TrackerConfig(tt.Tracker.MaxDistance))

	var uinput *evdev.UinputDevice
	if sink == nil {
		uinput, err = evdev.NewTypeBDevice(dev, mtCfg)
		if err != nil {
			return err
		}
		defer uinput.Close()
		log.Printf("touchtrack: created %q", uinput.Name)
		sink = uinput
	}

	m, err := mt.New(mtCfg, sink)
	if err != nil {
		return err
	}
	defer report(m)

	r := evdev.NewReader(dev.File)
	if dev.Protocol == evdev.TypeB {
		r.Resync = dev.ResyncSlots
	}
	if tt.Output.Trace {
		r.Trace = rawTrace(os.Stdout)
	}

	// unblock the pending read on shutdown
	go func() {
		<-ctx.Done()
		_ = dev.File.Close()
	}()

	for {
		if dev.Protocol == evdev.TypeB {
			err = r.ReadSlots(m)
		} else {
			var contacts []mt.Contact
			contacts, err = r.ReadContacts()
			if err == nil {
				_, err = m.ProcessFrame(contacts)
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if evdev.IsClosed(err) {
				return nil
			}
			return fmt.Errorf("read %s: %w", dev.Path, err)
		}
		if uinput != nil {
			if err := uinput.Err(); err != nil {
				return err
			}
		}
	}
}

func openDevice(path string) (*evdev.InputDevice, error) {
	if path != "" {
		return evdev.Open(path)
	}

	devs, err := evdev.FindTouchDevices()
	if err != nil {
		return nil, err
	}
	for _, d := range devs[1:] {
		_ = d.Close()
	}
	if len(devs) > 1 {
		log.Printf("touchtrack: %d touch devices found, using %s", len(devs), devs[0].Path)
	}
	return devs[0], nil
}

