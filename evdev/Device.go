//go:build linux

package evdev

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"kuldippatel.dev/touchtrack/internal/monitoring"
	"kuldippatel.dev/touchtrack/mt"
)

// ErrNoTouchDevice is returned by Find when no multi-touch device is present.
var ErrNoTouchDevice = errors.New("evdev: no multi-touch device found")

// InputDevice A Linux input device
type InputDevice struct {
	Name     string
	Path     string
	Protocol Protocol
	Slots    int32
	Version  int32
	Grabed   bool
	Direct   bool
	Pressure bool
	EvBits   [evCnt / 8]byte
	AbsBits  [absCnt / 8]byte
	KeyBits  [keyCnt / 8]byte
	PropBits [inputPropCnt / 8]byte
	AbsInfos map[int]AbsInfo
	IID      InputID
	File     *os.File
}

// Grab the input device exclusively.
func (dev *InputDevice) Grab() error {
	if err := unix.IoctlSetInt(int(dev.File.Fd()), EVIOCGRAB(), 1); err != nil {
		return fmt.Errorf("grab %s: %w", dev.Path, err)
	}
	dev.Grabed = true
	return nil
}

// Release a grabbed input device.
func (dev *InputDevice) Release() error {
	if !dev.Grabed {
		return nil
	}
	dev.Grabed = false
	return unix.IoctlSetInt(int(dev.File.Fd()), EVIOCGRAB(), 0)
}

// Close releases the grab and closes the device node.
func (dev *InputDevice) Close() error {
	_ = dev.Release()
	return dev.File.Close()
}

// Determine if input device has specified Abs Key.
func (dev *InputDevice) HasAbs(key int) bool {
	return hasBit(dev.AbsBits[:], key)
}

// TrackerConfig returns the tracker configuration matching the device.
// Type-A devices get in-tracker matching; type-B devices supply their own
// slots and tracking ids.
func (dev *InputDevice) TrackerConfig(maxDistance int32) mt.Config {
	var flags mt.Flags
	if dev.Direct {
		flags = mt.FlagDirect
	} else {
		flags = mt.FlagPointer
	}
	if dev.Protocol == TypeA {
		flags |= mt.FlagTrack | mt.FlagDropUnused
	} else {
		maxDistance = 0
	}
	return mt.Config{
		NumSlots:    int(dev.Slots),
		Flags:       flags,
		MaxDistance: maxDistance,
		Pressure:    dev.Pressure,
	}
}

// resyncAxes are reloaded after a SYN_DROPPED, tracking id first.
var resyncAxes = []uint16{
	mt.AbsMtTrackingId, mt.AbsMtPositionX, mt.AbsMtPositionY, mt.AbsMtPressure,
	mt.AbsMtTouchMajor, mt.AbsMtTouchMinor, mt.AbsMtOrientation, mt.AbsMtToolType,
}

// ResyncSlots reloads the per-slot state of a type-B device into m with
// EVIOCGMTSLOTS and returns the device's current ABS_MT_SLOT. Slots m has
// beyond the device's count are reported inactive.
func (dev *InputDevice) ResyncSlots(m *mt.MT) (int, error) {
	fd := dev.File.Fd()
	vals := make([]int32, 1+m.NumSlots())

	for _, code := range resyncAxes {
		if !dev.HasAbs(int(code)) {
			continue
		}
		fill := int32(0)
		if code == mt.AbsMtTrackingId {
			fill = mt.InactiveID
		}
		vals[0] = int32(code)
		for i := 1; i < len(vals); i++ {
			vals[i] = fill
		}
		if err := ioctl(fd, EVIOCGMTSLOTS(uint(4*len(vals))), unsafe.Pointer(&vals[0])); err != nil {
			return 0, fmt.Errorf("read mt slots 0x%02x: %w", code, err)
		}

		for s, v := range vals[1:] {
			m.Slot(s)
			if code == mt.AbsMtTrackingId {
				if err := m.ReportSlotID(v); err != nil {
					return 0, err
				}
				continue
			}
			m.ReportAbs(code, v)
		}
	}

	var slot AbsInfo
	if err := ioctl(fd, EVIOCGABS(mt.AbsMtSlot), unsafe.Pointer(&slot)); err != nil {
		return 0, fmt.Errorf("read current slot: %w", err)
	}
	return int(slot.Value), nil
}

// FindTouchDevices opens every /dev/input/event* node that reports
// multi-touch positions.
func FindTouchDevices() ([]*InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}

	var ids []*InputDevice
	for _, path := range paths {
		if !isCharDevice(path) {
			continue
		}
		id, err := Open(path)
		if err != nil {
			monitoring.Logf("evdev: skipping %s: %v", path, err)
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, ErrNoTouchDevice
	}
	return ids, nil
}

// Open probes a single device node and keeps it open for reading.
func Open(path string) (*InputDevice, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	id, err := probe(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	id.Path = path
	return id, nil
}

func probe(f *os.File) (*InputDevice, error) {
	fd := f.Fd()
	id := &InputDevice{File: f, AbsInfos: make(map[int]AbsInfo)}

	if err := ioctl(fd, EVIOCGBIT(0, uint(len(id.EvBits))), unsafe.Pointer(&id.EvBits)); err != nil {
		return nil, fmt.Errorf("read ev bits: %w", err)
	}
	if err := ioctl(fd, EVIOCGBIT(mt.EvAbs, uint(len(id.AbsBits))), unsafe.Pointer(&id.AbsBits)); err != nil {
		return nil, fmt.Errorf("read abs bits: %w", err)
	}
	if err := ioctl(fd, EVIOCGPROP(), unsafe.Pointer(&id.PropBits)); err != nil {
		return nil, fmt.Errorf("read prop bits: %w", err)
	}
	if err := ioctl(fd, EVIOCGBIT(mt.EvKey, uint(len(id.KeyBits))), unsafe.Pointer(&id.KeyBits)); err != nil {
		return nil, fmt.Errorf("read key bits: %w", err)
	}

	if !id.HasAbs(mt.AbsMtPositionX) || !id.HasAbs(mt.AbsMtPositionY) {
		return nil, errors.New("no multi-touch position axes")
	}

	// Devices with ABS_MT_SLOT - 1 aren't MT devices, libevdev:libevdev.c#L319
	id.Protocol = TypeA
	if !id.HasAbs(mt.AbsMtSlot-1) && id.HasAbs(mt.AbsMtSlot) {
		id.Protocol = TypeB
	}
	id.Direct = hasBit(id.PropBits[:], inputPropDirect) || !hasBit(id.PropBits[:], inputPropPointer)
	id.Pressure = id.HasAbs(mt.AbsMtPressure)

	// Read all AbsInfos
	for i := 0; i <= absMax; i++ {
		if !id.HasAbs(i) {
			continue
		}
		var absInfo AbsInfo
		if err := ioctl(fd, EVIOCGABS(uint(i)), unsafe.Pointer(&absInfo)); err != nil {
			continue
		}
		switch i {
		case mt.AbsMtSlot:
			id.Slots = absInfo.Maximum + 1
		case mt.AbsMtTrackingId:
			if absInfo.Maximum == absInfo.Minimum {
				absInfo.Minimum = -1
				absInfo.Maximum = mt.TrkIDMax
			}
		}
		id.AbsInfos[i] = absInfo
	}
	if id.Protocol == TypeA {
		// type A hardware has no slot count, use the usual ten fingers
		id.Slots = 10
	}

	if err := ioctl(fd, EVIOCGID(), unsafe.Pointer(&id.IID)); err != nil {
		return nil, fmt.Errorf("read input id: %w", err)
	}
	if err := ioctl(fd, EVIOCGVERSION(), unsafe.Pointer(&id.Version)); err != nil {
		return nil, fmt.Errorf("read driver version: %w", err)
	}
	id.Name = getDeviceName(fd)
	return id, nil
}

// Determine if a path exist and is a character input device.
func isCharDevice(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Read Event's Device Name
func getDeviceName(fd uintptr) string {
	name := new([uinputMaxNameSize]byte)

	if err := ioctl(fd, EVIOCGNAME(), unsafe.Pointer(name)); err != nil {
		return "Default"
	}

	idx := bytes.IndexByte(name[:], 0)
	if idx < 0 {
		idx = len(name)
	}
	return string(name[:idx])
}

// Syscall
func ioctl(fd uintptr, req uint, data unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(data))
	if errno != 0 {
		return errno
	}
	return nil
}
