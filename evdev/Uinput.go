//go:build linux

package evdev

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/lunixbochs/struc"
	"golang.org/x/sys/unix"

	"kuldippatel.dev/touchtrack/mt"
)

const mtToolMax = 0x0f

// UinputDevice is a virtual type-B touch device fed by the tracker. It
// implements mt.Sink.
type UinputDevice struct {
	Name string
	File *os.File
	enc  *mt.Encoder
}

func (u *UinputDevice) Emit(ev mt.Event) { u.enc.Emit(ev) }

// Err returns the first write error, after which events are discarded.
func (u *UinputDevice) Err() error { return u.enc.Err() }

// Close destroys the virtual device.
func (u *UinputDevice) Close() error {
	_ = releaseDevice(u.File)
	return u.File.Close()
}

// NewTypeBDevice creates a uinput type-B device mirroring the axis ranges of
// inputDev, with cfg.NumSlots slots, and grabs inputDev so that only the
// tracked stream reaches user space.
func NewTypeBDevice(inputDev *InputDevice, cfg mt.Config) (*UinputDevice, error) {
	//Open UInput
	deviceFile, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("open uinput: %w", err)
	}
	fd := int(deviceFile.Fd())

	fail := func(step string, err error) (*UinputDevice, error) {
		_ = releaseDevice(deviceFile)
		_ = deviceFile.Close()
		return nil, fmt.Errorf("uinput %s: %w", step, err)
	}

	//Setup EV_KEY
	if err := unix.IoctlSetInt(fd, UISETEVBIT(), mt.EvKey); err != nil {
		return fail("set EV_KEY", err)
	}
	keys := []int{mt.BtnTouch}
	if cfg.Flags&mt.FlagPointer != 0 {
		keys = append(keys, mt.BtnToolFinger, mt.BtnToolDoubleTap, mt.BtnToolTripleTap,
			mt.BtnToolQuadTap, mt.BtnToolQuintTap)
	}
	for _, k := range keys {
		if err := unix.IoctlSetInt(fd, UISETKEYBIT(), k); err != nil {
			return fail("set key bit", err)
		}
	}

	//Setup EV_ABS
	if err := unix.IoctlSetInt(fd, UISETEVBIT(), mt.EvAbs); err != nil {
		return fail("set EV_ABS", err)
	}

	var uiDev UinputUserDev
	setAbs := func(code int, info AbsInfo) error {
		if err := unix.IoctlSetInt(fd, UISETABSBIT(), code); err != nil {
			return err
		}
		uiDev.AbsMin[code] = info.Minimum
		uiDev.AbsMax[code] = info.Maximum
		uiDev.AbsFuzz[code] = info.Fuzz
		uiDev.AbsFlat[code] = info.Flat
		return nil
	}

	absInfos := outputAbs(inputDev, cfg)
	for code := 0; code <= absMax; code++ {
		info, ok := absInfos[code]
		if !ok {
			continue
		}
		if err := setAbs(code, info); err != nil {
			return fail("set abs bit", err)
		}
	}

	//Setup INPUT_PROP_*
	prop := inputPropDirect
	if cfg.Flags&mt.FlagPointer != 0 {
		prop = inputPropPointer
	}
	if err := unix.IoctlSetInt(fd, UISETPROPBIT(), prop); err != nil {
		return fail("set prop bit", err)
	}

	//Setup User Device
	newDeviceName := inputDev.Name + " (tracked)"
	uiDev.Name = toUInputName([]byte(newDeviceName))
	uiDev.ID = inputDev.IID

	//Write to Input Sub-System
	if _, err := deviceFile.Write(uInputDevToBytes(uiDev)); err != nil {
		return fail("write device", err)
	}

	//Declare Input Device
	if err := createDevice(deviceFile); err != nil {
		return fail("create device", err)
	}

	//Stop Primary Touch Device
	if err := inputDev.Grab(); err != nil {
		return fail("grab source", err)
	}

	time.Sleep(time.Millisecond * 200)

	return &UinputDevice{
		Name: newDeviceName,
		File: deviceFile,
		enc:  mt.NewEncoder(deviceFile),
	}, nil
}

// outputAbs lists the absolute axes of the tracked device: the source's
// positions and optional MT axes, the slot and tracking id ranges, and the
// single-touch axes of the pointer emulation.
func outputAbs(inputDev *InputDevice, cfg mt.Config) map[int]AbsInfo {
	out := map[int]AbsInfo{
		mt.AbsMtSlot:       {Maximum: int32(cfg.NumSlots - 1)},
		mt.AbsMtTrackingId: {Maximum: mt.TrkIDMax},
		mt.AbsMtToolType:   {Maximum: mtToolMax},
	}
	for _, code := range []int{
		mt.AbsMtPositionX, mt.AbsMtPositionY, mt.AbsMtPressure,
		mt.AbsMtTouchMajor, mt.AbsMtTouchMinor, mt.AbsMtOrientation,
	} {
		if info, ok := inputDev.AbsInfos[code]; ok {
			out[code] = info
		}
	}
	out[mt.AbsX] = out[mt.AbsMtPositionX]
	out[mt.AbsY] = out[mt.AbsMtPositionY]
	if cfg.Pressure {
		out[mt.AbsPressure] = out[mt.AbsMtPressure]
	}
	return out
}

func toUInputName(name []byte) [uinputMaxNameSize]byte {
	var fixedSizeName [uinputMaxNameSize]byte
	copy(fixedSizeName[:uinputMaxNameSize-1], name)
	return fixedSizeName
}

func uInputDevToBytes(uiDev UinputUserDev) []byte {
	var buf bytes.Buffer
	_ = struc.PackWithOptions(&buf, &uiDev, &struc.Options{Order: binary.LittleEndian})
	return buf.Bytes()
}

func createDevice(f *os.File) (err error) {
	return ioctl(f.Fd(), UIDEVCREATE(), nil)
}

func releaseDevice(f *os.File) (err error) {
	return ioctl(f.Fd(), UIDEVDESTROY(), nil)
}
