package evdev

//---------------------------------EVCodes--------------------------------------//

// Ref: input-event-codes.h, codes not carried by the tracker itself
const (
	evMax            = 0x1f
	evCnt            = evMax + 1
	absMax           = 0x3f
	absCnt           = absMax + 1
	keyMax           = 0x2ff
	keyCnt           = keyMax + 1
	inputPropPointer = 0x00
	inputPropDirect  = 0x01
	inputPropMax     = 0x1f
	inputPropCnt     = inputPropMax + 1
)

//---------------------------------IOCTL--------------------------------------//

// Ref: ioctl.h
const (
	iocNone  = 0x0
	iocWrite = 0x1
	iocRead  = 0x2

	iocNrbits   = 8
	iocTypebits = 8
	iocSizebits = 14
	iocNrshift  = 0

	iocTypeshift = iocNrshift + iocNrbits
	iocSizeshift = iocTypeshift + iocTypebits
	iocDirshift  = iocSizeshift + iocSizebits
)

func _IOC(dir uint, t uint, nr uint, size uint) uint {
	return (dir << iocDirshift) | (t << iocTypeshift) |
		(nr << iocNrshift) | (size << iocSizeshift)
}

func _IOR(t uint, nr uint, size uint) uint {
	return _IOC(iocRead, t, nr, size)
}

func _IOW(t uint, nr uint, size uint) uint {
	return _IOC(iocWrite, t, nr, size)
}

// Ref: input.h
func EVIOCGVERSION() uint {
	return _IOC(iocRead, 'E', 0x01, 4) //sizeof(int)
}

func EVIOCGID() uint {
	return _IOC(iocRead, 'E', 0x02, 8) //sizeof(struct input_id)
}

func EVIOCGNAME() uint {
	return _IOC(iocRead, 'E', 0x06, uinputMaxNameSize)
}

func EVIOCGPROP() uint {
	return _IOC(iocRead, 'E', 0x09, inputPropCnt/8)
}

func EVIOCGMTSLOTS(len uint) uint {
	return _IOC(iocRead, 'E', 0x0a, len)
}

func EVIOCGABS(abs uint) uint {
	return _IOR('E', 0x40+abs, 24) //sizeof(struct input_absinfo)
}

func EVIOCGBIT(ev, len uint) uint {
	return _IOC(iocRead, 'E', 0x20+ev, len)
}

func EVIOCGRAB() uint {
	return _IOW('E', 0x90, 4) //sizeof(int)
}

//---------------------------------Input--------------------------------------//

type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

//---------------------------------UInput--------------------------------------//

// Ref: uinput.h
const (
	uinputMaxNameSize = 80
)

type UinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         InputID
	EffectsMax uint32
	AbsMax     [absCnt]int32
	AbsMin     [absCnt]int32
	AbsFuzz    [absCnt]int32
	AbsFlat    [absCnt]int32
}

func UISETEVBIT() uint {
	return _IOW('U', 100, 4) //sizeof(int)
}

func UISETKEYBIT() uint {
	return _IOW('U', 101, 4) //sizeof(int)
}

func UISETABSBIT() uint {
	return _IOW('U', 103, 4) //sizeof(int)
}

func UISETPROPBIT() uint {
	return _IOW('U', 110, 4) //sizeof(int)
}

func UIDEVCREATE() uint {
	return _IOC(iocNone, 'U', 1, 0)
}

func UIDEVDESTROY() uint {
	return _IOC(iocNone, 'U', 2, 0)
}
