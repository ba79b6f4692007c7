package mt

//---------------------------------EVCodes--------------------------------------//

// Ref: input-event-codes.h
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvAbs = 0x03

	SynReport   = 0
	SynMtReport = 2
	SynDropped  = 3

	BtnToolFinger    = 0x145
	BtnToolQuintTap  = 0x148
	BtnTouch         = 0x14a
	BtnToolDoubleTap = 0x14d
	BtnToolTripleTap = 0x14e
	BtnToolQuadTap   = 0x14f

	AbsX        = 0x00
	AbsY        = 0x01
	AbsPressure = 0x18

	AbsMtSlot        = 0x2f
	AbsMtTouchMajor  = 0x30
	AbsMtTouchMinor  = 0x31
	AbsMtWidthMajor  = 0x32
	AbsMtWidthMinor  = 0x33
	AbsMtOrientation = 0x34
	AbsMtPositionX   = 0x35
	AbsMtPositionY   = 0x36
	AbsMtToolType    = 0x37
	AbsMtBlobId      = 0x38
	AbsMtTrackingId  = 0x39
	AbsMtPressure    = 0x3a
	AbsMtDistance    = 0x3b
	AbsMtToolX       = 0x3c
	AbsMtToolY       = 0x3d

	AbsMtFirst = AbsMtTouchMajor
	AbsMtLast  = AbsMtToolY
)

// Ref: input.h, MT_TOOL_*
const (
	ToolFinger = 0x00
	ToolPen    = 0x01
	ToolPalm   = 0x02
	ToolDial   = 0x0a
)

const (
	// TrkIDMax is the largest tracking id handed out before the counter wraps.
	TrkIDMax = 0xffff

	// InactiveID is the tracking id value of a slot without a contact.
	InactiveID = -1

	// MaxSlots bounds NumSlots.
	MaxSlots = 1024
)

// IsMtAxis reports whether code is a per-slot ABS_MT axis.
func IsMtAxis(code uint16) bool {
	return code >= AbsMtFirst && code <= AbsMtLast
}

var synNames = map[uint16]string{
	SynReport:   "SYN_REPORT",
	SynMtReport: "SYN_MT_REPORT",
	SynDropped:  "SYN_DROPPED",
}

var keyNames = map[uint16]string{
	BtnToolFinger:    "BTN_TOOL_FINGER",
	BtnToolQuintTap:  "BTN_TOOL_QUINTTAP",
	BtnTouch:         "BTN_TOUCH",
	BtnToolDoubleTap: "BTN_TOOL_DOUBLETAP",
	BtnToolTripleTap: "BTN_TOOL_TRIPLETAP",
	BtnToolQuadTap:   "BTN_TOOL_QUADTAP",
}

var absNames = map[uint16]string{
	AbsX:             "ABS_X",
	AbsY:             "ABS_Y",
	AbsPressure:      "ABS_PRESSURE",
	AbsMtSlot:        "ABS_MT_SLOT",
	AbsMtTouchMajor:  "ABS_MT_TOUCH_MAJOR",
	AbsMtTouchMinor:  "ABS_MT_TOUCH_MINOR",
	AbsMtWidthMajor:  "ABS_MT_WIDTH_MAJOR",
	AbsMtWidthMinor:  "ABS_MT_WIDTH_MINOR",
	AbsMtOrientation: "ABS_MT_ORIENTATION",
	AbsMtPositionX:   "ABS_MT_POSITION_X",
	AbsMtPositionY:   "ABS_MT_POSITION_Y",
	AbsMtToolType:    "ABS_MT_TOOL_TYPE",
	AbsMtBlobId:      "ABS_MT_BLOB_ID",
	AbsMtTrackingId:  "ABS_MT_TRACKING_ID",
	AbsMtPressure:    "ABS_MT_PRESSURE",
	AbsMtDistance:    "ABS_MT_DISTANCE",
	AbsMtToolX:       "ABS_MT_TOOL_X",
	AbsMtToolY:       "ABS_MT_TOOL_Y",
}
