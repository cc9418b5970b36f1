//go:build windows

package scroll

import "unsafe"

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// msllHookStruct mirrors MSLLHOOKSTRUCT.
type msllHookStruct struct {
	pt          struct{ x, y int32 }
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type keyboardRecord struct{ raw *kbdllHookStruct }

func keyboardRecordAt(lParam uintptr) keyboardRecord {
	return keyboardRecord{raw: (*kbdllHookStruct)(unsafe.Pointer(lParam))}
}

func (r keyboardRecord) VKCode() uint32 { return r.raw.vkCode }

type mouseRecord struct{ raw *msllHookStruct }

func mouseRecordAt(lParam uintptr) mouseRecord {
	return mouseRecord{raw: (*msllHookStruct)(unsafe.Pointer(lParam))}
}

func (r mouseRecord) WheelDelta() int16 { return wheelDelta(r.raw.mouseData) }
