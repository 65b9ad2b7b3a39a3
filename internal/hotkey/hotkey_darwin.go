//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

CGEventRef keyCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

// Runs a listen-only keyboard tap on the current thread. Returns 0 when the
// tap cannot be created (Accessibility permission missing).
static inline int runKeyTap(uintptr_t refcon) {
    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown) |
                       CGEventMaskBit(kCGEventKeyUp) |
                       CGEventMaskBit(kCGEventFlagsChanged);
    CFMachPortRef tap = CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly,
        mask,
        keyCallback,
        (void*)refcon
    );
    if (!tap) {
        return 0;
    }

    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
    CGEventTapEnable(tap, true);
    CFRunLoopRun();
    return 1;
}
*/
import "C"
import (
	"runtime"
	"runtime/cgo"
	"unsafe"

	log "github.com/sirupsen/logrus"
)

//export keyCallback
func keyCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	m := cgo.Handle(uintptr(refcon)).Value().(*Manager)
	keyCode := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))

	switch eventType {
	case C.kCGEventKeyDown, C.kCGEventKeyUp:
		if name := macKeyNames[keyCode]; name != "" {
			m.UpdateState(name, eventType == C.kCGEventKeyDown)
		}

	case C.kCGEventFlagsChanged:
		// Modifiers only report a flags change; the flag tells the direction
		flags := C.CGEventGetFlags(event)
		switch macKeyNames[keyCode] {
		case "CMD":
			m.UpdateState("CMD", flags&C.kCGEventFlagMaskCommand != 0)
		case "SHIFT":
			m.UpdateState("SHIFT", flags&C.kCGEventFlagMaskShift != 0)
		case "ALT":
			m.UpdateState("ALT", flags&C.kCGEventFlagMaskAlternate != 0)
		case "CTRL":
			m.UpdateState("CTRL", flags&C.kCGEventFlagMaskControl != 0)
		}
	}
	return event
}

func (m *Manager) startPlatform() error {
	handle := cgo.NewHandle(m)
	go func() {
		runtime.LockOSThread()
		log.Info("Hotkey: macOS keyboard tap started")
		if C.runKeyTap(C.uintptr_t(handle)) == 0 {
			log.Error("Hotkey: failed to create CGEventTap, grant Accessibility permission to enable the cancel key")
			handle.Delete()
		}
	}()
	return nil
}

// macKeyNames maps virtual key codes (ANSI layout) to canonical key names
var macKeyNames = map[uint16]string{
	55: "CMD", 54: "CMD",
	56: "SHIFT", 60: "SHIFT",
	58: "ALT", 61: "ALT",
	59: "CTRL", 62: "CTRL",
	53: "ESC", 49: "SPACE", 36: "ENTER", 48: "TAB", 51: "BACKSPACE",

	0: "A", 11: "B", 8: "C", 2: "D", 14: "E", 3: "F", 5: "G", 4: "H", 34: "I",
	38: "J", 40: "K", 37: "L", 46: "M", 45: "N", 31: "O", 35: "P", 12: "Q",
	15: "R", 1: "S", 17: "T", 32: "U", 9: "V", 13: "W", 7: "X", 16: "Y", 6: "Z",

	29: "0", 18: "1", 19: "2", 20: "3", 21: "4", 23: "5", 22: "6", 26: "7", 28: "8", 25: "9",

	122: "F1", 120: "F2", 99: "F3", 118: "F4", 96: "F5", 97: "F6",
	98: "F7", 100: "F8", 101: "F9", 109: "F10", 103: "F11", 111: "F12",
}
