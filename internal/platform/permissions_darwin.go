//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework AppKit

#import <ApplicationServices/ApplicationServices.h>
#import <AppKit/AppKit.h>

static CGEventRef macroforgeTapProbe(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
    return event;
}

// The only reliable accessibility check is attempting to create an
// event tap; AXIsProcessTrusted() can report a stale cached value.
int macroforgeCheckAccessibility() {
    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown);
    CFMachPortRef tap = CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionDefault,
        mask,
        macroforgeTapProbe,
        NULL
    );
    if (tap != NULL) {
        CFRelease(tap);
        return 1;
    }
    return 0;
}

void macroforgeRequestAccessibility() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @YES};
    AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options);
}
*/
import "C"

func checkAccessibilityReal() bool {
	return C.macroforgeCheckAccessibility() == 1
}

func requestAccessibility() {
	C.macroforgeRequestAccessibility()
}
