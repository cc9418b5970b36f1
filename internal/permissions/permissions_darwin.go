//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Cocoa
#import <ApplicationServices/ApplicationServices.h>
#import <Cocoa/Cocoa.h>

int checkAccessibilityPermission(int prompt) {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "fmt"

// CheckAccessibility reports whether the process is trusted for
// accessibility, which global key listening and injection need.
func CheckAccessibility() (bool, error) {
	return C.checkAccessibilityPermission(0) == 1, nil
}

// EnsurePermissions prompts for accessibility trust when it is missing.
func EnsurePermissions() error {
	if C.checkAccessibilityPermission(1) == 1 {
		return nil
	}
	fmt.Println("⚠️  Accessibility permission required for hotkeys")
	fmt.Println("   Go to: System Settings → Privacy & Security → Accessibility")
	return fmt.Errorf("accessibility permission not granted")
}
