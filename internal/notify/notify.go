// Package notify sends desktop notifications for preset changes.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// PresetApplied announces a preset switch on the desktop.
func PresetApplied(name string) error {
	return beeep.Notify("Tablet preset", fmt.Sprintf("Applied preset %q", name), "")
}

// PresetFailed announces a failed preset switch.
func PresetFailed(name string, err error) error {
	return beeep.Alert("Tablet preset", fmt.Sprintf("Failed to apply %q: %v", name, err), "")
}
