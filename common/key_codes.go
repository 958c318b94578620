package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR   = 82  // R key (ASCII)
	KeyEsc = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
)

// Mouse buttons, matching GLFW button numbering.
const (
	MouseButtonPrimary   = 0
	MouseButtonSecondary = 1
	MouseButtonMiddle    = 2
)

// ModifierKey is a bitmask of keyboard modifiers held during a pointer event.
// Bit values match glfw.ModifierKey.
type ModifierKey int

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

// Has reports whether every bit of mod is set.
func (m ModifierKey) Has(mod ModifierKey) bool {
	return m&mod == mod
}
