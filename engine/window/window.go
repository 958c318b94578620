package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface and
// satisfies renderer.Surface so a GPUContext can render into it.
type Window interface {
	renderer.Surface

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window's logical size changes.
	//
	// Parameters:
	//   - callback: function receiving the new logical width and height (or nil to disable)
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta, positive away from the user (or nil to disable)
	SetScrollCallback(callback func(deltaY float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code (or nil to disable)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code (or nil to disable)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the cursor position, button and held modifiers (or nil to disable)
	SetPointerDownCallback(callback func(x, y float32, button int, mods common.ModifierKey))

	// SetPointerUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the released button (or nil to disable)
	SetPointerUpCallback(callback func(button int))

	// SetPointerMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in logical coordinates (or nil to disable)
	SetPointerMoveCallback(callback func(x, y float32))

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration without
	// releasing platform resources. Must be called from the main thread.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// PollEvents dispatches pending platform events to the registered callbacks without blocking.
	//
	// Returns:
	//   - bool: true if the window is still running afterwards
	PollEvents() bool

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current logical width.
	//
	// Returns:
	//   - int: width in screen coordinates
	Width() int

	// Height returns the current logical height.
	//
	// Returns:
	//   - int: height in screen coordinates
	Height() int
}

// keyAction is the platform-neutral form of a key or button transition.
type keyAction int

const (
	actionPress keyAction = iota
	actionRepeat
	actionRelease
)

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current logical width.
	width int

	// height is the current logical height.
	height int

	// closeOnEscape closes the window when the escape key is pressed.
	closeOnEscape bool

	// closed is set once Close has run or an escape press requested closing.
	closed bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(deltaY float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onPointerDown func(x, y float32, button int, mods common.ModifierKey)
	onPointerUp   func(button int)
	onPointerMove func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: renderer.ErrPlatformUnsupported wrapped with the platform failure if the window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("%w: %w", renderer.ErrPlatformUnsupported, err)
	}
	return w, nil
}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "oxy-view",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     240,
		width:         1280,
		height:        720,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width = common.Clamp(w.width, w.minWidth, w.maxWidth)
	w.height = common.Clamp(w.height, w.minHeight, w.maxHeight)
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(deltaY float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float32, button int, mods common.ModifierKey)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(button int)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float32)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) LogicalSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) PixelRatio() float32 {
	ratio := platformPixelRatio(w)
	if ratio <= 0 {
		return 1
	}
	return ratio
}

func (w *engineWindow) IsRunning() bool {
	return !w.closed && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closed = true
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	if w.closed && w.internalWindow == nil {
		return nil
	}
	w.closed = true
	return platformCloseWindow(w)
}

func (w *engineWindow) PollEvents() bool {
	if w.closed {
		return false
	}
	platformProcessMessages(w)
	return w.IsRunning()
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := w.PollEvents(); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleKey routes a key transition to the key callbacks. Escape closes the window when enabled.
func (w *engineWindow) handleKey(key int, action keyAction) {
	if key == common.KeyEsc && action == actionPress && w.closeOnEscape {
		w.closed = true
		return
	}
	switch action {
	case actionPress, actionRepeat:
		if w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		}
	case actionRelease:
		if w.onKeyUp != nil {
			w.onKeyUp(uint32(key))
		}
	}
}

// handleButton routes a mouse button transition at the given cursor position.
func (w *engineWindow) handleButton(button int, action keyAction, x, y float32, mods common.ModifierKey) {
	switch action {
	case actionPress:
		if w.onPointerDown != nil {
			w.onPointerDown(x, y, button, mods)
		}
	case actionRelease:
		if w.onPointerUp != nil {
			w.onPointerUp(button)
		}
	}
}

func (w *engineWindow) handleCursor(x, y float32) {
	if w.onPointerMove != nil {
		w.onPointerMove(x, y)
	}
}

func (w *engineWindow) handleScroll(deltaY float32) {
	if deltaY == 0 {
		return
	}
	if w.onScroll != nil {
		w.onScroll(deltaY)
	}
}

// handleResize records the new logical size and notifies the resize callback when it changed.
func (w *engineWindow) handleResize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
