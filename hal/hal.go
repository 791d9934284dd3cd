package hal

import (
	"errors"
	"image"
	"strings"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrHalted is wrapped by a step error after the app has painted a crash
// screen. Window hosts keep showing the last frame instead of exiting.
var ErrHalted = errors.New("halted")

// LogWriter adapts a line Logger to io.Writer for slog handlers. Each Write
// may carry several newline-terminated records.
type LogWriter struct {
	L Logger
}

func (w LogWriter) Write(p []byte) (int, error) {
	if w.L == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.L.WriteLineString(line)
	}
	return len(p), nil
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp, byte order R, G, B, A.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	// Image views the buffer without copying.
	Image() *image.RGBA
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier. Printable keys arrive as runes.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyF1
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind is the pointer event type.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerUp
	PointerMove
	PointerWheel
)

// PointerButton identifies a mouse button.
type PointerButton uint8

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a mouse event in framebuffer pixels. Move events carry the
// delta since the previous position; wheel events carry Wheel steps, positive
// away from the user.
type PointerEvent struct {
	Kind   PointerKind
	Button PointerButton
	X, Y   float32
	DX, DY float32
	Wheel  float32
}

// Pointer provides mouse events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Upload is a file handed to the app by the host: dropped on the window,
// named on the command line or written into the watched inbox.
type Upload struct {
	Name string
	Data []byte
	Err  error
}

// Uploads delivers files offered to the app.
type Uploads interface {
	Uploads() <-chan Upload
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time is the monotonic frame clock.
type Time interface {
	Now() time.Duration
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
	Uploads() Uploads
}

// AppFactory builds the app against a HAL and returns its per-frame step.
type AppFactory func(HAL) (step func() error, err error)
