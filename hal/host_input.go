//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Printable keys (letters, space, brackets) come through as runes from
// AppendInputChars; only these special keys are mapped to codes.
var specialKeys = [...]struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyF1, KeyF1},
}

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *hostKeyboard) poll() {
	for _, r := range ebiten.AppendInputChars(nil) {
		k.emit(KeyEvent{Press: true, Rune: r})
	}
	for _, sk := range specialKeys {
		if inpututil.IsKeyJustPressed(sk.key) {
			k.emit(KeyEvent{Code: sk.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(sk.key) {
			k.emit(KeyEvent{Code: sk.code, Press: false})
		}
	}
}

var pointerButtons = [...]struct {
	button ebiten.MouseButton
	id     PointerButton
}{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonRight, ButtonRight},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
}

type hostPointer struct {
	ch chan PointerEvent

	x, y float32
	seen bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// poll converts ebiten mouse state to events. The cursor is already in
// framebuffer pixels because Layout reports the framebuffer size.
func (p *hostPointer) poll() {
	cx, cy := ebiten.CursorPosition()
	x, y := float32(cx), float32(cy)
	if !p.seen {
		p.x, p.y, p.seen = x, y, true
	}

	held := ButtonNone
	for _, b := range pointerButtons {
		if inpututil.IsMouseButtonJustPressed(b.button) {
			p.emit(PointerEvent{Kind: PointerDown, Button: b.id, X: x, Y: y})
		}
		if inpututil.IsMouseButtonJustReleased(b.button) {
			p.emit(PointerEvent{Kind: PointerUp, Button: b.id, X: x, Y: y})
		}
		if held == ButtonNone && ebiten.IsMouseButtonPressed(b.button) {
			held = b.id
		}
	}
	if dx, dy := x-p.x, y-p.y; dx != 0 || dy != 0 {
		p.emit(PointerEvent{Kind: PointerMove, Button: held, X: x, Y: y, DX: dx, DY: dy})
	}
	p.x, p.y = x, y

	if _, wy := ebiten.Wheel(); wy != 0 {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, Wheel: float32(wy)})
	}
}
