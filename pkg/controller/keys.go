package controller

import "github.com/gdamore/tcell/v2"

// Rune shortcuts projected into the tcell.Key space so they can share the
// event map with real keys.
const (
	KeyA tcell.Key = iota + 'a'
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// AsKey normalizes a key event: rune presses become their rune value, real
// keys pass through unchanged.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}

	return tcell.Key(evt.Rune())
}
