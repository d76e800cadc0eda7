package key

import "strings"

// InputKey identifies a physical key or pointer button the operator uses
// to trigger gestures. The set is closed: macroforge never learns a new
// input key at runtime.
type InputKey uint8

const (
	InputNone InputKey = iota

	InputF1
	InputF2
	InputF3
	InputF4
	InputF5
	InputF6
	InputF7
	InputF8
	InputF9
	InputF10
	InputF11
	InputF12

	Input0
	Input1
	Input2
	Input3
	Input4
	Input5
	Input6
	Input7
	Input8
	Input9

	InputUp
	InputDown
	InputLeft
	InputRight

	InputMiddleClick
	InputX1Click
	InputX2Click
)

// AllInputKeys returns every input key in the closed enumeration,
// excluding InputNone.
func AllInputKeys() []InputKey {
	return []InputKey{
		InputF1, InputF2, InputF3, InputF4, InputF5, InputF6,
		InputF7, InputF8, InputF9, InputF10, InputF11, InputF12,
		Input0, Input1, Input2, Input3, Input4,
		Input5, Input6, Input7, Input8, Input9,
		InputUp, InputDown, InputLeft, InputRight,
		InputMiddleClick, InputX1Click, InputX2Click,
	}
}

var inputKeyNames = map[InputKey]string{
	InputNone:        "NONE",
	InputF1:          "F1",
	InputF2:          "F2",
	InputF3:          "F3",
	InputF4:          "F4",
	InputF5:          "F5",
	InputF6:          "F6",
	InputF7:          "F7",
	InputF8:          "F8",
	InputF9:          "F9",
	InputF10:         "F10",
	InputF11:         "F11",
	InputF12:         "F12",
	Input0:           "0",
	Input1:           "1",
	Input2:           "2",
	Input3:           "3",
	Input4:           "4",
	Input5:           "5",
	Input6:           "6",
	Input7:           "7",
	Input8:           "8",
	Input9:           "9",
	InputUp:          "UP",
	InputDown:        "DOWN",
	InputLeft:        "LEFT",
	InputRight:       "RIGHT",
	InputMiddleClick: "MIDDLE_CLICK",
	InputX1Click:     "X1_CLICK",
	InputX2Click:     "X2_CLICK",
}

// String returns the canonical uppercase name of the input key.
func (k InputKey) String() string {
	if name, ok := inputKeyNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether k is a member of the closed input enumeration.
func (k InputKey) IsValid() bool {
	return k != InputNone && k <= InputX2Click
}

var inputKeyByName map[string]InputKey

func init() {
	inputKeyByName = make(map[string]InputKey, len(inputKeyNames))
	for k, name := range inputKeyNames {
		inputKeyByName[name] = k
	}
}

// CanonicalizeInputName normalizes a raw name as delivered by the platform
// hook into the uppercase, space-free form the enumeration uses, e.g.
// "NUMPAD 8" -> "NUMPAD8", "MOUSE MIDDLE" -> "MIDDLE_CLICK".
func CanonicalizeInputName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "MOUSE MIDDLE", "MOUSE_MIDDLE", "MMB":
		return "MIDDLE_CLICK"
	case "MOUSE X1", "MOUSE_X1", "XBUTTON1":
		return "X1_CLICK"
	case "MOUSE X2", "MOUSE_X2", "XBUTTON2":
		return "X2_CLICK"
	}
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// InputKeyFromName resolves a canonical name to an InputKey. Unknown
// names return (InputNone, false); callers must ignore such events
// silently per the platform contract.
func InputKeyFromName(name string) (InputKey, bool) {
	k, ok := inputKeyByName[CanonicalizeInputName(name)]
	if !ok || k == InputNone {
		return InputNone, false
	}
	return k, true
}
