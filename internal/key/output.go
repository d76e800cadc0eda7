package key

import "strings"

// OutputKey identifies a key macroforge may synthesize toward the host
// operating system. Like InputKey, the set is closed.
type OutputKey uint8

const (
	OutputNone OutputKey = iota

	OutputA
	OutputB
	OutputC
	OutputD
	OutputE
	OutputF
	OutputG
	OutputH
	OutputI
	OutputJ
	OutputK
	OutputL
	OutputM
	OutputN
	OutputO
	OutputP
	OutputQ
	OutputR
	OutputS
	OutputT
	OutputU
	OutputV
	OutputW
	OutputX
	OutputY
	OutputZ

	Output0
	Output1
	Output2
	Output3
	Output4
	Output5
	Output6
	Output7
	Output8
	Output9

	OutputUp
	OutputDown
	OutputLeft
	OutputRight

	OutputEnter
	OutputTab
	OutputEscape
	OutputSpace
	OutputBackspace
	OutputDelete
	OutputHome
	OutputEnd
	OutputPageUp
	OutputPageDown
)

var outputKeyNames = map[OutputKey]string{
	OutputNone: "NONE",

	OutputA: "A", OutputB: "B", OutputC: "C", OutputD: "D", OutputE: "E",
	OutputF: "F", OutputG: "G", OutputH: "H", OutputI: "I", OutputJ: "J",
	OutputK: "K", OutputL: "L", OutputM: "M", OutputN: "N", OutputO: "O",
	OutputP: "P", OutputQ: "Q", OutputR: "R", OutputS: "S", OutputT: "T",
	OutputU: "U", OutputV: "V", OutputW: "W", OutputX: "X", OutputY: "Y",
	OutputZ: "Z",

	Output0: "0", Output1: "1", Output2: "2", Output3: "3", Output4: "4",
	Output5: "5", Output6: "6", Output7: "7", Output8: "8", Output9: "9",

	OutputUp: "UP", OutputDown: "DOWN", OutputLeft: "LEFT", OutputRight: "RIGHT",

	OutputEnter:     "ENTER",
	OutputTab:       "TAB",
	OutputEscape:    "ESCAPE",
	OutputSpace:     "SPACE",
	OutputBackspace: "BACKSPACE",
	OutputDelete:    "DELETE",
	OutputHome:      "HOME",
	OutputEnd:       "END",
	OutputPageUp:    "PAGEUP",
	OutputPageDown:  "PAGEDOWN",
}

var outputKeyByName map[string]OutputKey

func init() {
	outputKeyByName = make(map[string]OutputKey, len(outputKeyNames))
	for k, name := range outputKeyNames {
		outputKeyByName[name] = k
	}
}

// String returns the canonical uppercase name of the output key.
func (k OutputKey) String() string {
	if name, ok := outputKeyNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether k is a member of the closed output enumeration.
func (k OutputKey) IsValid() bool {
	return k != OutputNone && k <= OutputPageDown
}

// OutputKeyFromName resolves a canonical name (case-insensitive) to an
// OutputKey.
func OutputKeyFromName(name string) (OutputKey, bool) {
	k, ok := outputKeyByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok || k == OutputNone {
		return OutputNone, false
	}
	return k, true
}

// RobotgoName returns the lowercase token robotgo expects for this key
// in KeyToggle/KeyTap calls.
func (k OutputKey) RobotgoName() string {
	switch k {
	case OutputEnter:
		return "enter"
	case OutputTab:
		return "tab"
	case OutputEscape:
		return "esc"
	case OutputSpace:
		return "space"
	case OutputBackspace:
		return "backspace"
	case OutputDelete:
		return "delete"
	case OutputHome:
		return "home"
	case OutputEnd:
		return "end"
	case OutputPageUp:
		return "pageup"
	case OutputPageDown:
		return "pagedown"
	case OutputUp:
		return "up"
	case OutputDown:
		return "down"
	case OutputLeft:
		return "left"
	case OutputRight:
		return "right"
	default:
		return strings.ToLower(k.String())
	}
}
