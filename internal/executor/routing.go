package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/miraines/macroforge/internal/audio"
	"github.com/miraines/macroforge/internal/profile"
)

var (
	volumePattern = regexp.MustCompile(`(?i)^Volume:\s*(Low|Medium|High)$`)
	timerPattern  = regexp.MustCompile(`(?i)^Timer placeholder.*'([^']+)'\s*after\s*(\d+)\s*seconds?$`)
	micTogglePat  = regexp.MustCompile(`(?i)Mic Toggle`)
	deafenPat     = regexp.MustCompile(`(?i)Deafen`)
)

// routeOutcome tells the step executor whether the named side-effect
// replaces the keystroke entirely or merely accompanies it.
type routeOutcome int

const (
	routeNone        routeOutcome = iota // no name match: press the key as normal
	routeSkipKeypress             // side-effect fired, keystroke skipped
	routeAlongside                // side-effect fired, keystroke still happens
)

// routeStepName inspects a step's (key, name) and invokes the matching
// audio/TTS collaborator call. Every collaborator call is best-effort:
// a failure is logged by the caller,
// not propagated as a validation or execution error.
func routeStepName(step profile.Step, collab audio.Collaborator) (routeOutcome, error) {
	if step.Name == "" {
		return routeNone, nil
	}

	isEnd := strings.EqualFold(step.Key, "END")

	if isEnd {
		if m := volumePattern.FindStringSubmatch(step.Name); m != nil {
			level := audio.VolumeLevel(strings.ToLower(m[1]))
			return routeSkipKeypress, collab.SetVolume(level)
		}
		if m := timerPattern.FindStringSubmatch(step.Name); m != nil {
			message := m[1]
			seconds, err := strconv.Atoi(m[2])
			if err != nil {
				return routeSkipKeypress, fmt.Errorf("executor: bad timer duration in step name %q: %w", step.Name, err)
			}
			id := strings.ReplaceAll(strings.ToLower(message), " ", "_")
			return routeSkipKeypress, collab.TimerStart(id, seconds, message)
		}
	}

	if micTogglePat.MatchString(step.Name) {
		return routeAlongside, collab.PressHotkey(step.Name)
	}
	if deafenPat.MatchString(step.Name) {
		return routeAlongside, collab.SetMicMute(true)
	}

	return routeNone, nil
}
