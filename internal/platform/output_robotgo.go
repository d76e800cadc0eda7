package platform

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/logging"
)

// RobotgoSink synthesizes keystrokes via go-vgo/robotgo, the same
// injection library the platform shim's teacher used for text typing
// and hotkey presses.
type RobotgoSink struct {
	logger *logging.Logger
}

// NewRobotgoSink builds an OutputSink backed by robotgo.
func NewRobotgoSink(logger *logging.Logger) *RobotgoSink {
	return &RobotgoSink{logger: logger}
}

func (s *RobotgoSink) KeyToggle(base key.OutputKey, mods key.Modifier, dir Direction) error {
	if !base.IsValid() {
		return fmt.Errorf("platform: invalid output key %v", base)
	}
	args := toggleArgs(mods, dir)
	if err := robotgo.KeyToggle(base.RobotgoName(), args...); err != nil {
		if s.logger != nil {
			s.logger.Warn("platform", "KeyToggle(%s, %v) failed: %v", base, dir, err)
		}
		return err
	}
	return nil
}

func (s *RobotgoSink) KeyTap(base key.OutputKey, mods key.Modifier) error {
	if !base.IsValid() {
		return fmt.Errorf("platform: invalid output key %v", base)
	}
	args := tapArgs(mods)
	if err := robotgo.KeyTap(base.RobotgoName(), args...); err != nil {
		if s.logger != nil {
			s.logger.Warn("platform", "KeyTap(%s) failed: %v", base, err)
		}
		return err
	}
	return nil
}

func (s *RobotgoSink) Scroll(direction string, magnitude int) error {
	switch direction {
	case "up":
		robotgo.Scroll(0, magnitude)
	case "down":
		robotgo.Scroll(0, -magnitude)
	case "left":
		robotgo.Scroll(-magnitude, 0)
	case "right":
		robotgo.Scroll(magnitude, 0)
	default:
		return fmt.Errorf("platform: unknown scroll direction %q", direction)
	}
	return nil
}

func toggleArgs(mods key.Modifier, dir Direction) []interface{} {
	dirName := "down"
	if dir == Up {
		dirName = "up"
	}
	args := []interface{}{dirName}
	for _, m := range mods.RobotgoNames() {
		args = append(args, m)
	}
	return args
}

func tapArgs(mods key.Modifier) []interface{} {
	var args []interface{}
	for _, m := range mods.RobotgoNames() {
		args = append(args, m)
	}
	return args
}
