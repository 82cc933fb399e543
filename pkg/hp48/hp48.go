// Package hp48 implements the command vocabulary an HP-48GX sends to
// the IR people counter unit over the Red Eye link: the character
// frame tables and the two application commands, rendered to pulse
// schedules via pkg/redeye.
package hp48

import (
	"github.com/seagrayinc/hp48-redeye/pkg/redeye"
)

// Command is an ordered frame sequence. The start and stop commands
// bracket every transmission and are applied by Transmission; the
// closed set of application commands lives in the *_cmd.go files.
type Command []redeye.Frame

var (
	startCommand = Command{frameESC, frameDot}
	stopCommand  = Command{frameFF, frameEOT}
)

// Transmission renders the complete wire schedule for one application
// command: the start command, the settle delay the counter unit needs
// before it will accept a payload, the payload frames, then the stop
// command. Fire and forget; the link carries no acknowledgment.
func Transmission(cmd Command) redeye.Schedule {
	var s redeye.Schedule
	for _, f := range startCommand {
		s.AppendFrame(f)
	}
	s.AppendIdle(redeye.SettleTime)
	for _, f := range cmd {
		s.AppendFrame(f)
	}
	for _, f := range stopCommand {
		s.AppendFrame(f)
	}
	return s
}

// Frames returns how many frames Transmission puts on the wire for
// cmd, bracketing included.
func Frames(cmd Command) int {
	return len(startCommand) + len(cmd) + len(stopCommand)
}
