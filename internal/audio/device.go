package audio

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Device starts playback of an audio file
type Device interface {
	// Start begins playing the file at path and returns without waiting
	Start(path string) (Playback, error)
}

// Playback is one running playback on a Device
type Playback interface {
	// Wait blocks until playback ends, naturally or through Stop
	Wait() error

	// Stop ends playback early. Stopping a finished playback is a no-op.
	Stop() error
}

// ExecDevice plays files with a platform audio player command
type ExecDevice struct {
	// Command overrides player detection, e.g. []string{"mpg123", "-q"}.
	// The file path is appended.
	Command []string
}

// NewExecDevice creates a device that detects a player on first use
func NewExecDevice() *ExecDevice {
	return &ExecDevice{}
}

// Start launches the player process for path
func (d *ExecDevice) Start(path string) (Playback, error) {
	cmd, err := d.command(path)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start audio player: %w", err)
	}
	return &execPlayback{cmd: cmd}, nil
}

// command builds the player command using platform-specific players
func (d *ExecDevice) command(path string) (*exec.Cmd, error) {
	if len(d.Command) > 0 {
		args := append(append([]string(nil), d.Command[1:]...), path)
		return exec.Command(d.Command[0], args...), nil
	}

	switch runtime.GOOS {
	case "darwin": // macOS
		return exec.Command("afplay", path), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil {
			return exec.Command("mpg123", "-q", path), nil
		} else if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path), nil
		} else if _, err := exec.LookPath("play"); err == nil {
			// SoX play command
			return exec.Command("play", "-q", path), nil
		} else if _, err := exec.LookPath("paplay"); err == nil {
			return exec.Command("paplay", path), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox or paplay")
	case "windows":
		return exec.Command("powershell", "-NoProfile", "-Command",
			fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// execPlayback wraps a running player process
type execPlayback struct {
	cmd *exec.Cmd
}

func (p *execPlayback) Wait() error {
	return p.cmd.Wait()
}

func (p *execPlayback) Stop() error {
	if p.cmd.Process == nil {
		return nil
	}
	// Kill fails with os.ErrProcessDone when playback already finished
	_ = p.cmd.Process.Kill()
	return nil
}
