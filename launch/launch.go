// Package launch composes engine command lines from a profile plus the
// gameplay settings and spawns the engine as a detached process.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"doomdeck/db"
	"doomdeck/registry"
)

// ErrOutOfRange is returned when a numeric gameplay setting is outside the
// range the engine accepts.
var ErrOutOfRange = errors.New("setting out of range")

// LaunchError reports a failed spawn, carrying the attempted command line
// for diagnostics.
type LaunchError struct {
	Executable string
	Args       []string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s %s: %v", e.Executable, strings.Join(e.Args, " "), e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Command is a fully resolved launch invocation.
type Command struct {
	Executable string
	Args       []string
}

func (c Command) String() string {
	return c.Executable + " " + strings.Join(c.Args, " ")
}

// Resolver turns profiles into engine invocations.
type Resolver struct {
	reg *registry.Registry
	log *zap.SugaredLogger
}

func NewResolver(reg *registry.Registry, log *zap.SugaredLogger) *Resolver {
	return &Resolver{reg: reg, log: log}
}

// ValidatePlaySettings checks every numeric gameplay setting against the
// range the engine accepts. Unset values pass.
func ValidatePlaySettings(s *db.PlaySettings) error {
	if s.Skill != nil && (*s.Skill < 1 || *s.Skill > 5) {
		return fmt.Errorf("skill %d: %w", *s.Skill, ErrOutOfRange)
	}
	if s.Turbo != nil && (*s.Turbo < 10 || *s.Turbo > 255) {
		return fmt.Errorf("turbo %d: %w", *s.Turbo, ErrOutOfRange)
	}
	if s.Timer != nil && (*s.Timer < 1 || *s.Timer > 43800) {
		return fmt.Errorf("timer %d: %w", *s.Timer, ErrOutOfRange)
	}
	if s.Width != nil && (*s.Width < 1 || *s.Width > 2880) {
		return fmt.Errorf("width %d: %w", *s.Width, ErrOutOfRange)
	}
	if s.Height != nil && (*s.Height < 1 || *s.Height > 10240) {
		return fmt.Errorf("height %d: %w", *s.Height, ErrOutOfRange)
	}
	return nil
}

// BuildArgs merges a profile's content selection with the gameplay settings
// into the fixed argument order: iwad, file, profile args, complevel,
// monster flags, warp, skill, turbo, timer, resolution, display mode,
// global args. Unset settings are omitted entirely.
func BuildArgs(iwadPath, addonPath, profileExtraArgs string, s *db.PlaySettings) ([]string, error) {
	if err := ValidatePlaySettings(s); err != nil {
		return nil, err
	}

	args := []string{"-iwad", iwadPath}

	if addonPath != "" {
		args = append(args, "-file", addonPath)
	}

	profileTokens, err := shlex.Split(profileExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("bad profile extra arguments: %w", err)
	}
	args = append(args, profileTokens...)

	if s.CompLevel != nil {
		args = append(args, "-complevel", strconv.Itoa(*s.CompLevel))
	}
	if s.FastMonsters {
		args = append(args, "-fast")
	}
	if s.NoMonsters {
		args = append(args, "-nomonsters")
	}
	if s.RespawnMonsters {
		args = append(args, "-respawn")
	}
	if s.Warp != "" {
		args = append(args, "-warp")
		args = append(args, strings.Fields(s.Warp)...)
	}
	if s.Skill != nil {
		args = append(args, "-skill", strconv.Itoa(*s.Skill))
	}
	if s.Turbo != nil {
		args = append(args, "-turbo", strconv.Itoa(*s.Turbo))
	}
	if s.Timer != nil {
		args = append(args, "-timer", strconv.Itoa(*s.Timer))
	}
	if s.Width != nil {
		args = append(args, "-width", strconv.Itoa(*s.Width))
	}
	if s.Height != nil {
		args = append(args, "-height", strconv.Itoa(*s.Height))
	}
	if s.Fullscreen {
		args = append(args, "-fullscreen")
	}
	if s.Windowed {
		args = append(args, "-window")
	}

	globalTokens, err := shlex.Split(s.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("bad global extra arguments: %w", err)
	}
	args = append(args, globalTokens...)

	return args, nil
}

// Resolve looks up the profile's engine and content and builds the full
// invocation. Only the first non-null addon slot is used for launching.
func (r *Resolver) Resolve(p *db.Profile, s *db.PlaySettings) (*Command, error) {
	engine, err := r.reg.Engine(p.EngineID)
	if err != nil {
		return nil, err
	}
	iwad, err := r.reg.BaseContent(p.BaseContentID)
	if err != nil {
		return nil, err
	}

	addonPath := ""
	if id := p.FirstAddonID(); id != nil {
		addon, err := r.reg.AddonContent(*id)
		if err != nil {
			return nil, err
		}
		addonPath = addon.Path
	}

	args, err := BuildArgs(iwad.Path, addonPath, p.ExtraArgs, s)
	if err != nil {
		return nil, err
	}
	return &Command{Executable: engine.Path, Args: args}, nil
}

// Launch resolves and spawns the engine, fire and forget: the child is
// released immediately and its exit is never observed. On a successful
// spawn with rememberLast set, the profile is persisted as the last
// launched one; a failed spawn never mutates settings.
func (r *Resolver) Launch(p *db.Profile, s *db.PlaySettings, rememberLast bool) error {
	command, err := r.Resolve(p, s)
	if err != nil {
		return err
	}

	r.log.Infow("Launching engine",
		zap.String("profile", p.Name),
		zap.String("command", command.String()),
	)

	cmd := exec.Command(command.Executable, command.Args...)
	if err := cmd.Start(); err != nil {
		return &LaunchError{Executable: command.Executable, Args: command.Args, Err: err}
	}
	if err := cmd.Process.Release(); err != nil {
		r.log.Warnw("Failed to release child process handle", zap.Error(err))
	}

	if rememberLast {
		settings, err := r.reg.Settings()
		if err != nil {
			return err
		}
		settings.LastProfileID = &p.ID
		if err := r.reg.SaveSettings(settings); err != nil {
			return err
		}
	}
	return nil
}
