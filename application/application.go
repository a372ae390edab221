// Package application runs external programs with an explicit life cycle.
//
// An application is created, started, and then either joined (which waits
// for it to finish and makes its results available) or cancelled:
//
//	Created -> Running -> Finished -> Joined
//	              |
//	              +-----> Cancelled
//
// Calling a method in the wrong state returns a *StateError.
package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const waitDelay = 2 * time.Second

// Log receives the command lines of started applications. It discards
// everything unless replaced.
var Log = log.New(io.Discard, "", 0)

// State is the life cycle state of an application.
type State int

const (
	Created State = iota
	Running
	Finished
	Joined
	Cancelled
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Joined:
		return "joined"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrState is matched (with errors.Is) by every *StateError.
var ErrState = errors.New("application is in the wrong state")

// StateError is returned when a method is called in a state that does not
// allow it.
type StateError struct {
	Op      string
	Current State
	Allowed []State
}

func (e *StateError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = s.String()
	}
	return fmt.Sprintf("Cannot %s an application that is %s (must be %s).",
		e.Op, e.Current, strings.Join(allowed, " or "))
}

func (e *StateError) Is(target error) bool {
	return target == ErrState
}

// ExitError is returned by Join when the program exits with a non-zero code.
type ExitError struct {
	Program string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("'%s' returned exit code %d: %s",
		e.Program, e.Code, strings.TrimSpace(e.Stderr))
}

// LocalApp is a program executed on the local machine.
type LocalApp struct {
	// Program is the name or path of the executable.
	Program string

	// Args are the command line arguments.
	Args []string

	// Stdin is given to the program, if set.
	Stdin io.Reader

	mu     sync.Mutex
	state  State
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewLocalApp creates an application in the Created state.
func NewLocalApp(program string, args ...string) *LocalApp {
	return &LocalApp{Program: program, Args: args}
}

// State returns the current state.
func (app *LocalApp) State() State {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.state
}

func (app *LocalApp) require(op string, allowed ...State) error {
	for _, s := range allowed {
		if app.state == s {
			return nil
		}
	}
	return &StateError{Op: op, Current: app.state, Allowed: allowed}
}

// Start runs the program. It is stopped if the context is cancelled before
// it finishes.
func (app *LocalApp) Start(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if err := app.require("start", Created); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, app.Program, app.Args...)
	cmd.Stdin = app.Stdin
	cmd.Stdout = &app.stdout
	cmd.Stderr = &app.stderr
	// Children of a killed program may keep its output pipes open.
	cmd.WaitDelay = waitDelay
	Log.Printf("Running: %s", strings.Join(cmd.Args, " "))
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start %s: %v", app.Program, err)
	}

	app.cmd = cmd
	app.cancel = cancel
	app.done = make(chan struct{})
	app.state = Running
	go func() {
		err := cmd.Wait()
		app.mu.Lock()
		app.err = err
		if app.state == Running {
			app.state = Finished
		}
		app.mu.Unlock()
		close(app.done)
	}()
	return nil
}

// Wait blocks until the program has finished, without joining it.
func (app *LocalApp) Wait() error {
	app.mu.Lock()
	if err := app.require("wait for", Running, Finished, Joined); err != nil {
		app.mu.Unlock()
		return err
	}
	done := app.done
	app.mu.Unlock()
	<-done
	return nil
}

// Join waits for the program to finish and moves the application to the
// Joined state. A non-zero exit code is reported as an *ExitError.
func (app *LocalApp) Join() error {
	app.mu.Lock()
	if err := app.require("join", Running, Finished); err != nil {
		app.mu.Unlock()
		return err
	}
	done := app.done
	app.mu.Unlock()
	<-done

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.state == Cancelled {
		return &StateError{Op: "join", Current: Cancelled,
			Allowed: []State{Running, Finished}}
	}
	app.state = Joined
	app.cancel()
	if app.err != nil {
		var exitErr *exec.ExitError
		if errors.As(app.err, &exitErr) {
			return &ExitError{
				Program: app.Program,
				Code:    exitErr.ExitCode(),
				Stderr:  app.stderr.String(),
			}
		}
		return fmt.Errorf("failed to execute %s: %v", app.Program, app.err)
	}
	return nil
}

// Cancel stops a running program.
func (app *LocalApp) Cancel() error {
	app.mu.Lock()
	if err := app.require("cancel", Running, Finished); err != nil {
		app.mu.Unlock()
		return err
	}
	app.state = Cancelled
	app.cancel()
	done := app.done
	app.mu.Unlock()
	<-done
	return nil
}

// Stdout returns the standard output of a joined application.
func (app *LocalApp) Stdout() (string, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if err := app.require("read the output of", Joined); err != nil {
		return "", err
	}
	return app.stdout.String(), nil
}

// Stderr returns the standard error of a joined application.
func (app *LocalApp) Stderr() (string, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if err := app.require("read the output of", Joined); err != nil {
		return "", err
	}
	return app.stderr.String(), nil
}

// ExitCode returns the exit code of a joined application.
func (app *LocalApp) ExitCode() (int, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if err := app.require("get the exit code of", Joined); err != nil {
		return 0, err
	}
	return app.cmd.ProcessState.ExitCode(), nil
}
