// Package commandtest provides a recording command.Runner for tests.
package commandtest

import (
	"context"
	"os"
	"sync"

	"creatorshorts/internal/adapters/command"
)

// Call is one recorded invocation.
type Call struct {
	Name string
	Args []string
}

// Arg returns the value following flag, or "" when flag is absent.
func (c Call) Arg(flag string) string {
	for i := 0; i < len(c.Args)-1; i++ {
		if c.Args[i] == flag {
			return c.Args[i+1]
		}
	}
	return ""
}

// Last returns the final argument.
func (c Call) Last() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[len(c.Args)-1]
}

// Runner records calls and delegates to Handle, if set.
type Runner struct {
	mu     sync.Mutex
	calls  []Call
	Handle func(call Call) (command.Result, error)
}

// Run implements command.Runner.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return command.Result{ExitCode: -1}, err
	}
	if r.Handle == nil {
		return command.Result{}, nil
	}
	return r.Handle(call)
}

// Calls returns a copy of the recorded calls.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// WriteFile creates path with placeholder media bytes.
func WriteFile(path string) error {
	return os.WriteFile(path, []byte("fake media"), 0644)
}

// MediaTools returns a Handle that mimics yt-dlp and ffmpeg by writing
// their output files: the -o value for yt-dlp, the last argument otherwise.
func MediaTools(ytdlpName string) func(call Call) (command.Result, error) {
	return func(call Call) (command.Result, error) {
		out := call.Last()
		if call.Name == ytdlpName {
			out = call.Arg("-o")
		}
		if err := WriteFile(out); err != nil {
			return command.Result{ExitCode: 1}, err
		}
		return command.Result{}, nil
	}
}
