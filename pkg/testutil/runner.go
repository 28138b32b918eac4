package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

// Response is the scripted result of one command line
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// FakeRunner answers commands from a script keyed by the full command line
// and records every invocation. Unknown commands fail with exit code 127.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewFakeRunner creates an empty runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On scripts stdout for a command line such as "lsusb -v -s 001:005"
func (f *FakeRunner) On(commandLine, stdout string) *FakeRunner {
	return f.OnResponse(commandLine, Response{Stdout: stdout})
}

// OnResponse scripts a full response for a command line
func (f *FakeRunner) OnResponse(commandLine string, response Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[commandLine] = response
	return f
}

// Run implements the command runner contract
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.calls = append(f.calls, line)
	response, ok := f.responses[line]
	f.mu.Unlock()

	if !ok {
		return "", errors.CommandFailed(line, 127, "", "command not scripted", nil)
	}
	if response.ExitCode != 0 {
		return "", errors.CommandFailed(line, response.ExitCode, response.Stdout, response.Stderr, nil)
	}
	return response.Stdout, nil
}

// Calls returns the recorded command lines in order
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many recorded command lines start with prefix
func (f *FakeRunner) CallCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

// Reset forgets recorded calls
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
