package hosttools

import (
	"context"
	"fmt"
)

// Commands names the introspection executables
type Commands struct {
	Lspci string
	Lsusb string
	Ls    string
}

// DefaultCommands resolves the tools from PATH
var DefaultCommands = Commands{Lspci: "lspci", Lsusb: "lsusb", Ls: "ls"}

// Tools runs the introspection commands through a Runner and parses them
type Tools struct {
	runner   Runner
	commands Commands
}

// New creates Tools over runner
func New(runner Runner, commands Commands) *Tools {
	return &Tools{runner: runner, commands: commands}
}

// PCIInventory runs lspci -D -vmm
func (t *Tools) PCIInventory(ctx context.Context) (PCIInventory, error) {
	out, err := t.runner.Run(ctx, t.commands.Lspci, "-D", "-vmm")
	if err != nil {
		return nil, err
	}
	return ParsePCIInventory(out), nil
}

// USBVerbose runs lsusb -v -s BUS:DEV for one device
func (t *Tools) USBVerbose(ctx context.Context, busnum, devnum int) (USBDetails, error) {
	out, err := t.runner.Run(ctx, t.commands.Lsusb, "-v", "-s", fmt.Sprintf("%03d:%03d", busnum, devnum))
	if err != nil {
		return USBDetails{}, err
	}
	return ParseUSBVerbose(out), nil
}

// List runs ls -l on dir
func (t *Tools) List(ctx context.Context, dir string) ([]Entry, error) {
	out, err := t.runner.Run(ctx, t.commands.Ls, "-l", dir)
	if err != nil {
		return nil, err
	}
	return ParseListing(out), nil
}
