package domain

import (
	"strings"
	"time"
)

// CommandKind names the phase a sub-command belongs to.
type CommandKind string

const (
	// KindClean removes previous build products. Its failure is tolerated.
	KindClean CommandKind = "clean"
	// KindBootstrap regenerates autotools scripts.
	KindBootstrap CommandKind = "bootstrap"
	// KindConfigure runs the configure script.
	KindConfigure CommandKind = "configure"
	// KindBuild compiles.
	KindBuild CommandKind = "build"
	// KindInstall installs into the target prefix.
	KindInstall CommandKind = "install"
)

// StepSpec is the declaration of a library build step as read from the manifest.
type StepSpec struct {
	Name string
	// Dir is the step's directory relative to the source tree.
	Dir      string
	Requires []string
	// Autotools steps get an extra bootstrap sub-command before configure.
	Autotools bool
	// FlagTool names the flag files consulted for this step. Defaults to Name.
	FlagTool string
	// Final marks the step producing the shipped binary.
	Final           bool
	ConfigureScript string
	BootstrapScript string
	Env             map[string]string
}

// Tool returns the name used to look up flag files.
func (s StepSpec) Tool() string {
	if s.FlagTool != "" {
		return s.FlagTool
	}
	return s.Name
}

// SubCommand is a single external process launch within a step.
type SubCommand struct {
	Kind     CommandKind
	Args     []string
	Tolerant bool
}

// String renders the command line the way a shell user would type it.
func (c SubCommand) String() string {
	return QuoteArgs(c.Args)
}

// DependencyStep is a StepSpec instantiated for one target and one run.
type DependencyStep struct {
	Name       string
	WorkingDir string
	Requires   []string
	Commands   []SubCommand
	Env        EnvironmentMap
	Final      bool
}

// ProcessInvocation is the fully resolved description of one process launch.
type ProcessInvocation struct {
	Path    string
	Args    []string
	Dir     string
	Env     EnvironmentMap
	Timeout time.Duration
}

// String renders the invocation as a command line.
func (p ProcessInvocation) String() string {
	return QuoteArgs(append([]string{p.Path}, p.Args...))
}

// ProcessResult reports how a finished process exited.
type ProcessResult struct {
	ExitCode int
	// Tail is the last few KiB of combined output.
	Tail string
}

// QuoteArgs joins args with spaces, single-quoting any argument that needs it.
func QuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = ShellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// ShellQuote quotes s for a POSIX shell when it contains special characters.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`|&;<>()*?[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
