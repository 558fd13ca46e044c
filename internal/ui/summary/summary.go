// Package summary renders the report printed at the end of a build.
package summary

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"go.trai.ch/ffbuild/internal/core/domain"
)

// tailLines bounds how much of a failing command's output is repeated.
const tailLines = 15

var (
	colArrow  = color.HEX("#FFEB3B")
	colOK     = color.Info
	colCached = color.Notice
	colFailed = color.Danger
	colPath   = color.HEX("#1976D2")
	colTail   = color.Comment
)

// Write renders s to w: one line per target, the produced artifacts and the
// failures with the end of the failing command's output.
func Write(w io.Writer, s domain.RunSummary) error {
	p := &printer{w: w}

	p.header("Targets")
	for _, r := range s.Results {
		p.line("   %s %s %s%s",
			fmt.Sprintf("%-14s", r.Target),
			state(r.State),
			duration(r),
			where(r.Failure))
	}

	if len(s.Artifacts) > 0 {
		p.header("Artifacts")
		for _, a := range s.Artifacts {
			archs := make([]string, len(a.Archs))
			for i, arch := range a.Archs {
				archs[i] = string(arch)
			}
			p.line("   %s (%s %s)%s", colPath.Sprint(a.Path), a.Platform, strings.Join(archs, "+"), digest(a.Checksum))
		}
	}

	if failures := s.Failures(); len(failures) > 0 {
		p.header("Failures")
		for _, f := range failures {
			p.line("   %s", colFailed.Sprint(f.Error()))
			if f.Err != nil {
				p.line("      %s", f.Err.Error())
			}
			for _, l := range tail(f.Tail) {
				p.line("      %s", colTail.Sprint(l))
			}
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) header(title string) {
	p.line("%s %s", colArrow.Sprint("->"), title)
}

func (p *printer) line(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", a...)
}

func state(s domain.TargetState) string {
	padded := fmt.Sprintf("%-9s", s)
	switch s {
	case domain.StateComplete:
		return colOK.Sprint(padded)
	case domain.StateCached:
		return colCached.Sprint(padded)
	default:
		return colFailed.Sprint(padded)
	}
}

func duration(r domain.TargetResult) string {
	if r.State == domain.StateCached || r.Duration == 0 {
		return fmt.Sprintf("%8s", "-")
	}
	return fmt.Sprintf("%8s", r.Duration.Round(time.Second))
}

func where(f *domain.BuildFailure) string {
	if f == nil || f.Step == "" {
		return ""
	}
	s := "  step " + f.Step
	if f.SubCommand != "" {
		s += ", " + string(f.SubCommand)
	}
	if f.ExitCode != 0 {
		s += fmt.Sprintf(", exit %d", f.ExitCode)
	}
	return s
}

func digest(sum string) string {
	if len(sum) < 16 {
		return ""
	}
	return "  b3:" + sum[:16]
}

// tail returns the last non-empty lines of out.
func tail(out string) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	return lines
}
