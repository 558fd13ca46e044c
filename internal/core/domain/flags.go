package domain

import (
	"maps"
	"slices"
	"strings"
)

// ConfigureFlagSet is the ordered list of flags handed to a configure script.
// Common flags always precede target specific ones.
type ConfigureFlagSet []string

// Merge returns common followed by override. Neither input is modified.
func Merge(common, override ConfigureFlagSet) ConfigureFlagSet {
	out := make(ConfigureFlagSet, 0, len(common)+len(override))
	out = append(out, common...)
	return append(out, override...)
}

// ParseFlagLines extracts flags from the contents of a flag file.
// Lines are trimmed; blank lines and lines starting with '#' are dropped.
func ParseFlagLines(content string) ConfigureFlagSet {
	var flags ConfigureFlagSet
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		flags = append(flags, line)
	}
	return flags
}

// EnvironmentMap holds environment variables for a process.
type EnvironmentMap map[string]string

// Clone returns an independent copy.
func (e EnvironmentMap) Clone() EnvironmentMap {
	if e == nil {
		return EnvironmentMap{}
	}
	return maps.Clone(e)
}

// AppendFlag appends value to a space separated variable such as CFLAGS.
func (e EnvironmentMap) AppendFlag(key string, values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if cur := e[key]; cur != "" {
			e[key] = cur + " " + v
		} else {
			e[key] = v
		}
	}
}

// Environ returns the variables as sorted KEY=VALUE strings.
func (e EnvironmentMap) Environ() []string {
	keys := slices.Sorted(maps.Keys(e))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}
