// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser provides unified argument parsing for CLI commands.
// It handles multiple flag formats consistently:
//   - Long flags: --flag value or --flag=value
//   - Short flags: -f value
//   - Boolean flags: --flag (no value needed)
//   - Positional arguments: arguments without flags
//   - Subcommands: first positional argument
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// stringFlags lists flag names that always take a value, so that a
// value starting with "-" is not mistaken for a flag.
var stringFlags = map[string]bool{
	"model": true, "m": true,
	"template": true, "t": true,
	"system": true, "s": true,
	"temperature": true,
}

// NewArgParser creates a new argument parser from raw arguments.
//
// Supported flag formats:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
func NewArgParser(raw []string) *ArgParser {
	parser := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if strings.HasPrefix(arg, "-") && arg != "-" && arg != "--" {
			// --flag=value format.
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				flagName := strings.TrimLeft(parts[0], "-")
				flagValue := parts[1]

				// Boolean flags can be explicit: --debug=true.
				if !stringFlags[flagName] && (flagValue == "true" || flagValue == "false") {
					parser.boolFlags[flagName] = flagValue == "true"
				} else {
					parser.flags[flagName] = flagValue
				}
				i++
				continue
			}

			flagName := strings.TrimLeft(arg, "-")

			// A value-taking flag consumes the next argument; anything
			// else with a following non-flag is treated the same way.
			if i+1 < len(raw) && (stringFlags[flagName] || !strings.HasPrefix(raw[i+1], "-")) && takesValue(flagName) {
				parser.flags[flagName] = raw[i+1]
				i += 2
			} else {
				parser.boolFlags[flagName] = true
				i++
			}
		} else {
			parser.positional = append(parser.positional, arg)
			i++
		}
	}

	if len(parser.positional) > 0 {
		parser.subcommand = parser.positional[0]
	}

	return parser
}

// boolOnlyFlags never consume a following argument even when one
// looks like a value. Keeps `lmt --tokens "some prompt"` working.
var boolOnlyFlags = map[string]bool{
	"tokens": true, "emoji": true, "e": true,
	"raw": true, "r": true, "rich": true, "R": true,
	"no-stream": true, "debug": true,
	"help": true, "h": true, "force": true, "f": true,
}

func takesValue(flagName string) bool {
	return !boolOnlyFlags[flagName]
}

// Subcommand returns the first positional argument, or "" if none.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "" if not set.
func (p *ArgParser) Flag(name string) string {
	name = strings.TrimLeft(name, "-")
	return p.flags[name]
}

// FlagOrDefault returns the flag value or a default if not set.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return defaultValue
}

// FlagFloat returns the flag value parsed as a float.
func (p *ArgParser) FlagFloat(name string, defaultValue float64) (float64, error) {
	val := p.Flag(name)
	if val == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(val, 64)
}

// BoolFlag returns the value of a boolean flag, false if not set.
func (p *ArgParser) BoolFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	return p.boolFlags[name]
}

// AnyBoolFlag reports whether any of the given boolean flags is set.
// Used for long/short aliases like --raw / -r.
func (p *ArgParser) AnyBoolFlag(names ...string) bool {
	for _, name := range names {
		if p.BoolFlag(name) {
			return true
		}
	}
	return false
}

// AnyFlag returns the first non-empty value among the given flag
// names. Used for long/short aliases like --model / -m.
func (p *ArgParser) AnyFlag(names ...string) string {
	for _, name := range names {
		if val := p.Flag(name); val != "" {
			return val
		}
	}
	return ""
}

// HasFlag reports whether the flag was given at all.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments starting from index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}
