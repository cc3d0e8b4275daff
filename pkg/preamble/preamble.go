// Package preamble renders the copyright and auto-generation banner placed
// ahead of generated sources.
package preamble

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout formats the generation time with microseconds.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Config describes the banner.
type Config struct {
	StartYear int
	Holder    string
	License   string
	// Comment is the line comment marker, "//" when empty.
	Comment string
}

// Default matches the banner of the Pothos VOLK block sources.
func Default() Config {
	return Config{
		StartYear: 2021,
		Holder:    "Nicholas Corgan",
		License:   "GPL-3.0-or-later",
		Comment:   "//",
	}
}

// Render returns the banner for now, ending with a newline. A zero StartYear
// prints only the current year.
func Render(cfg Config, now time.Time) string {
	c := cfg.Comment
	if c == "" {
		c = "//"
	}

	years := fmt.Sprintf("%d-%d", cfg.StartYear, now.Year())
	if cfg.StartYear == 0 {
		years = fmt.Sprint(now.Year())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Copyright (c) %s %s\n", c, years, cfg.Holder)
	fmt.Fprintf(&b, "%s SPDX-License-Identifier: %s\n", c, cfg.License)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", c)
	fmt.Fprintf(&b, "%s This file was auto-generated on %s.\n", c, now.Format(TimestampLayout))
	fmt.Fprintf(&b, "%s\n", c)
	return b.String()
}
