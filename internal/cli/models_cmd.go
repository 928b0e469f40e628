// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/lmtdev/lmt/internal/catalog"
)

// runModels lists the model catalog: canonical ids, aliases, and
// input pricing.
func runModels(args []string) error {
	p := NewArgParser(args)
	if p.AnyBoolFlag("help", "h") {
		fmt.Println("Usage: lmt models")
		return nil
	}

	fmt.Println(TitleStyle.Render("Available models"))
	fmt.Println()
	fmt.Printf("%-24s %-28s %s\n", "MODEL", "ALIASES", "INPUT $/1M TOKENS")

	for _, m := range catalog.List() {
		aliases := strings.Join(m.Aliases, ", ")
		if aliases == "" {
			aliases = "-"
		}
		line := fmt.Sprintf("%-24s %-28s %.2f", m.ID, aliases, m.InputPricePerMTok)
		if m.ID == catalog.DefaultModel {
			line += "  " + SuccessStyle.Render("(default)")
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Pick one with --model, e.g. lmt --model 4o \"...\""))
	return nil
}
