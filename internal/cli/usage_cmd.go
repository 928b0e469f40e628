// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/lmtdev/lmt/internal/usage"
	"github.com/lmtdev/lmt/internal/util"
)

// runUsage reports what has been spent so far, from the local ledger.
func runUsage(args []string) error {
	p := NewArgParser(args)
	if p.AnyBoolFlag("help", "h") {
		fmt.Println("Usage: lmt usage [recent]")
		return nil
	}

	path, err := usage.DefaultPath()
	if err != nil {
		return err
	}
	ledger, err := usage.Open(path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	switch p.Subcommand() {
	case "recent":
		return usageRecent(ledger)
	case "":
		return usageTotals(ledger)
	default:
		return usagef("unknown usage subcommand %q", p.Subcommand())
	}
}

func usageTotals(ledger *usage.Ledger) error {
	totals, err := ledger.Totals()
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		fmt.Println(DimStyle.Render("No requests recorded yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Usage by model"))
	fmt.Println()
	fmt.Printf("%-24s %9s %14s %18s %12s\n", "MODEL", "REQUESTS", "PROMPT TOKENS", "COMPLETION TOKENS", "INPUT COST")

	var grand usage.ModelTotal
	for _, t := range totals {
		fmt.Printf("%-24s %9d %14d %18d %12s\n",
			t.Model, t.Requests, t.PromptTokens, t.CompletionTokens,
			fmt.Sprintf("$%.6f", t.CostUSD))
		grand.Requests += t.Requests
		grand.PromptTokens += t.PromptTokens
		grand.CompletionTokens += t.CompletionTokens
		grand.CostUSD += t.CostUSD
	}

	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("total: %d requests, %d prompt + %d completion tokens, $%.6f input",
		grand.Requests, grand.PromptTokens, grand.CompletionTokens, grand.CostUSD)))
	return nil
}

func usageRecent(ledger *usage.Ledger) error {
	entries, err := ledger.Recent(20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(DimStyle.Render("No requests recorded yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Recent requests"))
	fmt.Println()
	for _, e := range entries {
		fmt.Printf("%s  %-24s %6d + %-6d $%.6f  %.2fs\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			util.TruncateWidth(e.Model, 24), e.PromptTokens, e.CompletionTokens,
			e.CostUSD, e.Duration.Seconds())
	}
	return nil
}
