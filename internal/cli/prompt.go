// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lmtdev/lmt/internal/catalog"
	"github.com/lmtdev/lmt/internal/config"
	"github.com/lmtdev/lmt/internal/driver"
	"github.com/lmtdev/lmt/internal/keys"
	"github.com/lmtdev/lmt/internal/openai"
	"github.com/lmtdev/lmt/internal/render"
	"github.com/lmtdev/lmt/internal/templates"
	"github.com/lmtdev/lmt/internal/tokens"
	"github.com/lmtdev/lmt/internal/usage"
	"github.com/lmtdev/lmt/internal/util"
)

// stdinSeparator joins piped input and prompt arguments into one user
// prompt, piped content first.
const stdinSeparator = "\n___\n"

// runPrompt composes a prompt, optionally counts it, and sends it.
func runPrompt(args []string) error {
	p := NewArgParser(args)
	if p.AnyBoolFlag("help", "h") {
		printUsage(os.Stdout)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flag conflicts fail before any file or network I/O.
	templateName := p.AnyFlag("template", "t")
	systemFlag := p.AnyFlag("system", "s")
	if templateName != "" && systemFlag != "" {
		return templates.ErrConflictingSources
	}

	temperature, err := p.FlagFloat("temperature", 1.0)
	if err != nil {
		return usagef("invalid temperature %q", p.Flag("temperature"))
	}
	if temperature < driver.MinTemperature || temperature > driver.MaxTemperature {
		return fmt.Errorf("%w, got %g", driver.ErrInvalidTemperature, temperature)
	}

	var tmpl *templates.Template
	if templateName != "" {
		store, err := templates.DefaultStore()
		if err != nil {
			return err
		}
		tmpl, err = store.Load(templateName)
		if err != nil {
			return err
		}
	}

	positional := strings.Join(p.PositionalFrom(0), " ")
	userInput, err := gatherInput(positional, tmpl != nil)
	if err != nil {
		return err
	}

	composed := templates.Compose(tmpl, templates.Overrides{
		System: systemFlag,
		User:   userInput,
		Model:  p.AnyFlag("model", "m"),
		Emoji:  p.AnyBoolFlag("emoji", "e"),
	}, cfg.DefaultModel)

	if strings.TrimSpace(composed.User) == "" && strings.TrimSpace(composed.System) == "" {
		return usagef("no prompt given")
	}

	model, err := catalog.Resolve(composed.Model)
	if err != nil {
		return err
	}
	composed.Model = model

	if p.BoolFlag("debug") {
		printDebug(os.Stderr, composed, temperature)
	}

	acct := tokens.NewAccountant(os.Stderr)
	promptTokens, err := acct.CountMessages(driver.Messages(composed), model)
	if err != nil {
		return err
	}

	// Token mode reports and stops; nothing is sent.
	if p.BoolFlag("tokens") {
		cost, err := tokens.EstimateCost(promptTokens, model)
		if err != nil {
			return err
		}
		fmt.Printf("Number of tokens in the prompt: %d\n", promptTokens)
		fmt.Printf("Estimated cost of the prompt (input only): $%s\n", cost)
		fmt.Println(DimStyle.Render("Model: " + model))
		return nil
	}

	keyStore, err := keys.DefaultStore()
	if err != nil {
		return err
	}
	key, err := keyStore.Read()
	if err != nil {
		return err
	}

	client := openai.NewClient(key)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		client.WithBaseURL(base)
	}

	raw := render.PickRaw(IsStdoutTTY(), p.AnyBoolFlag("raw", "r"), p.AnyBoolFlag("rich", "R"))
	renderer := render.New(os.Stdout, render.Options{
		Raw:              raw,
		WordWrap:         cfg.WordWrap,
		Width:            GetTerminalWidth(),
		RefreshPerSecond: cfg.RefreshPerSecond,
	})

	// Ctrl+C cancels the request; whatever streamed in stays on
	// screen.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stream := !p.BoolFlag("no-stream")
	res, err := driver.Send(ctx, client, composed, driver.Options{
		Temperature: temperature,
		Stream:      stream,
		OnFragment:  renderer.WriteFragment,
	})
	if err != nil {
		if res != nil && res.Text != "" {
			renderer.Finalize()
		}
		return err
	}

	if stream {
		renderer.Finalize()
	} else {
		renderer.Static(res.Text)
	}

	completionTokens := completionTokenCount(acct, res, model)
	costUSD, _ := tokens.Cost(promptTokens, model)
	recordUsage(model, promptTokens, completionTokens, costUSD, res.Elapsed)

	if IsStdoutTTY() {
		printStatus(os.Stderr, model, promptTokens, completionTokens, costUSD, res.Elapsed)
	}
	return nil
}

// gatherInput assembles the user prompt from arguments and stdin.
// Piped stdin is always read; on a terminal with nothing else to send,
// the prompt is read interactively until EOF.
func gatherInput(positional string, haveTemplate bool) (string, error) {
	if IsStdinTTY() {
		if positional != "" || haveTemplate {
			return positional, nil
		}
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Type your prompt, then press Ctrl+D to send it."))
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read piped input: %w", err)
	}
	return mergeStdin(string(data), positional), nil
}

// mergeStdin combines piped input with prompt arguments. Both present
// means both are kept, separated so the model sees where one ends.
func mergeStdin(stdin, positional string) string {
	stdin = strings.TrimSpace(stdin)
	switch {
	case stdin == "":
		return positional
	case positional == "":
		return stdin
	default:
		return stdin + stdinSeparator + positional
	}
}

// completionTokenCount counts response tokens, preferring the usage
// block the API reported over a local count.
func completionTokenCount(acct *tokens.Accountant, res *driver.Result, model string) int {
	if res.Response != nil && res.Response.Usage.CompletionTokens > 0 {
		return res.Response.Usage.CompletionTokens
	}
	n, err := acct.CountText(res.Text, model)
	if err != nil {
		return 0
	}
	return n
}

// printDebug shows the composed request on stderr before sending.
// Long prompt fields are truncated; this is a summary, not a dump.
func printDebug(w io.Writer, prompt templates.ComposedPrompt, temperature float64) {
	label := DimStyle.Render
	fmt.Fprintf(w, "%s %s\n", label("[debug] model:"), prompt.Model)
	fmt.Fprintf(w, "%s %g\n", label("[debug] temperature:"), temperature)
	fmt.Fprintf(w, "%s %q\n", label("[debug] system:"), util.TruncateRunes(prompt.System, 500))
	fmt.Fprintf(w, "%s %q\n", label("[debug] user:"), util.TruncateRunes(prompt.User, 500))
}

// printStatus writes the post-response summary line to stderr.
func printStatus(w io.Writer, model string, promptTokens, completionTokens int, costUSD float64, elapsed time.Duration) {
	fmt.Fprintln(w, DimStyle.Render(strings.Repeat("─", 40)))
	fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf(
		"%s · %d prompt + %d completion tokens · $%.6f input · %.2fs",
		model, promptTokens, completionTokens, costUSD, elapsed.Seconds(),
	)))
}

// recordUsage appends the request to the local ledger. Failures are
// ignored: accounting must never break the response path.
func recordUsage(model string, promptTokens, completionTokens int, costUSD float64, elapsed time.Duration) {
	path, err := usage.DefaultPath()
	if err != nil {
		return
	}
	ledger, err := usage.Open(path)
	if err != nil {
		return
	}
	defer ledger.Close()

	_ = ledger.Record(usage.Entry{
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD:          costUSD,
		Duration:         elapsed,
	})
}
