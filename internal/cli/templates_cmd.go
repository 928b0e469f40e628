// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/lmtdev/lmt/internal/templates"
)

const templatesUsage = `Usage: lmt templates <subcommand>

Subcommands:
  list                  List stored templates
  view <name>           Show a template
  add <name>            Create a template and open it in $EDITOR
  edit <name>           Open a template in $EDITOR
  delete <name>         Delete a template (asks for confirmation)
  rename <old> <new>    Rename a template
`

// runTemplates dispatches the template management subcommands.
func runTemplates(args []string) error {
	p := NewArgParser(args)

	store, err := templates.DefaultStore()
	if err != nil {
		return err
	}

	switch p.Subcommand() {
	case "list", "":
		return templatesList(store)
	case "view":
		return templatesView(store, p.Positional(1))
	case "add":
		return templatesAdd(store, p.Positional(1))
	case "edit":
		return templatesEdit(store, p.Positional(1))
	case "delete":
		return templatesDelete(store, p.Positional(1), p.AnyBoolFlag("force", "f"))
	case "rename":
		return templatesRename(store, p.Positional(1), p.Positional(2))
	case "help":
		fmt.Print(templatesUsage)
		return nil
	default:
		return usagef("unknown templates subcommand %q", p.Subcommand())
	}
}

func templatesList(store *templates.Store) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println(DimStyle.Render("No templates yet. Create one with: lmt templates add <name>"))
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func templatesView(store *templates.Store, name string) error {
	if name == "" {
		return usagef("template name required")
	}
	// Show the file as stored; it is the editable source of truth.
	data, err := os.ReadFile(store.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", templates.ErrTemplateNotFound, name)
		}
		return err
	}
	fmt.Println(TitleStyle.Render(name) + DimStyle.Render("  ("+store.Path(name)+")"))
	fmt.Print(string(data))
	return nil
}

func templatesAdd(store *templates.Store, name string) error {
	if name == "" {
		return usagef("template name required")
	}
	if store.Exists(name) {
		return fmt.Errorf("%w: %q", templates.ErrTemplateExists, name)
	}
	if err := store.Save(name, []byte(templates.Starter)); err != nil {
		return err
	}
	fmt.Printf("%s created %s\n", SuccessStyle.Render("[OK]"), store.Path(name))
	return openEditor(store.Path(name))
}

func templatesEdit(store *templates.Store, name string) error {
	if name == "" {
		return usagef("template name required")
	}
	if !store.Exists(name) {
		return fmt.Errorf("%w: %q", templates.ErrTemplateNotFound, name)
	}
	return openEditor(store.Path(name))
}

func templatesDelete(store *templates.Store, name string, force bool) error {
	if name == "" {
		return usagef("template name required")
	}
	if !store.Exists(name) {
		return fmt.Errorf("%w: %q", templates.ErrTemplateNotFound, name)
	}

	if !force && IsStdinTTY() {
		fmt.Fprintf(os.Stderr, "Delete template %q? [y/N] ", name)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	if err := store.Delete(name); err != nil {
		return err
	}
	fmt.Printf("%s deleted %q\n", SuccessStyle.Render("[OK]"), name)
	return nil
}

func templatesRename(store *templates.Store, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return usagef("usage: lmt templates rename <old> <new>")
	}
	if err := store.Rename(oldName, newName); err != nil {
		return err
	}
	fmt.Printf("%s renamed %q to %q\n", SuccessStyle.Render("[OK]"), oldName, newName)
	return nil
}

// openEditor runs $EDITOR on path, attached to the terminal. Without
// an editor configured the path is printed instead.
func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		fmt.Println(DimStyle.Render("$EDITOR not set; edit the file directly: " + path))
		return nil
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}
