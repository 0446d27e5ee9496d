package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/skiff-run/skiff-cli/internal/catalog"
	"github.com/skiff-run/skiff-cli/internal/launch"
	"github.com/skiff-run/skiff-cli/internal/messages"
)

// runFormFunc runs a huh form. Tests override it to script answers.
var runFormFunc = func(form *huh.Form) error {
	return form.Run()
}

// confirmFunc is the confirm prompt seam for tests.
var confirmFunc = confirm

// promptKeyMap binds Esc alongside Ctrl+C so both abort a prompt, and
// disables filtering since version lists are short.
func promptKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// runForm renders form on stderr so prompt chrome never mixes with command
// output. An abort surfaces as a silent non-zero exit.
func runForm(form *huh.Form) error {
	form.WithKeyMap(promptKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithReportFocus(),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return &SilentExitError{Code: 130}
	}
	return err
}

// selectString prompts for one choice from options.
func selectString(title string, options []string, value *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(value),
	)))
}

// confirm prompts for a yes/no answer.
func confirm(title string, value *bool) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(value),
	)))
}

// pickVersion lists the catalog and prompts for a version, newest first.
func pickVersion(ctx context.Context, l *launch.Launcher) (string, error) {
	if !isTerminal() {
		return "", errors.New(messages.InstallRequiresTerminal)
	}
	versions, err := l.Catalog.ListVersions(ctx, "", catalog.FullVisibility)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errors.New(messages.InstallNoVersions)
	}
	options := make([]string, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		options = append(options, versions[i].Version.String())
	}
	choice := options[0]
	if err := selectString(messages.InstallPickPrompt, options, &choice); err != nil {
		return "", err
	}
	return choice, nil
}
