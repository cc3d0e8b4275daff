package main

import (
	"context"
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

var errAborted = errors.New("prompt aborted")

// prompter asks for the output directory when none was given.
type prompter interface {
	OutputDir(ctx context.Context) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) OutputDir(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: "Output directory:",
		Help:    "Directory the generated factory belongs to.",
		Default: ".",
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", err
	}
	return out, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
