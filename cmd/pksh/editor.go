package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/patternkb/patternkb/internal/pattern"
)

var errNoEditorFound = errors.New("no editor found (set config.editor, $EDITOR, or install vi/nano)")

// resolveEditor picks an editor command.
// Priority: config.editor -> $EDITOR -> vi -> nano -> error.
func resolveEditor(cfg pattern.Config, env map[string]string) (string, error) {
	if cfg.Editor != "" {
		_, lookErr := exec.LookPath(cfg.Editor)
		if lookErr == nil {
			return cfg.Editor, nil
		}
	}

	if editor := env["EDITOR"]; editor != "" {
		_, lookErr := exec.LookPath(editor)
		if lookErr == nil {
			return editor, nil
		}
	}

	_, viErr := exec.LookPath("vi")
	if viErr == nil {
		return "vi", nil
	}

	_, nanoErr := exec.LookPath("nano")
	if nanoErr == nil {
		return "nano", nil
	}

	return "", errNoEditorFound
}

func openInEditor(cfg pattern.Config, env map[string]string, path string) error {
	editor, err := resolveEditor(cfg, env)
	if err != nil {
		return err
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
