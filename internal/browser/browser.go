// Package browser opens URLs with the platform's default handler.
package browser

import (
	"fmt"
	"os/exec"

	webbrowser "github.com/pkg/browser"
)

// System opens URLs through the desktop opener.
type System struct {
	// Command overrides the opener binary; empty uses the platform default.
	Command string
}

func (s System) Open(url string) error {
	if s.Command == "" {
		return webbrowser.OpenURL(url)
	}

	cmd := exec.Command(s.Command, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.Command, err)
	}
	// Reap the child in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}
