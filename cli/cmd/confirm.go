package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// confirmDeletes asks before destroying remote records. Without a terminal
// there is nobody to ask, so the caller must pass --yes.
func confirmDeletes(cmd *cobra.Command, names []string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to delete without confirmation on a non-interactive run (use --yes)")
	}

	approved := false
	field := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %d remote record(s)?", len(names))).
		Description(strings.Join(names, "\n")).
		Value(&approved)
	form := huh.NewForm(huh.NewGroup(field)).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return approved, nil
}
