package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newResetCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()
			return runReset(cmd.InOrStdin(), cmd.OutOrStdout(), a, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runReset(in io.Reader, w io.Writer, a *app, yes bool) error {
	if !yes {
		fmt.Fprint(w, "Delete all progress? This cannot be undone. [y/N] ")
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	if err := a.store.Delete(); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	a.log.Info("save deleted", "path", a.cfg.SavePath())
	color.New(color.FgGreen).Fprintln(w, "Save deleted. Back to the pond!")
	return nil
}
