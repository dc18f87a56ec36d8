package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"asset-library/internal/library"
	"asset-library/internal/startup"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <kind> <id> <name>",
		Short: "Change the display name of an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				res := lib.Service.Rename(cmd.Context(), kind, args[1], args[2])
				if !res.Success {
					return resultError(res.Result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", res.Item.ID, res.Item.Name)
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete an entry and its files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				rec, err := lib.Service.Get(cmd.Context(), kind, args[1])
				if err != nil {
					return err
				}
				if !yes {
					ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
						fmt.Sprintf("Delete %s %q and all of its files?", kind, rec.Name))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
						return nil
					}
				}

				res := lib.Service.Delete(cmd.Context(), kind, rec.ID)
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", kind, rec.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question. Without an interactive terminal there is
// nobody to answer, so the caller must pass --yes.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false, errors.New("refusing to delete without --yes when stdin is not a terminal")
	}

	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <kind> <id> <dest.zip>",
		Short: "Write an entry to a zip archive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				dest := library.StaticSaveLocation(absPath(args[2]))
				res := lib.Service.Export(cmd.Context(), kind, args[1], dest)
				if !res.Success {
					return resultError(res.Result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes) to %s\n",
					plural(res.Files, "file"), res.Bytes, res.Path)
				return nil
			})
		},
	}
}
