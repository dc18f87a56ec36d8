package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asset-library/internal/startup"
)

func newThumbnailCommand(ctx *commandContext) *cobra.Command {
	thumbCmd := &cobra.Command{
		Use:   "thumbnail",
		Short: "Preview image maintenance",
	}

	thumbCmd.AddCommand(newThumbnailRebuildCommand(ctx))
	thumbCmd.AddCommand(newThumbnailSetCommand(ctx))

	return thumbCmd
}

func newThumbnailRebuildCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rebuild <kind>",
		Short: "Generate missing previews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				res, err := lib.Service.RebuildThumbnails(cmd.Context(), kind, force)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out,
					[]string{"Generated", "Failed", "Skipped"},
					[][]string{{fmt.Sprint(res.Generated), fmt.Sprint(res.Failed), fmt.Sprint(res.Skipped)}},
					[]columnAlignment{alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Regenerate previews that already exist")
	return cmd
}

func newThumbnailSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <asset-id> <image>",
		Short: "Use an image file as the preview of an asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				res := lib.Service.SetModelThumbnail(cmd.Context(), args[0], data)
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated preview of %s\n", args[0])
				return nil
			})
		},
	}
}
