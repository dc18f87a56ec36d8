package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"asset-library/internal/ingest"
	"asset-library/internal/library"
	"asset-library/internal/startup"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Copy files into the library as a new entry",
	}

	importCmd.AddCommand(newImportAssetCommand(ctx))
	importCmd.AddCommand(newImportTextureCommand(ctx))
	importCmd.AddCommand(newImportStockshotCommand(ctx))

	return importCmd
}

func newImportAssetCommand(ctx *commandContext) *cobra.Command {
	var fbxPath, name string
	var textures []string

	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Import an FBX model and its textures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				picker := library.NewStaticPicker([]string{absPath(fbxPath)}, absPaths(textures))
				sel := lib.Service.ImportAsset(cmd.Context(), picker)
				if !sel.Success {
					return resultError(sel.Result)
				}

				res := lib.Service.SaveAsset(cmd.Context(), ingest.AssetRequest{
					Name:     nameOr(name, sel.DefaultName),
					FBXPath:  sel.FBXPath,
					Textures: sel.TexturePaths,
				})
				return reportSave(cmd.OutOrStdout(), "asset", res)
			})
		},
	}

	cmd.Flags().StringVar(&fbxPath, "fbx", "", "FBX model file")
	cmd.Flags().StringArrayVarP(&textures, "texture", "t", nil, "Texture file (repeatable)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (default: model file name)")
	_ = cmd.MarkFlagRequired("fbx")
	return cmd
}

func newImportTextureCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "texture FILES...",
		Short: "Import a set of texture maps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				sel := lib.Service.ImportTextures(cmd.Context(), library.NewStaticPicker(absPaths(args)))
				if !sel.Success {
					return resultError(sel.Result)
				}

				res := lib.Service.SaveTexture(cmd.Context(), ingest.TextureRequest{
					Name:  nameOr(name, sel.DefaultName),
					Files: sel.Files,
				})
				return reportSave(cmd.OutOrStdout(), "texture", res)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (default: first file name)")
	return cmd
}

func newImportStockshotCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "stockshot FILES...",
		Short: "Import a video or an image sequence",
		Long: "Import a video or an image sequence. A single numbered frame is expanded\n" +
			"to every sibling frame of the same sequence.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				sel := lib.Service.ImportStockshot(cmd.Context(), library.NewStaticPicker(absPaths(args)))
				if !sel.Success {
					return resultError(sel.Result)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Importing %s %q (%s)\n", sel.Type, sel.DefaultName, plural(sel.FrameCount, "file"))

				res := lib.Service.SaveStockshot(cmd.Context(), ingest.StockshotRequest{
					Name:      name,
					Selection: sel.Selection(),
				}, progressPrinter(cmd.ErrOrStderr()))
				return reportSave(cmd.OutOrStdout(), "stockshot", res)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (default: sequence or video name)")
	return cmd
}

// progressPrinter redraws one status line on a terminal and prints one line
// per event otherwise.
func progressPrinter(out io.Writer) ingest.ProgressSink {
	tty := isTerminal(out)
	printed := false
	return ingest.ProgressFunc(func(p *ingest.Progress) {
		if p == nil {
			if tty && printed {
				fmt.Fprintln(out)
			}
			return
		}
		printed = true
		if tty {
			fmt.Fprintf(out, "\r\033[K%s", p.Status)
			return
		}
		fmt.Fprintln(out, p.Status)
	})
}

func reportSave(out io.Writer, what string, res library.SaveResult) error {
	if !res.Success {
		return resultError(res.Result)
	}
	fmt.Fprintf(out, "Imported %s %q as %s\n", what, res.Item.Name, res.Item.ID)
	return nil
}

// resultError turns a failed or canceled result back into an error.
func resultError(res library.Result) error {
	switch {
	case res.Success:
		return nil
	case res.Canceled:
		return errors.New("canceled")
	default:
		return errors.New(res.Error)
	}
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(p)
	}
	return out
}
