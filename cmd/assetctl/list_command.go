package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/startup"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List the entries of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd.Context(), func(lib *startup.Library) error {
				records, err := lib.Service.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if asJSON {
					if records == nil {
						records = []catalog.Record{}
					}
					return writeJSON(cmd, records)
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintf(out, "No %s in the library\n", kind)
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ID,
						rec.Name,
						rec.CreatedAt.Local().Format("2006-01-02 15:04"),
						describe(kind, rec),
						yesNo(rec.ThumbnailPath != ""),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Name", "Created", "Contents", "Preview"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

// describe summarises what an entry holds.
func describe(kind assettypes.Kind, rec catalog.Record) string {
	switch kind {
	case assettypes.KindAsset:
		return fmt.Sprintf("%s, %s", rec.FBXFileName, plural(rec.TextureCount, "texture"))
	case assettypes.KindTexture:
		return plural(rec.FileCount, "file")
	case assettypes.KindStockshot:
		if rec.Type == assettypes.StockshotVideo {
			return "video"
		}
		return "sequence, " + plural(rec.FrameCount, "frame")
	}
	return ""
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
