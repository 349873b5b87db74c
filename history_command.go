package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/errmsg"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/state"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/playerbar"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List media with saved offset and mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.openState(nil)
			if err != nil {
				return err
			}
			defer mgr.Close()

			entries, err := mgr.History(cmd.Context(), limit)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpHistoryLoad, err))
			}
			return writeHistory(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to list (0 for all)")
	return cmd
}

func newForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <media-key>",
		Short: "Delete saved settings for a media key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.openState(nil)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := mgr.Forget(args[0]); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpStateSave, args[0], err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", args[0])
			return nil
		},
	}
}

func writeHistory(w io.Writer, entries []state.MediaState) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No saved media")
		return err
	}

	rows := lo.Map(entries, func(e state.MediaState, _ int) []string {
		hidden := "-"
		if len(e.Settings.DisabledTracks) > 0 {
			hidden = strings.Join(lo.Map(e.Settings.DisabledTracks, func(track, _ int) string {
				return humanize.Ordinal(track + 1)
			}), ", ")
		}
		return []string{
			filepath.Base(e.Key),
			playerbar.FormatOffset(e.Settings.Offset),
			playerbar.ModeLabel(e.Settings.Mode),
			hidden,
			humanize.Time(e.UpdatedAt),
		}
	})

	out := renderTable(
		[]string{"Media", "Offset", "Mode", "Hidden tracks", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
	_, err := fmt.Fprintln(w, out)
	return err
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
