package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/termui"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/overlap"
)

func (a *app) plotCmd() *cobra.Command {
	var (
		sel     selection
		mode    string
		metric  string
		maxInts int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Export source overlap chart data (venn, upset, overlap matrix)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := overlap.PlotOptions{MaxIntersections: a.cfg.Plot.MaxIntersections}
			var err error
			if mode != "" {
				if opts.Mode, err = overlap.ParseMode(mode); err != nil {
					return err
				}
			}
			if metric != "" {
				if opts.Metric, err = overlap.ParseMetric(metric); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("max-intersections") {
				opts.MaxIntersections = maxInts
			}

			ws, err := a.workspace()
			if err != nil {
				return err
			}
			include, exclude := sel.lists()
			p, err := ws.Plot(include, exclude, opts)
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(a.cfg.Paths.OutDir, "source_overlap.json")
			}
			if err := writeJSON(a.stdout, out, p); err != nil {
				return err
			}
			if out == "-" {
				return nil
			}
			if err := printPlot(a, p); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, termui.Styles.Success.Render("Wrote"), out)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "auto|venn|upset|overlap|all (default plot.mode)")
	cmd.Flags().StringVar(&metric, "overlap-metric", "", "jaccard|overlap|containment (default plot.metric)")
	cmd.Flags().IntVar(&maxInts, "max-intersections", overlap.DefaultMaxIntersections, "combinations shown in upset data, 0 shows all")
	cmd.Flags().StringVar(&out, "out", "", "chart data path, '-' for stdout (default <out_dir>/source_overlap.json)")
	return cmd
}

func printPlot(a *app, p *overlap.Plot) error {
	for _, m := range p.Modes {
		var tbl *termui.Table
		switch m {
		case overlap.ModeVenn:
			tbl = combinationTable("Venn regions", p.Venn)
		case overlap.ModeUpset:
			tbl = combinationTable(fmt.Sprintf("Intersections (top %d of %d, union %s)",
				len(p.Upset.Shown), p.Upset.TotalCombos, termui.Count(p.Upset.Total)), p.Upset.Shown)
		case overlap.ModeOverlap:
			tbl = matrixTable(p.Overlap)
		}
		if tbl == nil {
			continue
		}
		if err := tbl.Fprint(a.stdout); err != nil {
			return err
		}
	}
	return nil
}

func combinationTable(title string, combos []overlap.Combination) *termui.Table {
	tbl := &termui.Table{Title: title, Headers: []string{"#", "sources", "degree", "count"}, Right: map[int]bool{0: true, 2: true, 3: true}}
	for i, c := range combos {
		tbl.AddRow(strconv.Itoa(i+1), strings.Join(c.Sources, " ∩ "), strconv.Itoa(c.Degree), termui.Count(c.Count))
	}
	return tbl
}

func matrixTable(m *overlap.Matrix) *termui.Table {
	names := m.Names()
	tbl := &termui.Table{
		Title:   fmt.Sprintf("Pairwise %s (max %.3f)", m.Metric().Label(), m.Max()),
		Headers: append([]string{"row \\ col"}, names...),
		Right:   map[int]bool{},
	}
	for i := range names {
		tbl.Right[i+1] = true
	}
	for _, row := range names {
		cells := []string{row}
		for _, col := range names {
			v, ok := m.At(row, col)
			if !ok {
				cells = append(cells, termui.Styles.Muted.Render("-"))
				continue
			}
			cells = append(cells, strconv.FormatFloat(v, 'f', 3, 64))
		}
		tbl.AddRow(cells...)
	}
	return tbl
}
