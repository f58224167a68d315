package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/internal/termui"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/merge"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/overlap"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/qc"
)

type sourceJSON struct {
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Ref    string `json:"ref,omitempty"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Lines  *int   `json:"lines,omitempty"`
}

func (a *app) sourcesCmd() *cobra.Command {
	var counts, showRef, asJSON bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List registry sources and the status of their stage files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}
			status, err := ws.Sources(counts)
			if err != nil {
				return err
			}
			srcs := ws.Registry().Sources()

			if asJSON {
				out := make([]sourceJSON, len(srcs))
				for i, src := range srcs {
					out[i] = sourceJSON{Index: i + 1, Type: string(src.Type), Name: src.Name, Path: status[i].Path, Exists: status[i].Exists}
					if showRef {
						out[i].Ref = src.Ref
					}
					if counts && status[i].Lines >= 0 {
						n := status[i].Lines
						out[i].Lines = &n
					}
				}
				return writeJSON(a.stdout, "-", out)
			}

			tbl := &termui.Table{Title: "Sources", Headers: []string{"#", "name", "type"}, Right: map[int]bool{0: true}}
			if showRef {
				tbl.Headers = append(tbl.Headers, "ref")
			}
			tbl.Headers = append(tbl.Headers, "file", "status")
			if counts {
				tbl.Right[len(tbl.Headers)] = true
				tbl.Headers = append(tbl.Headers, "count")
			}
			for i, src := range srcs {
				row := []string{strconv.Itoa(i + 1), src.Name, string(src.Type)}
				if showRef {
					row = append(row, src.Ref)
				}
				row = append(row, filepath.Base(status[i].Path), termui.Status(status[i].Exists))
				if counts {
					row = append(row, termui.Count(status[i].Lines))
				}
				tbl.AddRow(row...)
			}
			return tbl.Fprint(a.stdout)
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", false, "also show line counts")
	cmd.Flags().BoolVar(&showRef, "show-ref", false, "also show the ref/url column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	var (
		sel                    selection
		pairwise, noPairwise   bool
		exclusive, noExclusive bool
		asJSON                 bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show counts, union, duplicates, pairwise intersections and exclusive counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}
			rep, err := ws.Stats(sel.lists())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.stdout, "-", rep)
			}
			return printStats(a, rep, pairwise && !noPairwise, exclusive && !noExclusive)
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&pairwise, "pairwise", true, "show pairwise intersections")
	cmd.Flags().BoolVar(&noPairwise, "no-pairwise", false, "hide pairwise intersections")
	cmd.Flags().BoolVar(&exclusive, "exclusive", true, "show exclusive counts")
	cmd.Flags().BoolVar(&noExclusive, "no-exclusive", false, "hide exclusive counts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func printStats(a *app, rep merge.Report, pairwise, exclusive bool) error {
	counts := &termui.Table{Title: "Per-source counts", Headers: []string{"source", "count"}, Right: map[int]bool{1: true}}
	if exclusive {
		counts.Headers = append(counts.Headers, "exclusive")
		counts.Right[2] = true
	}
	for _, s := range rep.Sources {
		row := []string{s.Name, termui.Count(s.Count)}
		if exclusive {
			row = append(row, termui.Count(s.Exclusive))
		}
		counts.AddRow(row...)
	}
	if err := counts.Fprint(a.stdout); err != nil {
		return err
	}

	fmt.Fprint(a.stdout, termui.KV(
		[2]string{"union", termui.Count(rep.Union)},
		[2]string{"sum(counts)", termui.Count(rep.Sum)},
		[2]string{"cross-source duplicates", termui.Count(rep.Duplicates)},
	))

	if pairwise && len(rep.Pairwise) > 0 {
		pairs := &termui.Table{Title: "Pairwise intersections", Headers: []string{"A", "B", "|A ∩ B|"}, Right: map[int]bool{2: true}}
		for _, p := range rep.Pairwise {
			pairs.AddRow(p.A, p.B, termui.Count(p.Count))
		}
		return pairs.Fprint(a.stdout)
	}
	return nil
}

func (a *app) buildCmd() *cobra.Command {
	var (
		sel    selection
		out    string
		noSort bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the deduplicated union of the selected sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}
			include, exclude := sel.lists()
			res, err := ws.Build(include, exclude, out, noSort)
			if err != nil {
				return err
			}

			tbl := &termui.Table{Title: "Build result", Headers: []string{"source", "count"}, Right: map[int]bool{1: true}}
			for _, s := range res.Sources {
				tbl.AddRow(s.Name, termui.Count(s.Count))
			}
			tbl.AddRow(termui.Styles.Bold.Render("UNION"), termui.Count(res.Union))
			if err := tbl.Fprint(a.stdout); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, termui.Styles.Success.Render("Wrote"), res.Out)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output word list path (required)")
	cmd.Flags().BoolVar(&noSort, "no-sort", false, "keep first-seen order instead of sorting")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) headCmd() *cobra.Command {
	var (
		sel selection
		n   int
	)
	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first N words of the merged union",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := a.union(sel)
			if err != nil {
				return err
			}
			return printWords(a, merge.Head(words, n))
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVarP(&n, "n", "n", 30, "how many words to print")
	return cmd
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		sel  selection
		n    int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print N random words of the merged union",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := a.union(sel)
			if err != nil {
				return err
			}
			return printWords(a, merge.Sample(words, n, seed))
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVarP(&n, "n", "n", 30, "how many samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var (
		sel selection
		q   merge.Query
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the merged union by substring or regular expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate the query before loading any set.
			if _, err := merge.Search(nil, q); err != nil {
				return err
			}
			words, err := a.union(sel)
			if err != nil {
				return err
			}
			hits, err := merge.Search(words, q)
			if err != nil {
				return err
			}

			tbl := &termui.Table{Title: "Search results", Headers: []string{"#", "word"}, Right: map[int]bool{0: true}}
			for i, w := range hits {
				tbl.AddRow(strconv.Itoa(i+1), w)
			}
			if err := tbl.Fprint(a.stdout); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, termui.Styles.Muted.Render(fmt.Sprintf("shown %d (limit=%d)", len(hits), q.Limit)))
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&q.Contains, "contains", "", "substring match")
	cmd.Flags().StringVar(&q.Regex, "regex", "", "regular expression match")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "max rows to print")
	cmd.MarkFlagsMutuallyExclusive("contains", "regex")
	return cmd
}

func (a *app) union(sel selection) ([]string, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	return ws.Union(sel.lists())
}

func printWords(a *app, words []string) error {
	for _, w := range words {
		if _, err := fmt.Fprintln(a.stdout, w); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) qcCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Write the quality report of a word list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := lineio.ReadLines(in)
			if err != nil {
				return err
			}
			rep := qc.Compute(words)
			if err := writeJSON(a.stdout, out, rep); err != nil {
				return err
			}
			a.logger.Info("qc report written", "in", in, "out", out, "total", rep.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "word list to check (required)")
	cmd.Flags().StringVar(&out, "out", "", "report path, '-' for stdout (required)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) containsCmd() *cobra.Command {
	var probe, haystack, missingOut, reportOut string
	cmd := &cobra.Command{
		Use:   "contains",
		Short: "Check that every word of list A appears in list B",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wa, err := lineio.ReadLines(probe)
			if err != nil {
				return err
			}
			wb, err := lineio.ReadLines(haystack)
			if err != nil {
				return err
			}

			rep := overlap.Contains(wa, wb)
			rep.APath, rep.BPath = probe, haystack
			if err := lineio.WriteLines(missingOut, rep.Missing); err != nil {
				return err
			}
			if err := writeJSON(a.stdout, reportOut, rep); err != nil {
				return err
			}

			fmt.Fprint(a.stdout, termui.KV(
				[2]string{"A unique", termui.Count(rep.AUnique)},
				[2]string{"B unique", termui.Count(rep.BUnique)},
				[2]string{"intersection", termui.Count(rep.Intersection)},
				[2]string{"missing", termui.Count(rep.MissingCount)},
			))
			if rep.ContainsAll {
				fmt.Fprintln(a.stdout, termui.Styles.Success.Render("B contains all of A"))
			} else {
				fmt.Fprintln(a.stdout, termui.Styles.Warning.Render("missing words written to"), missingOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&probe, "a", "", "probe list, one word per line (required)")
	cmd.Flags().StringVar(&haystack, "b", "", "candidate list, one word per line (required)")
	cmd.Flags().StringVar(&missingOut, "missing-out", filepath.Join("out", "missing_from_b.txt"), "write A∖B here")
	cmd.Flags().StringVar(&reportOut, "report-out", filepath.Join("out", "contains_report.json"), "write the JSON report here, '-' for stdout")
	cmd.MarkFlagRequired("a")
	cmd.MarkFlagRequired("b")
	return cmd
}
