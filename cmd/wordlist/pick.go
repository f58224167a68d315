package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/internal/termui"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/picker"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

func (a *app) pickCmd() *cobra.Command {
	var (
		menu, noMenu bool
		preset       string
		custom       string
		out          string
		showRef      bool
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose sources by preset or index and print them as a comma-separated list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}
			names := ws.Registry().Names()
			status, err := ws.Sources(true)
			if err != nil {
				return err
			}
			if err := pickTable(ws.Registry().Sources(), status, showRef).Fprint(a.stderr); err != nil {
				return err
			}

			var p picker.Preset
			if menu && !noMenu && a.interactive() {
				if p, custom, err = promptPreset(len(names)); err != nil {
					return err
				}
			} else if p, err = picker.ParsePreset(preset); err != nil {
				return err
			}

			chosen, err := picker.Pick(names, p, custom)
			if err != nil {
				return err
			}
			ok, missing := picker.FilterAvailable(chosen, names, ws.Dir())
			if len(missing) > 0 {
				a.logger.Warn("skipping sources without stage file", "missing", missing)
			}
			a.logger.Info("sources picked", "preset", p, "selected", len(ok))

			csv := strings.Join(ok, ",")
			if out == "" || out == "-" {
				_, err := fmt.Fprintln(a.stdout, csv)
				return err
			}
			return lineio.WriteFile(out, []byte(csv+"\n"))
		},
	}
	cmd.Flags().BoolVar(&menu, "menu", true, "show the interactive preset menu")
	cmd.Flags().BoolVar(&noMenu, "no-menu", false, "skip the menu and use --preset")
	cmd.Flags().StringVar(&preset, "preset", string(picker.PresetCore), "preset without menu: core|all|wiki|custom")
	cmd.Flags().StringVar(&custom, "custom", "", "indices for preset custom, e.g. 1,2,4 or 1-3,5")
	cmd.Flags().StringVar(&out, "out", "-", "write the selection to a file, '-' for stdout")
	cmd.Flags().BoolVar(&showRef, "show-ref", false, "also show the ref/url column")
	return cmd
}

func (a *app) interactive() bool {
	f, ok := a.stdin.(*os.File)
	return ok && termui.IsTerminal(f)
}

func pickTable(srcs []registry.Source, status []wordset.FileStatus, showRef bool) *termui.Table {
	tbl := &termui.Table{
		Title:   "Pick Sources",
		Headers: []string{"#", "name", "count", "status", "type"},
		Right:   map[int]bool{0: true, 2: true},
	}
	if showRef {
		tbl.Headers = append(tbl.Headers, "ref")
	}
	for i, src := range srcs {
		name := termui.Styles.Bold.Render(src.Name)
		if picker.IsWiki(src.Name) {
			name = termui.Styles.Wiki.Render(src.Name)
		}
		lines := -1
		if status[i].Exists {
			lines = status[i].Lines
		}
		row := []string{strconv.Itoa(i + 1), name, termui.Count(lines), termui.Status(status[i].Exists), string(src.Type)}
		if showRef {
			row = append(row, src.Ref)
		}
		tbl.AddRow(row...)
	}
	return tbl
}

func promptPreset(n int) (picker.Preset, string, error) {
	choice := string(picker.PresetCore)
	options := make([]huh.Option[string], 0, len(picker.Presets))
	for _, p := range picker.Presets {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p, p.Description()), string(p)))
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Preset").
			Options(options...).
			Value(&choice),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", errors.New("cancelled")
		}
		return "", "", err
	}
	if picker.Preset(choice) != picker.PresetCustom {
		return picker.Preset(choice), "", nil
	}

	var custom string
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Indices").
			Placeholder("1,2,4 or 1-3,5").
			Value(&custom).
			Validate(func(s string) error {
				_, err := picker.ParseIndices(s, n)
				return err
			}),
	)).Run()
	if err != nil {
		return "", "", err
	}
	return picker.PresetCustom, custom, nil
}
