package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/shopadmin/internal/catalog"
	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/dgallion1/shopadmin/internal/config"
	"github.com/dgallion1/shopadmin/internal/outline"
	"github.com/dgallion1/shopadmin/internal/selection"
	"github.com/spf13/cobra"
)

// cli holds flags shared by every subcommand.
type cli struct {
	out, errOut io.Writer
	log         *slog.Logger

	file        string
	fromCatalog bool
	jsonOut     bool
	verbose     bool

	selection []string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "catpick",
		Short: "Inspect category forests and canonicalize selections",
		Long: `catpick loads a category forest from an outline file (md, txt, csv,
html, pdf, docx, yaml, json) or from the live catalog, and runs the same
selection operations the admin API exposes.

Examples:
  catpick validate -f categories.md
  catpick toggle -f categories.yaml --selection tees,polos hats
  catpick normalize --catalog --selection tees,polos,hats
  catpick view -f categories.md --selection shirts --all`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			c.log = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.file, "file", "f", "", "outline file to load the forest from")
	pf.BoolVar(&c.fromCatalog, "catalog", false, "fetch the forest from CATALOG_URL instead of a file")
	pf.BoolVar(&c.jsonOut, "json", false, "print JSON")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(c.validateCmd(), c.toggleCmd(), c.normalizeCmd(), c.viewCmd())
	return root
}

func (c *cli) addSelectionFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&c.selection, "selection", "s", nil, "current selection (comma separated)")
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a forest for duplicate ids and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			stats := idx.Stats()
			if c.jsonOut {
				return c.printJSON(stats)
			}
			fmt.Fprintf(c.out, "ok: %d categories, %d roots, %d leaves, max depth %d\n",
				stats.Nodes, stats.Roots, stats.Leaves, stats.MaxDepth)
			return nil
		},
	}
}

func (c *cli) toggleCmd() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "toggle TARGET...",
		Short: "Toggle categories and print the canonical selection",
		Long: `Toggle each TARGET in order, starting from --selection, and print the
resulting canonical selection. An unknown TARGET is an error and leaves
the selection unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			eng := selection.New(idx)
			sel := eng.Normalize(c.selection)
			for i, target := range args {
				var opts []selection.ToggleOption
				if parent != "" && i == 0 {
					opts = append(opts, selection.WithParent(parent))
				}
				next, err := eng.Toggle(sel, target, opts...)
				if err != nil {
					return err
				}
				c.log.Debug("toggled", "target", target, "selection", next)
				sel = next
			}
			return c.printSelection(sel, nil)
		},
	}
	c.addSelectionFlag(cmd)
	cmd.Flags().StringVar(&parent, "parent", "", "expected parent of the first TARGET")
	return cmd
}

func (c *cli) normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the canonical form of --selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			canonical, dropped := selection.NormalizeReport(idx, c.selection)
			for _, id := range dropped {
				c.log.Warn("dropped unknown id", "id", id)
			}
			return c.printSelection(canonical, dropped)
		},
	}
	c.addSelectionFlag(cmd)
	return cmd
}

func (c *cli) viewCmd() *cobra.Command {
	var expand []string
	var all bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render the picker tree with checkbox states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			expanded := categorytree.NewExpandSet(expand...)
			if all {
				expanded = categorytree.ExpandAll(idx)
			}
			rows := selection.New(idx).View(c.selection, expanded)
			if c.jsonOut {
				return c.printJSON(rows)
			}
			for _, r := range rows {
				fmt.Fprintln(c.out, renderRow(r))
			}
			return nil
		},
	}
	c.addSelectionFlag(cmd)
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "expanded categories (comma separated)")
	cmd.Flags().BoolVar(&all, "all", false, "expand every category")
	return cmd
}

func renderRow(r selection.ViewRow) string {
	box := "[ ]"
	switch r.State {
	case selection.Checked:
		box = "[x]"
	case selection.Partial:
		box = "[-]"
	}
	marker := "  "
	if r.HasChildren {
		marker = "+ "
		if r.Expanded {
			marker = "- "
		}
	}
	return fmt.Sprintf("%s%s%s %s (%s)", strings.Repeat("  ", r.Depth), marker, box, r.Title, r.ID)
}

// load reads the forest from --file or the catalog and indexes it.
func (c *cli) load(ctx context.Context) ([]*categorytree.Node, *categorytree.Index, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var forest []*categorytree.Node
	switch {
	case c.fromCatalog && c.file != "":
		return nil, nil, errors.New("use either --file or --catalog, not both")
	case c.fromCatalog:
		cfg := config.Load()
		if cfg.CatalogAPIKey == "" {
			return nil, nil, errors.New("CATALOG_API_KEY is required with --catalog")
		}
		client := catalog.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey, cfg.HTTPTimeout)
		defer client.Close()
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout+5*time.Second)
		defer cancel()
		f, err := client.FetchForest(fetchCtx)
		if err != nil {
			return nil, nil, err
		}
		c.log.Debug("fetched forest", "catalog_url", cfg.CatalogURL)
		forest = f
	case c.file != "":
		p, err := outline.ForFile(c.file, outline.Options{PDFFallbackPdftotext: true})
		if err != nil {
			return nil, nil, err
		}
		fh, err := os.Open(c.file)
		if err != nil {
			return nil, nil, err
		}
		defer fh.Close()
		f, err := p.Parse(fh, c.file)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", c.file, err)
		}
		forest = f
	default:
		return nil, nil, errors.New("a forest source is required: --file or --catalog")
	}

	idx, err := categorytree.Build(forest)
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("indexed forest", "nodes", idx.Len())
	return forest, idx, nil
}

func (c *cli) printSelection(sel, dropped []string) error {
	if c.jsonOut {
		if dropped == nil {
			dropped = []string{}
		}
		return c.printJSON(map[string][]string{"selection": sel, "dropped": dropped})
	}
	fmt.Fprintln(c.out, strings.Join(sel, ","))
	return nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
