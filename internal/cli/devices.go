package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/output"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/selector"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

func newClassifyCmd(env Env) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:     "classify PATH",
		Short:   MsgClassifyShort,
		GroupID: "devices",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				record, err := a.classifier.GetDeviceData(ctx, a.devicePath(args[0]), fields...)
				if err != nil {
					return err
				}
				return p.Record(record)
			})
		},
	}
	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil, MsgFlagField)
	return cmd
}

type labelView struct {
	Path   string `json:"path" yaml:"path"`
	NodeID string `json:"node_id" yaml:"node_id"`
	Label  string `json:"label" yaml:"label"`
	Alias  bool   `json:"alias" yaml:"alias"`
}

func newLabelCmd(env Env) *cobra.Command {
	var data map[string]string

	cmd := &cobra.Command{
		Use:     "label PATH",
		Short:   MsgLabelShort,
		GroupID: "devices",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				path := a.devicePath(args[0])
				fields, err := a.labelFields()
				if err != nil {
					return err
				}
				record, err := a.classifier.GetDeviceData(ctx, path, fields...)
				if err != nil {
					return err
				}
				label, matched, err := a.labelOf(ctx, path, record, data)
				if err != nil {
					return err
				}

				view := labelView{Path: path, NodeID: record[sysfs.FieldNodeID], Label: label, Alias: matched != nil}
				return p.Data(view, func(w io.Writer, st output.Styles) error {
					color := ""
					if matched != nil {
						color = matched.Color
					}
					_, err := fmt.Fprintln(w, st.Color(color).Render(label))
					return err
				})
			})
		},
	}
	cmd.Flags().StringToStringVarP(&data, "data", "d", nil, MsgFlagData)
	return cmd
}

func newTreeCmd(env Env) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "tree [ROOT]",
		Short:   MsgTreeShort,
		GroupID: "devices",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				start := ""
				if len(args) == 1 {
					start = args[0]
				}

				if err := printTree(ctx, a, p, start); err != nil {
					return err
				}
				if !watch && !a.settings.Tables.Watch {
					return nil
				}
				return watchTree(ctx, a, p, start, env)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

// treeNodes classifies every device below start and labels it
func treeNodes(ctx context.Context, a *app, start string) ([]output.TreeNode, error) {
	root := a.devicePath(start)
	paths, err := a.classifier.Walk(ctx, root)
	if err != nil {
		return nil, err
	}
	if a.classifier.Extractor().IsDevice(root) {
		paths = append([]string{root}, paths...)
	}

	fields, err := a.labelFields()
	if err != nil {
		return nil, err
	}
	records, err := a.classifier.ClassifyAll(ctx, paths, fields...)
	if err != nil {
		return nil, err
	}

	listed := make(map[string]bool, len(paths))
	for _, path := range paths {
		listed[path] = true
	}

	nodes := make([]output.TreeNode, 0, len(paths))
	for i, path := range paths {
		label, matched, err := a.labelOf(ctx, path, records[i], nil)
		if err != nil {
			return nil, err
		}

		depth := 0
		for parent, ok := a.classifier.Parent(path); ok && listed[parent]; parent, ok = a.classifier.Parent(parent) {
			depth++
		}

		node := output.TreeNode{
			Path:   path,
			Depth:  depth,
			NodeID: records[i][sysfs.FieldNodeID],
			Label:  label,
		}
		if matched != nil {
			node.Alias = matched.Key()
			node.Color = matched.Color
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func printTree(ctx context.Context, a *app, p *output.Printer, start string) error {
	nodes, err := treeNodes(ctx, a, start)
	if err != nil {
		return err
	}
	return p.Tree(nodes)
}

// watchTree redraws the tree after every table reload until interrupted
func watchTree(ctx context.Context, a *app, p *output.Printer, start string, env Env) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(env.Err, MsgWatching+"\n", a.aliases.Path(), a.rules.Path())

	var mu sync.Mutex
	redraw := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := printTree(ctx, a, p, start); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to redraw tree")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.aliases.Watch(gctx, redraw) })
	g.Go(func() error { return a.rules.Watch(gctx, redraw) })
	return g.Wait()
}

type matchView struct {
	Selector string `json:"selector" yaml:"selector"`
	Path     string `json:"path" yaml:"path"`
	Match    bool   `json:"match" yaml:"match"`
}

func newSelectorCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "selector",
		Short:   MsgSelectorShort,
		GroupID: "devices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check SELECTOR PATH",
		Short: MsgSelectorChkShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := selector.Parse(args[0])
			if err != nil {
				return err
			}
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				path := a.devicePath(args[1])
				match, err := sel.Matches(ctx, a.classifier, path)
				if err != nil {
					return err
				}

				view := matchView{Selector: sel.String(), Path: path, Match: match}
				return p.Data(view, func(w io.Writer, st output.Styles) error {
					msg := MsgSelectorMiss
					if match {
						msg = MsgSelectorMatch
					}
					_, err := fmt.Fprintf(w, msg+"\n", sel.String(), path)
					return err
				})
			})
		},
	})
	return cmd
}
