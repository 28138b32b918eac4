package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/alias"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/labelrules"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/output"
)

type aliasView struct {
	Selector    string `json:"selector" yaml:"selector"`
	Label       string `json:"label" yaml:"label"`
	Priority    int    `json:"priority" yaml:"priority"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func viewOf(a alias.Alias) aliasView {
	return aliasView{
		Selector:    a.Key(),
		Label:       a.Label,
		Priority:    a.Priority,
		Color:       a.Color,
		Description: a.Description,
	}
}

func printAliases(p *output.Printer, aliases []alias.Alias) error {
	views := make([]aliasView, len(aliases))
	width := 0
	for i, a := range aliases {
		views[i] = viewOf(a)
		if len(views[i].Selector) > width {
			width = len(views[i].Selector)
		}
	}

	return p.Data(views, func(w io.Writer, st output.Styles) error {
		for _, v := range views {
			line := fmt.Sprintf("%s  %3d  %s", st.Key.Render(fmt.Sprintf("%-*s", width, v.Selector)), v.Priority, st.Color(v.Color).Render(v.Label))
			if v.Description != "" {
				line += "  " + st.Muted.Render(v.Description)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

func newAliasCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		Short:   MsgAliasShort,
		GroupID: "tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgAliasListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				aliases, err := a.aliases.List()
				if err != nil {
					return err
				}
				return printAliases(p, aliases)
			})
		},
	})

	var entry alias.Alias
	set := &cobra.Command{
		Use:   "set SELECTOR",
		Short: MsgAliasSetShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.aliases.Put(args[0], entry); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf(MsgAliasSaved, args[0], a.aliases.Path()))
			})
		},
	}
	set.Flags().StringVarP(&entry.Label, "label", "l", "", MsgFlagLabel)
	set.Flags().IntVarP(&entry.Priority, "priority", "p", 0, MsgFlagPriority)
	set.Flags().StringVar(&entry.Color, "color", "", MsgFlagColor)
	set.Flags().StringVar(&entry.Description, "description", "", MsgFlagDesc)
	_ = set.MarkFlagRequired("label")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete SELECTOR",
		Short: MsgAliasDelShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.aliases.Delete(args[0]); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf(MsgAliasDeleted, args[0]))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve PATH",
		Short: MsgAliasResShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				path := a.devicePath(args[0])
				nodeID, err := a.classifier.NodeID(ctx, path)
				if err != nil {
					return err
				}
				matched, err := a.aliases.Resolve(ctx, a.classifier, nodeID, path)
				if err != nil {
					return err
				}
				if matched == nil {
					return p.Message(fmt.Sprintf(MsgNoAlias, path))
				}
				return printAliases(p, []alias.Alias{*matched})
			})
		},
	})

	return cmd
}

// parseCheck reads field:operator:value; the value may contain colons
func parseCheck(text string) (labelrules.Check, error) {
	parts := strings.SplitN(text, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return labelrules.Check{}, fmt.Errorf(MsgErrBadCheck, text)
	}
	return labelrules.Check{
		Field:    parts[0],
		Operator: labelrules.Operator(parts[1]),
		Value:    parts[2],
	}, nil
}

func parseChecks(texts []string) ([]labelrules.Check, error) {
	var checks []labelrules.Check
	for _, text := range texts {
		check, err := parseCheck(text)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func parseID(text string) (int, error) {
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf(MsgErrBadID, text)
	}
	return id, nil
}

func printRules(p *output.Printer, rules []labelrules.Rule) error {
	return p.Data(rules, func(w io.Writer, st output.Styles) error {
		for _, r := range rules {
			checks := make([]string, len(r.Checks))
			for i, c := range r.Checks {
				checks[i] = fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Value)
			}
			condition := "always"
			if len(checks) > 0 {
				condition = strings.Join(checks, " and ")
			}
			line := fmt.Sprintf("%s  %s  %s", st.Key.Render(fmt.Sprintf("%3d", r.ID)), st.Value.Render(r.Template), st.Muted.Render(condition))
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

func newRulesCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgRulesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				rules, err := a.rules.List()
				if err != nil {
					return err
				}
				return printRules(p, rules)
			})
		},
	})

	var (
		addTemplate string
		addChecks   []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: MsgRulesAddShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := parseChecks(addChecks)
			if err != nil {
				return err
			}
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				rule, err := a.rules.Add(checks, addTemplate)
				if err != nil {
					return err
				}
				return p.Message(fmt.Sprintf(MsgRuleAdded, rule.ID))
			})
		},
	}
	add.Flags().StringVarP(&addTemplate, "template", "t", "", MsgFlagTemplate)
	add.Flags().StringArrayVarP(&addChecks, "check", "c", nil, MsgFlagCheck)
	_ = add.MarkFlagRequired("template")
	cmd.AddCommand(add)

	var (
		updTemplate string
		updChecks   []string
	)
	update := &cobra.Command{
		Use:   "update ID",
		Short: MsgRulesUpdShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			checks, err := parseChecks(updChecks)
			if err != nil {
				return err
			}
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.rules.Update(id, checks, updTemplate); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf(MsgRuleUpdated, id))
			})
		},
	}
	update.Flags().StringVarP(&updTemplate, "template", "t", "", MsgFlagTemplate)
	update.Flags().StringArrayVarP(&updChecks, "check", "c", nil, MsgFlagCheck)
	_ = update.MarkFlagRequired("template")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: MsgRulesDelShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.rules.Delete(id); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf(MsgRuleDeleted, id))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reorder ID...",
		Short: MsgRulesOrdShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.rules.Reorder(ids); err != nil {
					return err
				}
				return p.Message(MsgRulesReordered)
			})
		},
	})

	return cmd
}

func newConfigCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				doc, err := a.settings.TOML()
				if err != nil {
					return err
				}
				_, err = env.Out.Write(doc)
				return err
			})
		},
	})
	return cmd
}

func newCacheCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   MsgCacheShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: MsgCacheClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, func(ctx context.Context, a *app, p *output.Printer) error {
				if err := a.store.Clear(ctx); err != nil {
					return err
				}
				return p.Message(MsgCacheCleared)
			})
		},
	})
	return cmd
}
