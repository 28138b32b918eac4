package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/alias"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/cache"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/classifier"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/config"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/hosttools"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/labelrules"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/paths"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

// Env holds the host seams of the CLI. Zero fields use the real host.
type Env struct {
	Paths  paths.Paths
	FS     filesystem.FS
	Runner hosttools.Runner
	Out    io.Writer
	Err    io.Writer
}

func (e Env) withDefaults() Env {
	if e.Paths == nil {
		e.Paths = paths.New()
	}
	if e.FS == nil {
		e.FS = filesystem.NewOS()
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Err == nil {
		e.Err = os.Stderr
	}
	return e
}

// app is the engine wired from the effective settings
type app struct {
	settings   *config.Settings
	store      cache.Store
	classifier *classifier.Classifier
	aliases    *alias.Table
	rules      *labelrules.Table
	logger     zerolog.Logger
}

func openApp(env Env) (*app, error) {
	settings, err := config.Load(env.Paths)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	store, err := openStore(settings.Cache)
	if err != nil {
		return nil, fmt.Errorf(MsgErrOpenCache, err)
	}

	runner := env.Runner
	if runner == nil {
		runner = hosttools.NewExecRunner(settings.Commands.Timeout)
	}
	tools := hosttools.New(runner, hosttools.Commands{
		Lspci: settings.Commands.Lspci,
		Lsusb: settings.Commands.Lsusb,
		Ls:    settings.Commands.Ls,
	})

	c := classifier.New(classifier.Options{
		FS:            env.FS,
		Root:          settings.Sysfs.Root,
		Store:         store,
		Tools:         tools,
		TTL:           settings.Cache.TTL,
		DevDir:        settings.Dev.Dir,
		SerialByIDDir: settings.Dev.SerialByID,
		Workers:       settings.Classify.Workers,
	})

	return &app{
		settings:   settings,
		store:      store,
		classifier: c,
		aliases:    alias.NewTable(env.FS, settings.Tables.Aliases, config.DefaultAliases()),
		rules:      labelrules.NewTable(env.FS, settings.Tables.Rules, config.DefaultRules()),
		logger:     logging.GetLogger("cli.app"),
	}, nil
}

func openStore(settings config.CacheSettings) (cache.Store, error) {
	if settings.Backend == "disk" {
		return cache.Open(cache.Config{Path: settings.Dir})
	}
	return cache.OpenInMemory()
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close record cache")
	}
}

// labelFields are the extra fields the current rules reference
func (a *app) labelFields() ([]string, error) {
	rules, err := a.rules.List()
	if err != nil {
		return nil, err
	}

	registered := make(map[string]bool)
	for _, f := range a.classifier.Fields() {
		registered[f] = true
	}

	var fields []string
	for _, f := range labelrules.Fields(rules) {
		if registered[f] {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// labelOf renders the label of an already classified device. A matching
// alias wins; otherwise the label rules render record with data.
func (a *app) labelOf(ctx context.Context, path string, record classifier.Record, data map[string]string) (string, *alias.Alias, error) {
	matched, err := a.aliases.Resolve(ctx, a.classifier, record[sysfs.FieldNodeID], path)
	if err != nil {
		return "", nil, err
	}
	if matched != nil {
		return matched.Label, matched, nil
	}

	label, err := a.rules.GetLabel(record, data)
	if err != nil {
		return "", nil, err
	}
	return label, nil, nil
}
