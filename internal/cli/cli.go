package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/babarot/kuzukago/internal/env"
	"github.com/babarot/kuzukago/internal/trash"
	"github.com/babarot/kuzukago/internal/utils/debug"
	"github.com/babarot/kuzukago/internal/utils/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
)

type Option struct {
	Restore bool     `short:"b" long:"restore" description:"Restore the named items from trash"`
	To      string   `long:"to" value-name:"DIR" description:"Directory to restore into (default: original location)"`
	Purge   bool     `long:"purge" description:"Permanently delete the named items"`
	List    bool     `short:"l" long:"list" description:"List items in trash"`
	Within  string   `long:"within" value-name:"PERIOD" description:"With --list, only show items trashed within PERIOD (e.g. 12h, 3d, 2w)"`
	Prune   []string `long:"prune" value-name:"TARGET" description:"Prune trash contents: orphans, staging, or a period such as 30d"`
	Stdin   string   `long:"stdin" value-name:"NAME" description:"Trash standard input under NAME"`
	Config  string   `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`
	Rm   RmOption   `group:"Compatible (rm) Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

// RmOption provides compatibility with rm command options
type RmOption struct {
	Interactive bool `short:"i" description:"(dummy) prompt before every removal"`
	Recursive   bool `short:"r" long:"recursive" description:"(dummy) remove directories and their contents recursively"`
	Recursive2  bool `short:"R" description:"(dummy) same as -r"`
	Force       bool `short:"f" long:"force" description:"ignore nonexistent files, never prompt"`
	Directory   bool `short:"d" long:"dir" description:"(dummy) remove empty directories"`
	Verbose     bool `short:"v" long:"verbose" description:"explain what is being done"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
	manager *trash.Manager

	stdin  io.Reader
	stdout io.Writer
}

var runID = sync.OnceValue(func() string {
	id := xid.New().String()
	return id
})

func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[OPTIONS] [FILE... | -b NAME... | --purge NAME... | --list | --prune TARGET]"
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if opt.Meta.Version {
		fmt.Fprint(os.Stdout, v.Print())
		return nil
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	switch opt.Meta.Debug {
	case "live":
		return debug.Logs(os.Stdout, env.KUZUKAGO_LOG_PATH, cfg.Logging, true)
	case "full":
		return debug.Logs(os.Stdout, env.KUZUKAGO_LOG_PATH, cfg.Logging, false)
	}

	logger, closeLog := log.Setup(cfg.Logging, env.KUZUKAGO_LOG_PATH, runID())
	defer closeLog()

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	manager, err := newManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize trash manager: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
		manager: manager,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}

	if err := cli.Run(ctx, args); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func newManager(cfg config.Config, logger *slog.Logger) (*trash.Manager, error) {
	dir, err := cfg.Core.TrashDirPath()
	if err != nil {
		return nil, err
	}
	bufferSize, err := cfg.Core.BufferBytes()
	if err != nil {
		return nil, err
	}
	return trash.NewManager(trash.Config{
		TrashDir:   dir,
		Collision:  trash.CollisionPolicy(cfg.Core.Collision),
		BufferSize: bufferSize,
	}, trash.WithLogger(logger))
}

func (c CLI) Run(ctx context.Context, args []string) error {
	switch {
	case c.option.Restore:
		return c.Restore(ctx, args)

	case c.option.Purge:
		return c.Purge(ctx, args)

	case c.option.List:
		return c.List()

	case len(c.option.Prune) > 0:
		return c.Prune(ctx, c.option.Prune)

	case c.option.Stdin != "":
		return c.PutStdin(ctx, c.option.Stdin)

	default:
		return c.Put(ctx, args)
	}
}

func formatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var s strings.Builder
	fmt.Fprintf(&s, "%d errors occurred:\n", len(errs))
	for _, err := range errs {
		fmt.Fprintf(&s, "  * %v\n", err)
	}
	return fmt.Errorf("%s", strings.TrimSuffix(s.String(), "\n"))
}
