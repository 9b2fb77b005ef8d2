package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bdwalton/wy60/config"
	"github.com/bdwalton/wy60/keys"
	"github.com/bdwalton/wy60/logging"
	"github.com/bdwalton/wy60/session"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

const VERSION = "wy60 v2.0.0"

// Recording is also switched on by this environment variable.
const RECORD_ENV = "WY60LOGFILE"

type options struct {
	command  string
	help     bool
	login    bool
	term     string
	version  bool
	config   string
	logfile  string
	debug    bool
	record   string
	replay   string
	listKeys bool
	args     []string

	wrapper bool // started as somebody's login shell
}

// isLoginWrapper reports whether we were started as a login shell:
// either by name starting with '-', or under the name $SHELL gives.
func isLoginWrapper(argv0, shell string) bool {
	if strings.HasPrefix(argv0, "-") {
		return true
	}
	return shell != "" && (argv0 == shell || argv0 == filepath.Base(shell))
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	if len(args) > 0 && isLoginWrapper(args[0], os.Getenv("SHELL")) {
		o.wrapper = true
		o.login = strings.HasPrefix(args[0], "-")
		o.args = args[1:]
		return o, nil
	}

	fs := pflag.NewFlagSet("wy60", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVarP(&o.command, "command", "c", "", "Run this command instead of the shell.")
	fs.BoolVarP(&o.help, "help", "h", false, "Show this help.")
	fs.BoolVarP(&o.login, "login", "l", false, "Start the shell as a login shell.")
	fs.StringVarP(&o.term, "term", "t", "", "Value of TERM for the child.")
	fs.BoolVarP(&o.version, "version", "v", false, "Print the version.")
	fs.StringVar(&o.config, "config", "", "Read this configuration file instead of the default ones.")
	fs.StringVar(&o.logfile, "logfile", "", "If set, logs will be written to this file.")
	fs.BoolVar(&o.debug, "debug", false, "Log every decoded command.")
	fs.StringVar(&o.record, "record", os.Getenv(RECORD_ENV), "Record the session to this file.")
	fs.StringVar(&o.replay, "replay", "", "Replay a recorded session instead of running a child.")
	fs.BoolVar(&o.listKeys, "list-keys", false, "List the key names and their Wyse60 codes.")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [--] <shell args>\n", filepath.Base(args[0]))
		fs.PrintDefaults()
	}

	if len(args) == 0 {
		args = []string{"wy60"}
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			o.help = true
			return o, nil
		}
		return nil, &session.ExitError{Code: session.EXIT_USAGE, Err: err}
	}
	if o.help {
		fs.Usage()
	}
	o.args = fs.Args()
	return o, nil
}

func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()

	var err error
	switch {
	case o.config == "":
		home, _ := os.UserHomeDir()
		err = cfg.Load(home)
	case strings.HasSuffix(o.config, ".yaml"), strings.HasSuffix(o.config, ".yml"):
		err = cfg.LoadYAML(o.config)
	default:
		err = cfg.LoadFile(o.config)
	}
	if err != nil {
		return nil, &session.ExitError{Code: session.EXIT_FAILURE, Err: err}
	}

	if o.term != "" {
		cfg.Term = o.term
	}
	return cfg, nil
}

// listKeys prints every key name with the code it sends.
func listKeys(w io.Writer, cfg *config.Config) {
	width := 0
	for _, k := range keys.KEYS {
		width = max(width, runewidth.StringWidth(k.Name))
	}
	for _, k := range keys.KEYS {
		fmt.Fprintf(w, "%s %-8s %q\n", runewidth.FillRight(k.Name, width), k.Cap, cfg.Keys[k.Name])
	}
}

func run(o *options, cfg *config.Config) (code int, err error) {
	opts := session.Options{
		Config:  cfg,
		Command: o.command,
		Args:    o.args,
		Login:   o.login,
	}

	if o.wrapper {
		os.Setenv("SHELL", cfg.Shell)
		if os.Getenv("TERM") == cfg.Term {
			return 0, session.ExecShell(opts)
		}
	}

	s, err := session.New(opts)
	if err != nil {
		return 0, err
	}
	defer func() {
		c := s.Close()
		if err == nil {
			code = c
		}
	}()

	if err := s.Init(); err != nil {
		return 0, err
	}

	if o.replay != "" {
		ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM, unix.SIGHUP)
		defer stop()
		return 0, s.Replay(ctx, o.replay)
	}

	if err := s.StartChild(); err != nil {
		return 0, err
	}
	if o.record != "" {
		if err := s.Record(o.record); err != nil {
			return 0, err
		}
	}
	return 0, s.Run()
}

func main() {
	o, err := parseArgs(os.Args, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(session.ExitCode(err))
	}
	switch {
	case o.help:
		os.Exit(0)
	case o.version:
		fmt.Println(VERSION)
		os.Exit(0)
	}

	if err := logging.Setup(o.logfile, o.debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(session.EXIT_FAILURE)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(session.ExitCode(err))
	}
	if o.listKeys {
		listKeys(os.Stdout, cfg)
		os.Exit(0)
	}

	code, err := run(o, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\r\n", err)
		os.Exit(session.ExitCode(err))
	}
	os.Exit(code)
}
