package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/loxide-lang/loxide/config"
	e "github.com/loxide-lang/loxide/errors"
	"github.com/loxide-lang/loxide/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// Exit statuses, following sysexits.h.
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitCompile = 65
	ExitRuntime = 70
	ExitIO      = 74
)

type options struct {
	configPath  string
	verbosity   string
	disassemble bool
	emit        string
	image       bool
	strictDiv   bool
	stackMax    int
	trace       bool

	stdout io.Writer
}

func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:           "loxide [FILE]",
		Args:          cobra.MaximumNArgs(1),
		Short:         "loxide: a bytecode Lox interpreter.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.Flags().SortFlags = true

	opts := &options{stdout: os.Stdout}
	flags := app.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.DefaultPath+" if present)")
	flags.StringVarP(&opts.verbosity, "verbosity", "v", "INFO", "logging verbosity")
	flags.BoolVarP(&opts.disassemble, "disassemble", "d", false, "print the compiled chunk before running it")
	flags.StringVarP(&opts.emit, "emit", "o", "", "write the compiled chunk image to this path instead of running it")
	flags.BoolVar(&opts.image, "image", false, "treat FILE as a compiled chunk image")
	flags.BoolVar(&opts.strictDiv, "strict-div", false, "make division by zero a runtime error")
	flags.IntVar(&opts.stackMax, "stack-max", vm.DefaultStackMax, "operand stack size limit")
	flags.BoolVar(&opts.trace, "trace", false, "trace execution at TRACE verbosity")

	app.Run = func(c *cobra.Command, args []string) {
		logrus.SetFormatter(&easy.Formatter{LogFormat: "%lvl% %msg%\n"})

		cfg, err := loadConfig(c, opts)
		if err == nil {
			verbosityLvl, _ := logrus.ParseLevel(cfg.Verbosity)
			logrus.SetLevel(verbosityLvl)
			err = appMain(cfg, opts, args)
		}
		if err != nil {
			logrus.Error(err)
			os.Exit(ExitCode(err))
		}
	}
	return
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(c *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := c.Flags()
	if flags.Changed("verbosity") {
		cfg.Verbosity = opts.verbosity
	}
	if flags.Changed("stack-max") {
		cfg.StackMax = opts.stackMax
	}
	if flags.Changed("strict-div") {
		cfg.StrictDivision = opts.strictDiv
	}
	if flags.Changed("trace") {
		cfg.Trace = opts.trace
	}
	if cfg.Trace {
		cfg.Verbosity = logrus.TraceLevel.String()
	}
	return cfg, cfg.Validate()
}

func appMain(cfg *config.Config, opts *options, args []string) error {
	vm_ := vm.NewVM(
		vm.WithStackMax(cfg.StackMax),
		vm.WithStrictDivision(cfg.StrictDivision),
		vm.WithTrace(cfg.Trace),
		vm.WithOutput(opts.stdout),
	)

	switch len(args) {
	case 0:
		if opts.image || opts.emit != "" {
			return &e.ConfigError{Reason: "--image and --emit need a FILE"}
		}
		return vm_.REPL(cfg.Prompt)
	case 1:
		chunk, err := load(args[0], opts.image)
		if err != nil {
			return err
		}
		if opts.disassemble {
			fmt.Fprint(opts.stdout, chunk.Disassemble(args[0]))
		}
		if opts.emit != "" {
			return emit(chunk, opts.emit)
		}
		_, err = vm_.Run(chunk)
		return err
	default:
		return &e.ConfigError{Reason: fmt.Sprintf("expected at most 1 argument, got %d", len(args))}
	}
}

func load(path string, isImage bool) (*vm.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isImage {
		return vm.UnmarshalImage(data)
	}
	return vm.Compile(string(data))
}

func emit(chunk *vm.Chunk, path string) error {
	data, err := chunk.MarshalImage()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logrus.Infof("wrote %d bytes to %s", len(data), path)
	return nil
}

// ExitCode classifies err into a process exit status.
func ExitCode(err error) int {
	var (
		compErr *e.CompilationError
		rtErr   *e.RuntimeError
		cfgErr  *e.ConfigError
		pathErr *os.PathError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &compErr):
		return ExitCompile
	case errors.As(err, &rtErr):
		return ExitRuntime
	case errors.As(err, &cfgErr):
		return ExitUsage
	case errors.As(err, &pathErr):
		return ExitIO
	default:
		// Bad images and cobra argument errors land here.
		return ExitUsage
	}
}
