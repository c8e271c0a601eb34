package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"radiostore/internal/adapter/primary/presenter"
	"radiostore/internal/adapter/primary/web"
	"radiostore/internal/adapter/secondary/repository"
	"radiostore/internal/adapter/secondary/storage"
	"radiostore/internal/board"
	"radiostore/internal/domain"
	"radiostore/internal/logging"
	"radiostore/internal/usecase"
)

var (
	cfgPath      string
	boardFlag    string
	firmwareFlag string
	verbosity    int
	logFile      string

	// session survives between commands of one shell.
	session usecase.SessionUseCase
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "radiostore",
		Short:         "Load and write radio model files in YAML format",
		Long:          "Imports YAML model files into a radio configuration for the selected board and firmware",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCfg := repository.DefaultPath()
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "preferences file path")
	cmd.PersistentFlags().StringVar(&boardFlag, "board", "", "override the target board (see 'boards')")
	cmd.PersistentFlags().StringVar(&firmwareFlag, "firmware", "", "override the target firmware")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4 times)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
		if logFile != "" {
			logging.RotateTo(logFile)
		}
	}

	cmd.AddCommand(
		newLoadCmd(),
		newWriteCmd(),
		newShowCmd(),
		newBoardsCmd(),
		newConfigCmd(),
		newServeCmd(),
		newShellCmd(),
	)

	return cmd
}

// currentSession returns the shared session, creating it on first use.
func currentSession() (usecase.SessionUseCase, error) {
	override := usecase.Override{
		Board:    domain.BoardType(boardFlag),
		Firmware: domain.Firmware(firmwareFlag),
	}
	if session != nil {
		session.SetOverride(override)
		return session, nil
	}

	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return nil, err
	}
	uc, err := usecase.NewSessionUseCase(repo, storage.NewFileMedium(), board.NewRegistry(), override)
	if err != nil {
		return nil, err
	}
	session = uc
	return session, nil
}

func reportOutcome(cmd *cobra.Command, o domain.Outcome) error {
	switch o.Kind {
	case domain.OutcomeError:
		return errors.New(o.Message)
	case domain.OutcomeWarning:
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", o.Message)
	}
	return nil
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Import a YAML model file into the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := currentSession()
			if err != nil {
				return err
			}
			outcome := uc.Load(args[0])
			if err := reportOutcome(cmd, outcome); err != nil {
				return err
			}

			snap := uc.Snapshot()
			m := snap.Models[snap.GeneralSettings.CurrModelIndex]
			fmt.Fprintf(cmd.OutOrStdout(), "loaded model %q from %s (board %s, %d categories)\n",
				m.Name, m.Filename, snap.GeneralSettings.Variant, len(snap.Categories))
			return nil
		},
	}
}

func newWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <path>",
		Short: "Write the session radio to a YAML storage path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := currentSession()
			if err != nil {
				return err
			}
			if err := reportOutcome(cmd, uc.Write(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "written %s\n", args[0])
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the session radio as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := currentSession()
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(presenter.Radio(uc.Snapshot()), "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newBoardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List known boards and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := currentSession()
			if err != nil {
				return err
			}
			current, err := uc.CurrentBoard()
			if err != nil {
				return err
			}
			views, err := presenter.Boards(board.NewRegistry(), current.Firmware)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Type", "Name", "Family", "Categories", "Labels", "Images", "Channels"})
			for _, v := range views {
				name := v.Type
				if domain.BoardType(v.Type) == current.Type {
					name += " *"
				}
				tw.AppendRow(table.Row{name, v.Name, v.Family, v.HasModelCategories, v.HasModelLabels, v.HasModelImages, v.MaxChannels})
			}
			tw.Render()
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or update the target board preferences",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current preferences (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			prefs, err := repo.Load()
			if err != nil {
				return err
			}

			display := map[string]interface{}{
				"board":    prefs.Board,
				"firmware": prefs.Firmware,
				"path":     cfgPath,
			}
			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		boardValue    string
		firmwareValue string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the target board and firmware",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			prefs, err := repo.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("board") {
				prefs.Board = domain.BoardType(boardValue)
			}
			if cmd.Flags().Changed("firmware") {
				prefs.Firmware = domain.Firmware(firmwareValue)
			}
			if err := board.Validate(prefs.Identity()); err != nil {
				return err
			}
			if err := repo.Save(prefs); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved: board=%s firmware=%s\n", prefs.Board, prefs.Firmware)
			return nil
		},
	}
	cmd.Flags().StringVar(&boardValue, "board", "", "board type, e.g. tx16s")
	cmd.Flags().StringVar(&firmwareValue, "firmware", "", "firmware, e.g. edgetx-2.9")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := currentSession()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			srv := web.NewServer(uc, board.NewRegistry(), addr)
			fmt.Fprintf(cmd.OutOrStdout(), "radiostore API running at http://%s\n", addr)
			logging.Infof("API: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7171", "HTTP listen address:port")
	return cmd
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell running subcommands against one session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := currentSession(); err != nil {
				return err
			}
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "radiostore> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "radiostore-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	shellCfg := cfgPath
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		case "reset":
			session.Reset()
			fmt.Println("session cleared")
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("Already in a shell. Enter another command or 'exit' to quit.")
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(append([]string{"--config", shellCfg}, tokens...)); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  load models/plane.yml       # import a model file into the session
  show                        # print the session radio
  write /media/sdcard         # write the session (not available yet)
  boards                      # list boards and capabilities
  config get                  # show preferences
  config set --board x9d      # change the target board
  load m.yml --board tx16s    # override the board for one command
  reset                       # clear the session
  log -vv                     # more verbose logging
  log --show                  # show the log level
  exit / quit                 # leave the shell`)
}
