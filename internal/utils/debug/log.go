package debug

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
)

// Logs prints the debug log at path. With live set it follows new entries
// until the file is closed or the process is interrupted.
func Logs(w io.Writer, path string, cfg config.LoggingConfig, live bool) error {
	if live {
		return tailLiveLogs(w, path, cfg)
	}
	return showExistingLogs(w, path, cfg)
}

func tailLiveLogs(w io.Writer, path string, cfg config.LoggingConfig) error {
	if !cfg.Enabled {
		return fmt.Errorf("logging is not enabled in config: enable logging in config for live debugging")
	}

	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	tailConfig := tail.Config{
		ReOpen: shouldFollow,
		Follow: shouldFollow,
		Poll:   true,
		Logger: tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		},
	}

	t, err := tail.TailFile(path, tailConfig)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: try running some commands with logging enabled")
		}
		return err
	}
	defer t.Cleanup()
	slog.Info("live tail started", "path", path)

	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Fprintln(w, line.Text)
	}
	return nil
}

func showExistingLogs(w io.Writer, path string, cfg config.LoggingConfig) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !cfg.Enabled {
			return fmt.Errorf("logging is not enabled in config: enable logging to create log files")
		}
		return fmt.Errorf("no log file exists yet: try running some commands first")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	return scanner.Err()
}
