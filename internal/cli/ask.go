package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// confirm asks a yes/no question on stdin. A non-terminal stdin file
// answers no, so scripts have to pass -f.
func (c *CLI) confirm(prompt string) bool {
	if f, ok := c.stdin.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return false
		}
	}

	fmt.Fprintf(c.stdout, "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(c.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
