package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrEmptyPassword = errors.New("please enter a password")

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readPassword takes the password from args, a hidden terminal prompt, or the
// first line of piped input, in that order.
func (a *App) readPassword(args []string) (string, error) {
	var pw string
	switch {
	case len(args) > 0:
		pw = args[0]
	case a.stdinIsTerminal():
		f := a.In.(*os.File)
		fmt.Fprint(a.Err, "Enter password to analyze: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Err)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		pw = string(b)
	default:
		line, err := bufio.NewReader(a.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	if pw == "" {
		return "", ErrEmptyPassword
	}
	return pw, nil
}

func (a *App) stdinIsTerminal() bool {
	f, ok := a.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
