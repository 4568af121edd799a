package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyEnter     = '\r'
	keyNewline   = '\n'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

var errQuit = errors.New("quit")

// keypadKey maps a raw terminal byte to a calculator key. ok is false for bytes
// that do nothing; errQuit ends the session.
func keypadKey(b byte) (k calculator.Key, ok bool, err error) {
	switch {
	case b >= '0' && b <= '9':
		return calculator.Key(string(b)), true, nil
	case b == keyCtrlC || b == keyCtrlD || b == 'q' || b == 'Q':
		return "", false, errQuit
	case b == keyEnter || b == keyNewline || b == '=':
		return calculator.KeyEquals, true, nil
	case b == keyBackspace || b == keyDelete:
		return calculator.KeyBackspace, true, nil
	case b == keyEscape || b == 'c' || b == 'C':
		return calculator.KeyClear, true, nil
	case b == 'p' || b == 'P':
		return calculator.KeyParens, true, nil
	case b == ',' || b == '.':
		return calculator.KeyDecimal, true, nil
	}
	k, err = calculator.ParseKey(string(b))
	if err != nil {
		return "", false, nil
	}
	return k, true, nil
}

func newKeypadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Interactive keypad with live conversions",
		Long: `Opens an interactive keypad. Type digits and operators, "," or "." for the
decimal key, Enter or "=" to evaluate, Backspace to delete, "c" or Esc to
clear, "p" for the parenthesis toggle and "q" to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("keypad needs an interactive terminal")
			}

			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			state, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("enter raw mode: %w", err)
			}
			defer term.Restore(fd, state) //nolint: errcheck

			return runKeypad(cmd.Context(), svc, os.Stdin, cmd.OutOrStdout())
		},
	}
}

func runKeypad(ctx context.Context, svc *calc.Service, in io.Reader, out io.Writer) error {
	sess := svc.NewSession()
	defer svc.CloseSession(sess.ID) //nolint: errcheck

	render := func(v calc.SessionView, lines int) int {
		// Move back over the previous frame and redraw it.
		if lines > 0 {
			fmt.Fprintf(out, "\x1b[%dA", lines)
		}
		fmt.Fprintf(out, "\r\x1b[J> %s\r\n", v.Buffer)
		for _, c := range v.Conversions {
			fmt.Fprintf(out, "  %s %18s\r\n", codeColor(c.Currency), c.Formatted)
		}
		return len(v.Conversions) + 1
	}

	lines := render(sess, 0)
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 0 {
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		key, ok, err := keypadKey(buf[0])
		if errors.Is(err, errQuit) {
			return nil
		}
		if !ok {
			continue
		}
		res, err := svc.Press(ctx, sess.ID, key)
		if err != nil {
			return err
		}
		lines = render(res.Session, lines)
	}
}
