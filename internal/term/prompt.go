package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	xterm "golang.org/x/term"
)

var ErrBadSize = errors.New("board size must be a positive integer")

// PromptSize asks for the width ("x size") and then the height ("y size").
func PromptSize(in io.Reader, out io.Writer) (height, width int, err error) {
	sc := bufio.NewScanner(in)
	width, err = promptInt(sc, out, "x size: ")
	if err != nil {
		return 0, 0, fmt.Errorf("x size: %w", err)
	}
	height, err = promptInt(sc, out, "y size: ")
	if err != nil {
		return 0, 0, fmt.Errorf("y size: %w", err)
	}
	return height, width, nil
}

func promptInt(sc *bufio.Scanner, out io.Writer, label string) (int, error) {
	if _, err := io.WriteString(out, label); err != nil {
		return 0, err
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: no input", ErrBadSize)
	}
	line := strings.TrimSpace(sc.Text())
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadSize, line)
	}
	return n, nil
}

// StdinIsTerminal reports whether the size prompt can be answered interactively.
func StdinIsTerminal() bool {
	return xterm.IsTerminal(int(os.Stdin.Fd()))
}
