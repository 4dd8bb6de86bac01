package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
)

// output seams, replaced in tests
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// runREPL reads a line at a time, splits it with shell quoting rules and
// passes the words to exec. It returns on EOF, "exit" or "quit". Errors
// from exec are printed and the loop goes on.
func runREPL(ctx context.Context, exec func(ctx context.Context, args []string) error, promptFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(promptFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			printlnFn()
			return
		}

		args, perr := shellquote.Split(line)
		if perr != nil {
			printlnFn("Parse error:", perr)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "shell":
			printlnFn("Already in the shell")
			continue
		}

		if err := exec(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
