package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/blackjack/internal/presentation/graph"
	"github.com/aretw0/blackjack/internal/presentation/tui"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/session"
	"golang.org/x/term"
)

// PlayOptions configures an interactive table prompt.
type PlayOptions struct {
	TableID string
	Manager *session.Manager
	In      io.Reader
	Out     io.Writer
	// Render turns markdown into terminal output. Nil prints markdown as is.
	Render func(string) (string, error)
}

const playHelp = `Commands:
  register | begin | end | reset   apply a lifecycle operation
  status                           show the table
  history                          list the current timeline
  graph                            print the history tree as Mermaid
  help                             show this message
  quit                             leave the table`

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RunPlay opens (or creates) a table and reads commands from opts.In until quit, EOF or
// ctx is done. Every accepted operation is saved before the next command is read.
func RunPlay(ctx context.Context, opts PlayOptions) error {
	eng, err := opts.Manager.LoadOrCreate(ctx, opts.TableID)
	if err != nil {
		return err
	}
	interactive := IsTerminal(opts.In)
	PrintSystemMessage(opts.Out, "Table '%s' is %s with %d player(s).", opts.TableID, eng.CurrentProgress(), eng.Snapshot().PlayerCount())

	scanner := bufio.NewScanner(opts.In)
	for {
		if interactive {
			fmt.Fprint(opts.Out, "> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done, err := playCommand(ctx, opts, line)
		if err != nil {
			return err
		}
		if done {
			PrintSystemMessage(opts.Out, "Left table '%s'.", opts.TableID)
			return nil
		}
	}
}

// playCommand runs one line. Rejected operations are reported, not returned.
func playCommand(ctx context.Context, opts PlayOptions, line string) (bool, error) {
	switch line {
	case "q", "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(opts.Out, playHelp)
		return false, nil
	case "status":
		return false, printStatus(ctx, opts)
	case "history":
		eng, err := opts.Manager.Load(ctx, opts.TableID)
		if err != nil {
			return false, err
		}
		i := 0
		for snap := range eng.History() {
			fmt.Fprintf(opts.Out, "%3d  %s\n", i, snap)
			i++
		}
		return false, nil
	case "graph":
		eng, err := opts.Manager.Load(ctx, opts.TableID)
		if err != nil {
			return false, err
		}
		fmt.Fprint(opts.Out, graph.GenerateMermaid(eng.Root()))
		return false, nil
	}

	op, err := domain.ParseOperation(line)
	if err != nil {
		PrintSystemMessage(opts.Out, "Unknown command %q. Type 'help'.", line)
		return false, nil
	}
	res, err := opts.Manager.Apply(ctx, opts.TableID, op)
	var te *domain.InvalidTransitionError
	if errors.As(err, &te) {
		PrintSystemMessage(opts.Out, "Cannot %s while the table is %s.", op, te.Current)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	PrintSystemMessage(opts.Out, "%s", res.After)
	return false, nil
}

func printStatus(ctx context.Context, opts PlayOptions) error {
	eng, err := opts.Manager.Load(ctx, opts.TableID)
	if err != nil {
		return err
	}
	md := tui.StatusMarkdown(opts.TableID, eng.Snapshot(), eng.Depth())
	if opts.Render != nil {
		if out, err := opts.Render(md); err == nil {
			md = out
		}
	}
	fmt.Fprintln(opts.Out, md)
	fmt.Fprint(opts.Out, tui.Seats(eng.Snapshot()))
	return nil
}
