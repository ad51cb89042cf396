package prompts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// InvalidAnswerMessage is printed before re-prompting on unrecognized input.
const InvalidAnswerMessage = "You must choose either `Y` or `n`"

// LineConfirmer reads answers line by line. It accepts Y, y, N and n; empty
// input selects the request default.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer creates a LineConfirmer reading from in and writing to out.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

// Confirm implements Confirmer. EOF and context cancellation return
// ErrOperationCanceled.
func (c *LineConfirmer) Confirm(ctx context.Context, req Request) (bool, error) {
	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			return false, fmt.Errorf("%w: %w", sberrors.ErrOperationCanceled, err)
		}

		_, _ = fmt.Fprintf(c.out, "%s (Y/n) ", req.Question)

		line, err := c.readLine(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(c.out)
			return false, err
		}

		switch strings.TrimSpace(line) {
		case "":
			return req.Default, nil
		case "Y", "y":
			return true, nil
		case "N", "n":
			return false, nil
		}
		_, _ = fmt.Fprintln(c.out, InvalidAnswerMessage)
	}
}

// readLine reads one line without blocking past ctx cancellation. A line
// terminated by EOF rather than a newline is still returned. On cancellation
// the reader goroutine stays parked in ReadString until input arrives or the
// process exits; sitebox asks at most one question per process, so it is
// never reused.
func (c *LineConfirmer) readLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", sberrors.ErrOperationCanceled, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return res.line, nil
			}
			if errors.Is(res.err, io.EOF) {
				return "", sberrors.ErrOperationCanceled
			}
			return "", fmt.Errorf("read answer: %w", res.err)
		}
		return res.line, nil
	}
}

var _ Confirmer = (*LineConfirmer)(nil)
