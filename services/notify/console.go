// Package notifysvc implements the core.Notifier contract: the terminal
// analog of the dashboard toast.
package notifysvc

import (
	"fmt"
	"io"
	"os"

	"github.com/trezcool/shule/core"
)

type consoleService struct {
	out io.Writer
}

var _ core.Notifier = (*consoleService)(nil)

// NewConsoleService returns a notifier printing toast-style lines to stderr
// so they never mix with tabular output on stdout.
func NewConsoleService(out ...io.Writer) core.Notifier {
	w := io.Writer(os.Stderr)
	if len(out) > 0 {
		w = out[0]
	}
	return &consoleService{out: w}
}

func (svc *consoleService) Success(msg string) {
	_, _ = fmt.Fprintf(svc.out, "✔ %s\n", msg)
}

func (svc *consoleService) Error(msg string) {
	_, _ = fmt.Fprintf(svc.out, "✘ %s\n", msg)
}
