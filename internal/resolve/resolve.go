// internal/resolve/resolve.go
package resolve

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"peergrade/internal/compile"
	"peergrade/internal/roster"
)

// ErrCanceled reports that the user aborted resolution; the caller
// should exit without writing output.
var ErrCanceled = errors.New("resolution canceled")

// Run walks the user through every match request, one screen per
// request. The returned map holds accepted decisions (request ID to
// roster index); skipped requests are absent. The UI renders on stderr
// so a redirected stdout stays clean.
func Run(ctx context.Context, reqs []compile.Request, ro *roster.Roster) (map[int]int, error) {
	if len(reqs) == 0 {
		return map[int]int{}, nil
	}
	p := tea.NewProgram(newModel(reqs, ro),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(*model)
	if m.canceled {
		return nil, ErrCanceled
	}
	return m.decided, nil
}
