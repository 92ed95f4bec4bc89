package posting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQueueClosed is returned by Submit after Close.
var ErrQueueClosed = errors.New("posting queue closed")

// PartialPostingError reports a posting that failed after it started
// writing. Completed lists the steps that had succeeded; RolledBack is true
// when every one of them was compensated.
type PartialPostingError struct {
	PostingID   string
	Step        string
	Completed   []string
	RolledBack  bool
	RollbackErr error
	Err         error
}

func (e *PartialPostingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "posting %s failed at %s", e.PostingID, e.Step)
	if len(e.Completed) > 0 {
		fmt.Fprintf(&b, " after %s", strings.Join(e.Completed, ", "))
		switch {
		case e.RolledBack:
			b.WriteString(" (rolled back)")
		case e.RollbackErr != nil:
			fmt.Fprintf(&b, " (rollback failed: %v)", e.RollbackErr)
		default:
			b.WriteString(" (not rolled back)")
		}
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *PartialPostingError) Unwrap() error { return e.Err }
