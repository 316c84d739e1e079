package cleaner

import (
	"errors"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// ErrProtectedSystemFile is raised before any deletion primitive is
// invoked for a high-risk item under a protected system root.
var ErrProtectedSystemFile = errors.New("refusing to delete protected system file")

// ErrCleanupInProgress is returned when a cleanup is started while one is
// already running. Cleanup rejects while busy; it never cancels-and-replaces.
var ErrCleanupInProgress = errors.New("a cleanup is already in progress")

func classifyError(err error) types.ErrorKind {
	switch {
	case errors.Is(err, ErrProtectedSystemFile):
		return types.ErrKindProtected
	case fsops.IsPermission(err):
		return types.ErrKindPermissionDenied
	default:
		return types.ErrKindOther
	}
}
