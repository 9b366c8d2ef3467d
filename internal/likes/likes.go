// Package likes implements the apply-then-confirm-or-revert pattern for
// community post likes.
package likes

import (
	"context"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

// Toggler is the remote like mutation.
type Toggler interface {
	ToggleLike(ctx context.Context, userID, postID string) (liked bool, err error)
}

// Render pushes a like state to the UI. It is called at least once with the
// optimistic state, and again with the captured state on rollback.
type Render func(models.PostLikeState)

// Toggle flips the like state locally, renders it, then confirms with the
// remote. On failure the captured pre-mutation state is restored exactly
// rather than decremented back, so rapid double-toggles cannot drift the
// count.
func Toggle(ctx context.Context, t Toggler, userID, postID string, current models.PostLikeState, render Render) (models.PostLikeState, error) {
	captured := current

	next := models.PostLikeState{Liked: !current.Liked}
	if next.Liked {
		next.LikeCount = current.LikeCount + 1
	} else {
		next.LikeCount = current.LikeCount - 1
		if next.LikeCount < 0 {
			next.LikeCount = 0
		}
	}
	render(next)

	liked, err := t.ToggleLike(ctx, userID, postID)
	if err != nil {
		render(captured)
		return captured, err
	}
	if liked != next.Liked {
		// The remote did not apply the flip (concurrent toggle elsewhere);
		// restore what we had and let the next refresh sort it out.
		render(captured)
		return captured, nil
	}
	return next, nil
}
