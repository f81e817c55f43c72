// Package maintenance holds the one-off jobs run by unionctl: provisioning
// logins, backfilling avatars and syncing the site list. Each job walks
// identities, acts on each one independently, and keeps going after a
// per-identity failure.
package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/unionhub/internal/domain/models"
)

// ErrIdentityGone reports an update that matched no identity, usually one
// removed while the job was running.
var ErrIdentityGone = errors.New("identity no longer exists")

// Identities is the identity store as the jobs use it.
type Identities interface {
	ListAll(ctx context.Context, fn func(models.Identity) error) error
	ListByNamePrefix(ctx context.Context, prefix string) ([]models.Identity, error)
	SetAvatarURL(ctx context.Context, id, url string) (int64, error)
}

// Report counts what a job did.
type Report struct {
	Seen    int
	Done    int
	Skipped int
	Failed  int
}

func (r Report) String() string {
	return fmt.Sprintf("seen=%d done=%d skipped=%d failed=%d", r.Seen, r.Done, r.Skipped, r.Failed)
}
