package maintenance

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultPortraitURL is a placeholder portrait service; %d is 0-99.
const DefaultPortraitURL = "https://randomuser.me/api/portraits/men/%d.jpg"

// PortraitSource returns image bytes for ident. The caller closes the body.
type PortraitSource interface {
	Portrait(ctx context.Context, ident models.Identity) (body io.ReadCloser, size int64, err error)
}

// HTTPPortraits fetches portraits from a URL template holding one %d.
type HTTPPortraits struct {
	Client      *http.Client
	URLTemplate string
}

// PortraitIndex picks a stable 0-99 index for ident: the member number
// when set, otherwise a hash of the id.
func PortraitIndex(ident models.Identity) int {
	if ident.MemberNumber != nil {
		n := *ident.MemberNumber % 100
		if n < 0 {
			n = -n
		}
		return int(n)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(ident.ID))
	return int(h.Sum32() % 100)
}

func (p HTTPPortraits) Portrait(ctx context.Context, ident models.Identity) (io.ReadCloser, int64, error) {
	url := fmt.Sprintf(p.URLTemplate, PortraitIndex(ident))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

// AvatarOptions configures BackfillAvatars.
type AvatarOptions struct {
	NamePrefix string // case-insensitive; blank matches everyone
	Overwrite  bool   // replace avatars that are already set
}

// BackfillAvatars gives each identity whose name starts with the prefix a
// portrait at avatars/<id>.jpg and points avatar_url at it.
func BackfillAvatars(ctx context.Context, ids Identities, store media.Store, src PortraitSource, opts AvatarOptions, logger *zap.Logger) (Report, error) {
	list, err := ids.ListByNamePrefix(ctx, opts.NamePrefix)
	if err != nil {
		return Report{}, fmt.Errorf("list identities: %w", err)
	}
	logger.Info("backfilling avatars", zap.String("prefix", opts.NamePrefix), zap.Int("matched", len(list)))

	var rep Report
	for _, ident := range list {
		rep.Seen++
		log := logger.With(zap.String("identity_id", ident.ID), zap.String("name", ident.FullName))
		if strings.TrimSpace(ident.AvatarURL) != "" && !opts.Overwrite {
			rep.Skipped++
			continue
		}
		if err := backfillOne(ctx, ids, store, src, ident); err != nil {
			rep.Failed++
			log.Error("backfill avatar", zap.Error(err))
			continue
		}
		rep.Done++
		log.Info("avatar updated")
	}
	return rep, nil
}

func backfillOne(ctx context.Context, ids Identities, store media.Store, src PortraitSource, ident models.Identity) error {
	body, size, err := src.Portrait(ctx, ident)
	if err != nil {
		return err
	}
	defer body.Close()

	url, err := media.Upload(ctx, store, media.ImageKey(media.AvatarPrefix, ident.ID), body, size)
	if err != nil {
		return err
	}
	matched, err := ids.SetAvatarURL(ctx, ident.ID, url)
	if err != nil {
		return fmt.Errorf("set avatar_url: %w", err)
	}
	if matched == 0 {
		return ErrIdentityGone
	}
	return nil
}
