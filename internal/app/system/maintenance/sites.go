package maintenance

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

// Sites is the site store as SyncSites uses it.
type Sites interface {
	Ensure(ctx context.Context, name string) error
}

// SyncSites makes sure every site named on an identity is in the site list
// the search form offers.
func SyncSites(ctx context.Context, ids Identities, sites Sites, logger *zap.Logger) (Report, error) {
	seen := map[string]bool{}
	err := ids.ListAll(ctx, func(ident models.Identity) error {
		if s := strings.TrimSpace(ident.Site); s != "" {
			seen[s] = true
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	names := make([]string, 0, len(seen))
	for s := range seen {
		names = append(names, s)
	}
	sort.Strings(names)

	var rep Report
	for _, name := range names {
		rep.Seen++
		if err := sites.Ensure(ctx, name); err != nil {
			rep.Failed++
			logger.Error("ensure site", zap.String("site", name), zap.Error(err))
			continue
		}
		rep.Done++
	}
	return rep, nil
}
