package canary

import (
	"context"
	"strings"
	"time"

	"gridcentric/canaryctl/internal/cache"
	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/services/auth"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	targetsCacheTTL   = 5 * time.Minute
	completionTimeout = 5 * time.Second
)

// targetCache backs target completion. Overridable in tests.
var targetCache = cache.NewDefault()

func targetsKey(settings config.Settings) string {
	return cache.Key("targets", auth.AccountKey(settings.Endpoint), string(settings.APIVersion))
}

// storeTargets refreshes the completion cache after a successful list.
func storeTargets(settings config.Settings, rows []domain.TargetInfo) {
	if err := targetCache.Set(targetsKey(settings), rows); err != nil {
		log.Debug().Err(err).Msg("failed to cache targets")
	}
}

// completeTargets completes the first argument from the cached target list,
// fetching it when the cache is cold. Completion never reports errors.
func completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	settings, err := loadSettings(cmd)
	if err != nil || !settings.APIVersion.SupportsList() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	rows, err := cache.Remember(targetCache, targetsKey(settings), targetsCacheTTL, func() ([]domain.TargetInfo, error) {
		manager, err := managerFor(settings)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
		defer cancel()
		return manager.List(ctx)
	})
	if err != nil {
		log.Debug().Err(err).Msg("target completion failed")
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return matchTargets(rows, toComplete, settings.APIVersion.SupportsInstances()), cobra.ShellCompDirectiveNoFileComp
}

// matchTargets returns the identifiers of rows starting with prefix, in
// listing order.
func matchTargets(rows []domain.TargetInfo, prefix string, instances bool) []string {
	var ids []string
	for _, row := range rows {
		if row.HasInstance() && !instances {
			continue
		}
		id := row.Target().ID()
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}
