// Package canary resolves Canary targets into resource paths, issues the
// request through an injected transport and normalizes the response into
// flat records.
package canary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/rs/zerolog/log"
)

const (
	// collection is the resource collection of the v2 and v3 APIs.
	collection = "canary"

	// legacyCollection is the host collection driven by v1 actions.
	legacyCollection = "os-hosts"

	actionQuery  = "query"
	actionInfo   = "info"
	actionLegacy = "action"

	legacyQueryKey = "canary-query"
	legacyShowKey  = "canary-show"
)

// Manager is the query facade for one endpoint and API version.
// It holds no state between calls.
type Manager struct {
	transport domain.Transport
	version   domain.APIVersion
}

// NewManager returns a Manager that issues requests through t using the
// given API version. An empty version selects domain.DefaultAPIVersion.
func NewManager(t domain.Transport, version domain.APIVersion) *Manager {
	if version == "" {
		version = domain.DefaultAPIVersion
	}
	return &Manager{transport: t, version: version}
}

// Version returns the API version the manager speaks.
func (m *Manager) Version() domain.APIVersion { return m.version }

// queryArgs is the argument object of a query request. Unset optional
// fields are sent as null.
type queryArgs struct {
	Metric     string `json:"metric"`
	FromTime   *int64 `json:"from_time"`
	ToTime     *int64 `json:"to_time"`
	CF         string `json:"cf"`
	Resolution *int64 `json:"resolution"`
}

type queryBody struct {
	Args queryArgs `json:"args"`
}

// Query fetches the samples of metric for target. The consolidation function
// is passed through unvalidated and attached to every returned point, since
// the server does not echo it.
func (m *Manager) Query(ctx context.Context, target domain.Target, metric string, opts domain.QueryOpts) ([]domain.DataPoint, error) {
	if metric == "" {
		return nil, domain.ErrMetricRequired
	}
	if err := m.checkTarget(target); err != nil {
		return nil, err
	}

	cf := opts.CF
	if cf == "" {
		cf = domain.DefaultCF
	}

	body := queryBody{Args: queryArgs{
		Metric:     metric,
		FromTime:   opts.FromTime,
		ToTime:     opts.ToTime,
		CF:         cf,
		Resolution: opts.Resolution,
	}}

	var path string
	var payload any
	if m.version == domain.APIv1 {
		path = resourcePath(legacyCollection, target.ID(), actionLegacy)
		payload = map[string]any{legacyQueryKey: body}
	} else {
		path = resourcePath(collection, target.ID(), actionQuery)
		payload = body
	}

	log.Debug().
		Str("target", target.ID()).
		Str("metric", metric).
		Str("cf", cf).
		Str("path", path).
		Msg("canary query")

	_, raw, err := m.transport.Post(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	points, err := decodePoints(raw, cf)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", domain.ErrMalformedResponse, target.ID(), err)
	}
	return points, nil
}

// Info describes the metrics available for target, in the order the server
// lists them.
func (m *Manager) Info(ctx context.Context, target domain.Target) ([]domain.MetricInfo, error) {
	if err := m.checkTarget(target); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	var err error
	if m.version == domain.APIv1 {
		path := resourcePath(legacyCollection, target.ID(), actionLegacy)
		log.Debug().Str("target", target.ID()).Str("path", path).Msg("canary show")
		_, raw, err = m.transport.Post(ctx, path, map[string]any{legacyShowKey: struct{}{}})
	} else {
		path := resourcePath(collection, target.ID(), actionInfo)
		log.Debug().Str("target", target.ID()).Str("path", path).Msg("canary info")
		_, raw, err = m.transport.Get(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	infos, err := decodeMetricInfos(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: info %s: %v", domain.ErrMalformedResponse, target.ID(), err)
	}
	return infos, nil
}

// List enumerates known targets. When the server groups instances under
// their host, each host row is followed by that host's instance rows.
func (m *Manager) List(ctx context.Context) ([]domain.TargetInfo, error) {
	if !m.version.SupportsList() {
		return nil, fmt.Errorf("canary list: %w (%s)", domain.ErrUnsupported, m.version)
	}

	path := "/" + collection
	log.Debug().Str("path", path).Msg("canary list")

	_, raw, err := m.transport.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	targets, err := decodeTargets(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", domain.ErrMalformedResponse, err)
	}
	return targets, nil
}

// checkTarget rejects targets the selected API version cannot address.
func (m *Manager) checkTarget(target domain.Target) error {
	if target.HostName() == "" {
		return fmt.Errorf("invalid target: host is required")
	}
	if _, ok := target.Instance(); ok && !m.version.SupportsInstances() {
		return fmt.Errorf("instance target %s: %w (%s)", target.ID(), domain.ErrUnsupported, m.version)
	}
	return nil
}

// resourcePath builds /{collection}/{id}/{action}.
func resourcePath(coll, id, action string) string {
	return "/" + coll + "/" + url.PathEscape(id) + "/" + action
}
