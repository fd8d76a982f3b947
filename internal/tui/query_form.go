package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels the interactive flow.
var ErrAborted = errors.New("query aborted by user")

// Browser is the subset of the Canary facade the picker needs.
type Browser interface {
	List(ctx context.Context) ([]domain.TargetInfo, error)
	Info(ctx context.Context, target domain.Target) ([]domain.MetricInfo, error)
}

// QuerySelection is what the picker collected.
type QuerySelection struct {
	Target domain.Target
	Metric string
	CF     string
}

// QueryForm walks the user through choosing a target, a metric and a
// consolidation function. Targets come from List and metrics from Info for
// the chosen target; requests are issued one at a time. Instance rows are
// offered only when instances is true.
func QueryForm(browser Browser, prefill QuerySelection, instances bool) (*QuerySelection, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var rows []domain.TargetInfo
	if err := runSpinner(accessible, "Fetching targets...", func(ctx context.Context) error {
		var err error
		rows, err = browser.List(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	targetOpts := buildTargetOptions(rows, instances)
	if len(targetOpts) == 0 {
		return nil, fmt.Errorf("no targets available")
	}

	sel := prefill
	targetID := sel.Target.ID()
	if err := runForm(accessible, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Target").
			Options(targetOpts...).
			Value(&targetID).
			Height(selectHeight(len(targetOpts), 12)),
	)); err != nil {
		return nil, err
	}

	target, err := domain.ParseTarget(targetID)
	if err != nil {
		return nil, err
	}
	sel.Target = target

	var infos []domain.MetricInfo
	if err := runSpinner(accessible, "Fetching metrics for "+target.ID()+"...", func(ctx context.Context) error {
		var err error
		infos, err = browser.Info(ctx, target)
		return err
	}); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no metrics available for %s", target)
	}

	metricOpts := buildMetricOptions(infos, sel.Metric)
	if err := runForm(accessible, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Metric").
			Options(metricOpts...).
			Value(&sel.Metric).
			Height(selectHeight(len(metricOpts), 12)),
	)); err != nil {
		return nil, err
	}

	cfField := cfField(findMetric(infos, sel.Metric), &sel.CF)
	if err := runForm(accessible, huh.NewGroup(cfField)); err != nil {
		return nil, err
	}
	sel.CF = strings.TrimSpace(sel.CF)

	return &sel, nil
}

// cfField offers the consolidation functions the metric reports, or a free
// text input when it reports none.
func cfField(info *domain.MetricInfo, value *string) huh.Field {
	if *value == "" {
		*value = domain.DefaultCF
	}
	if info == nil || len(info.CFs) == 0 {
		return huh.NewInput().
			Title("Consolidation function").
			Value(value)
	}
	opts := buildCFOptions(info.CFs, *value)
	return huh.NewSelect[string]().
		Title("Consolidation function").
		Options(opts...).
		Value(value).
		Height(selectHeight(len(opts), 8))
}

func runSpinner(accessible bool, title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// buildTargetOptions turns listing rows into select options keyed by the
// target's wire identifier. Instance rows are indented under their host.
func buildTargetOptions(rows []domain.TargetInfo, instances bool) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(rows))
	for _, row := range rows {
		if row.HasInstance() {
			if !instances {
				continue
			}
			id := row.Target().ID()
			opts = append(opts, huh.NewOption("  "+id, id))
			continue
		}
		opts = append(opts, huh.NewOption(row.Host, row.Host))
	}
	return opts
}

// buildMetricOptions lists metrics in server order. A prefilled metric the
// target does not report is kept as a custom entry.
func buildMetricOptions(infos []domain.MetricInfo, prefill string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(infos)+1)
	for _, info := range infos {
		label := info.Metric
		if len(info.CFs) > 0 {
			label += " (" + strings.Join(info.CFs, ", ") + ")"
		}
		opts = append(opts, huh.NewOption(label, info.Metric))
	}
	if prefill != "" && findMetric(infos, prefill) == nil {
		opts = append(opts, huh.NewOption("Custom: "+prefill, prefill))
	}
	return opts
}

// buildCFOptions lists cfs in server order, appending current when the
// metric does not report it.
func buildCFOptions(cfs []string, current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(cfs)+1)
	found := false
	for _, cf := range cfs {
		if cf == current {
			found = true
		}
		opts = append(opts, huh.NewOption(cf, cf))
	}
	if current != "" && !found {
		opts = append(opts, huh.NewOption("Custom: "+current, current))
	}
	return opts
}

func findMetric(infos []domain.MetricInfo, metric string) *domain.MetricInfo {
	for i := range infos {
		if infos[i].Metric == metric {
			return &infos[i]
		}
	}
	return nil
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
