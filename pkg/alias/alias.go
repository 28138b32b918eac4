package alias

import (
	"context"
	"sort"
	"strconv"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/metrics"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/selector"
)

// Alias names a device position
type Alias struct {
	Selector    *selector.Selector `json:"-"`
	Label       string             `json:"label" validate:"required"`
	Priority    int                `json:"priority" validate:"min=0"`
	Color       string             `json:"color,omitempty"`
	Description string             `json:"description,omitempty"`
}

// Key returns the canonical selector text
func (a Alias) Key() string {
	if a.Selector == nil {
		return ""
	}
	return a.Selector.String()
}

// Sort orders aliases by priority, highest first, then by selector text
func Sort(aliases []Alias) {
	sort.SliceStable(aliases, func(i, j int) bool {
		if aliases[i].Priority != aliases[j].Priority {
			return aliases[i].Priority > aliases[j].Priority
		}
		return aliases[i].Key() < aliases[j].Key()
	})
}

// Resolve returns the highest priority alias whose selector matches path,
// or nil. Only aliases whose current term is nodeID are considered.
func Resolve(ctx context.Context, tree selector.Tree, aliases []Alias, nodeID, path string) (*Alias, error) {
	var candidates []Alias
	for _, a := range aliases {
		if a.Selector != nil && a.Selector.Current == nodeID {
			candidates = append(candidates, a)
		}
	}
	Sort(candidates)

	for i := range candidates {
		pass, err := candidates[i].Selector.ClausesPass(ctx, tree, path)
		if err != nil {
			return nil, err
		}
		if pass {
			metrics.AliasResolutions.WithLabelValues(strconv.FormatBool(true)).Inc()
			return &candidates[i], nil
		}
	}
	metrics.AliasResolutions.WithLabelValues(strconv.FormatBool(false)).Inc()
	return nil, nil
}
