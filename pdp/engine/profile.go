// pdp/engine/profile.go
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

// governingProfile assembles the active profiles reachable through the
// employee's groups and picks the single one that governs the request.
// Returns nil when no profile applies, which means unrestricted.
func (e *Evaluator) governingProfile(ctx context.Context, employee *model.Employee) (*model.AccessProfile, error) {
	seen := make(map[string]bool)
	var candidates []*model.AccessProfile

	for _, groupID := range employee.GroupIDs {
		profiles, err := e.directory.ActiveProfilesForGroup(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("profile lookup for group %s: %w", groupID, err)
		}
		for _, p := range profiles {
			if p == nil || !p.Active || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			candidates = append(candidates, p)
		}
	}

	return selectGoverning(candidates), nil
}

// selectGoverning picks the winner among applicable profiles: lowest
// priority number, ties broken by ascending ID so the choice is
// deterministic. Profiles are never merged; the winner governs both the
// time-window and quota checks.
func selectGoverning(profiles []*model.AccessProfile) *model.AccessProfile {
	if len(profiles) == 0 {
		return nil
	}
	sorted := make([]*model.AccessProfile, len(profiles))
	copy(sorted, profiles)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0]
}
