package triage

import "github.com/vilaca/github-issues/internal/domain"

var priorityLabels = map[string]int{
	"P0": 0,
	"P1": 1,
	"P2": 2,
	"P3": 3,
	"P4": 4,
	"P5": 5,
}

// ExtractPriority returns the priority of the first P0..P5 label, scanning
// labels in order. It returns nil when no label declares a priority.
func ExtractPriority(labels []domain.Label) *int {
	for _, label := range labels {
		if p, ok := priorityLabels[label.Name]; ok {
			return &p
		}
	}
	return nil
}
