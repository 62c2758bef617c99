package accessor

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/version"
)

// WriteSummary prints the configured accessors with their live health.
func (k *Kit) WriteSummary(ctx context.Context, w io.Writer) {
	fmt.Fprintf(w, "%s %s started in %.2fs\n", k.Cfg.Name, version.GetShortVersion(), k.startup.Seconds())

	health := make(map[string]component.Health)
	for _, h := range k.Health(ctx) {
		health[h.Name] = h
	}

	all := k.Components.All()
	if len(all) == 0 {
		fmt.Fprintf(w, "   └── No accessors enabled\n")
		return
	}
	healthy := 0
	for i, c := range all {
		prefix := "├──"
		if i == len(all)-1 {
			prefix = "└──"
		}
		h := health[c.Name()]
		if h.Status == component.StatusHealthy {
			healthy++
		}
		line := fmt.Sprintf("   %s %s %s", prefix, healthStatusIcon(h.Status), c.Name())
		if d, ok := c.(component.Describable); ok {
			line += ": " + d.Describe().Details
		}
		if h.Status != component.StatusHealthy && h.Message != "" {
			line += " (" + h.Message + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d/%d accessors healthy\n", healthy, len(all))
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
