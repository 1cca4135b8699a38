package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/playgraph/internal/runtime"
)

// ExecutionReport renders a recorded play walk as markdown: the tasks in
// walk order, then each flush with the handlers it fired and why. Pipe the
// result through NewRenderer for terminal display.
func ExecutionReport(playName string, rec *runtime.Recorder) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Play: %s\n\n", playName)

	sb.WriteString("### Tasks\n\n")
	if len(rec.Tasks) == 0 {
		sb.WriteString("_no tasks_\n")
	}
	for i, wt := range rec.Tasks {
		fmt.Fprintf(&sb, "%d. `%s` (%s)", i+1, wt.Task.Name, wt.Block)
		if len(wt.Task.Notify) > 0 {
			fmt.Fprintf(&sb, " → notifies %s", codeList(wt.Task.Notify))
		}
		if !wt.Task.Changed {
			sb.WriteString(" — never reports a change")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n### Handler flushes\n\n")
	if len(rec.Flushes) == 0 {
		sb.WriteString("_no handlers fired_\n")
	}
	for i, flush := range rec.Flushes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, describeFlush(flush.Point))
		for _, firing := range flush.Firings {
			fmt.Fprintf(&sb, "   - fired `%s`", firing.Handler.Name)
			var via []string
			for _, cause := range firing.Causes {
				for _, notifier := range cause.Notifiers {
					via = append(via, fmt.Sprintf("`%s` by `%s`", cause.Name, notifier.Name))
				}
			}
			if len(via) > 0 {
				fmt.Fprintf(&sb, " — notified via %s", strings.Join(via, ", "))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func describeFlush(point runtime.FlushPoint) string {
	if point.Kind == runtime.FlushExplicit {
		return fmt.Sprintf("explicit flush inside `%s`", point.Block)
	}
	if point.Block == "" {
		return "implicit flush at the end of the play"
	}
	return fmt.Sprintf("implicit flush at the end of `%s`", point.Block)
}

func codeList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}
