// Package render formats compositor snapshots and scenario reports for the
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tessel/internal/compositor"
	"github.com/Iron-Ham/tessel/internal/scenario"
)

// minWidth is the narrowest box Report will draw.
const minWidth = 40

// Tree draws the container tree as an indented outline.
func Tree(snap compositor.Snapshot) string {
	var b strings.Builder
	for _, n := range snap.Nodes {
		b.WriteString(strings.Repeat("  ", n.Depth))
		b.WriteString(nodeLine(n))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func nodeLine(n compositor.NodeInfo) string {
	box := Muted.Render(fmt.Sprintf("%dx%d+%d+%d", n.Box.Width, n.Box.Height, n.Box.X, n.Box.Y))
	var label string
	switch n.Kind {
	case "view":
		name := n.Title
		if name == "" {
			name = n.ViewID
		}
		label = fmt.Sprintf("%s %q", n.Kind, name)
		if n.AppID != "" {
			label += " " + Muted.Render("("+n.AppID+")")
		}
	case "workspace":
		label = fmt.Sprintf("%s %s [%s]", n.Kind, n.Name, n.Layout)
	default:
		label = fmt.Sprintf("%s [%s]", n.Kind, n.Layout)
	}

	line := fmt.Sprintf("%s %s %s", Muted.Render(n.Handle), label, box)
	if n.Focused {
		return Focused.Render("* ") + line
	}
	return "  " + line
}

// Views lists every managed view with its state and geometry.
func Views(snap compositor.Snapshot) string {
	if len(snap.Views) == 0 {
		return Muted.Render("no views")
	}
	lines := make([]string, 0, len(snap.Views))
	for _, v := range snap.Views {
		lines = append(lines, fmt.Sprintf("%-10s %-9s node=%-5s committed=%dx%d pending=%dx%d subs=%d",
			v.SurfaceID, State(v.State), v.Node,
			v.Committed.Width, v.Committed.Height,
			v.Pending.Width, v.Pending.Height,
			v.Subscriptions))
	}
	return strings.Join(lines, "\n")
}

// Step formats one replayed step: the step line, its notifications, the
// damage it produced and any failed expectations.
func Step(res scenario.StepResult) string {
	var b strings.Builder
	status := Pass.Render("ok  ")
	switch {
	case res.Error != "":
		status = Warning.Render("err ")
	case len(res.Failures) > 0:
		status = Fail.Render("FAIL")
	}
	fmt.Fprintf(&b, "%s %2d %s -> %s", status, res.Index+1, res.Step, State(res.State))

	for _, ev := range res.Events {
		b.WriteString("\n        " + Muted.Render(ev))
	}
	for _, r := range res.Damage {
		b.WriteString("\n        " + Warning.Render("damage "+r.String()))
	}
	if res.Error != "" {
		b.WriteString("\n        " + Warning.Render("error: "+res.Error))
	}
	for _, f := range res.Failures {
		b.WriteString("\n        " + Error.Render(f))
	}
	return b.String()
}

// Report renders a full replay report boxed to width columns.
func Report(r *scenario.Report, width int) string {
	if width < minWidth {
		width = minWidth
	}

	header := Title.Render(r.Name)
	if r.Path != "" {
		header += " " + Muted.Render(r.Path)
	}

	steps := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, Step(s))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		strings.Join(steps, "\n"),
		"",
		Heading.Render("tree"),
		Tree(r.Final),
		"",
		Heading.Render("views"),
		Views(r.Final),
		"",
		verdict(r),
	)
	// The border takes two columns.
	return Box.Width(width - 2).Render(body)
}

func verdict(r *scenario.Report) string {
	if r.Passed() {
		return Pass.Render(fmt.Sprintf("PASS %d steps", len(r.Steps)))
	}
	return Fail.Render(fmt.Sprintf("FAIL %d failed expectations", r.Failures()))
}

// Summary is the one-line-per-scenario footer printed after a replay run.
func Summary(reports []*scenario.Report) string {
	passed := 0
	lines := make([]string, 0, len(reports)+1)
	for _, r := range reports {
		mark := Pass.Render("PASS")
		if r.Passed() {
			passed++
		} else {
			mark = Fail.Render("FAIL")
		}
		lines = append(lines, fmt.Sprintf("%s %s", mark, r.Name))
	}
	lines = append(lines, fmt.Sprintf("%d/%d scenarios passed", passed, len(reports)))
	return strings.Join(lines, "\n")
}
