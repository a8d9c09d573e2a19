package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

func paint(s, color string, use bool) string {
	if !use || s == "" {
		return s
	}
	return color + s + colorReset
}

// formatMatch formats a MatchResult for terminal display, axes sorted by name.
//
//	⚡ 2 chains │ 2 axes │ 85µs
//	  department [17-59] Government of India > +Ministry of Finance > +Department of Revenue
//	      "Department of Revenue, Ministry of Finance"
func formatMatch(text string, result *socket.MatchResult, color bool) string {
	var sb strings.Builder
	header := fmt.Sprintf("⚡ %d chains", result.Count)
	sb.WriteString(paint(header, colorBold, color))
	sb.WriteString(fmt.Sprintf(" │ %d axes", len(result.Records)))
	if result.Elapsed != "" {
		sb.WriteString(" │ " + result.Elapsed)
	}
	if result.Saved {
		sb.WriteString(" │ " + paint("saved", colorGreen, color))
	}
	sb.WriteString("\n")
	writeRecords(&sb, text, result.Records, color)
	return sb.String()
}

// formatResults formats stored records. The original text is not stored, so
// span texts are shown instead.
func formatResults(result *socket.ResultsResult, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(fmt.Sprintf("⚡ %s", result.DocID), colorBold, color))
	sb.WriteString(fmt.Sprintf(" │ %d chains\n", result.Count))
	writeRecords(&sb, "", result.Records, color)
	return sb.String()
}

func writeRecords(sb *strings.Builder, text string, byAxis map[string][]ports.MatchRecord, color bool) {
	axes := make([]string, 0, len(byAxis))
	for axis := range byAxis {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	for _, axis := range axes {
		for _, rec := range byAxis[axis] {
			sb.WriteString(fmt.Sprintf("  %s [%d-%d] %s\n",
				paint(axis, colorMagenta, color), rec.Start, rec.End,
				formatPath(rec.HierarchyPath, color)))
			sb.WriteString("      " + paint(quoteRecord(text, rec), colorGray, color) + "\n")
		}
	}
}

// formatPath joins a hierarchy path, highlighting the levels seen in the text.
func formatPath(path []string, color bool) string {
	parts := make([]string, len(path))
	for i, p := range path {
		if strings.HasPrefix(p, hierarchy.ConfirmedPrefix) {
			parts[i] = paint(p, colorCyan, color)
		} else {
			parts[i] = p
		}
	}
	return strings.Join(parts, " > ")
}

// quoteRecord returns the matched region of text, or the span texts joined
// when text is unavailable or does not cover the record.
func quoteRecord(text string, rec ports.MatchRecord) string {
	if rec.Start >= 0 && rec.End <= len(text) && rec.Start < rec.End {
		return fmt.Sprintf("%q", text[rec.Start:rec.End])
	}
	quoted := make([]string, len(rec.Spans))
	for i, s := range rec.Spans {
		quoted[i] = fmt.Sprintf("%q", s.Text)
	}
	return strings.Join(quoted, " + ")
}

// formatAxes lists loaded axes, one per line.
func formatAxes(axes []socket.AxisInfo, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(fmt.Sprintf("⚡ %d axes", len(axes)), colorBold, color) + "\n")
	for _, a := range axes {
		sb.WriteString(fmt.Sprintf("  %s  %s  %d nodes, %d names, depth %d, policy %s",
			paint(a.Name, colorMagenta, color), a.Root, a.Nodes, a.Names, a.MaxDepth, a.Policy))
		if a.File != "" {
			sb.WriteString("  " + paint(a.File, colorGray, color))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatTree renders one hierarchy with box-drawing connectors. Levels and
// aliases follow each name.
func formatTree(h *hierarchy.Hierarchy, color bool) string {
	var sb strings.Builder
	root := h.Root()
	sb.WriteString(paint(root.Name, colorBold, color))
	writeNodeMeta(&sb, root, color)
	sb.WriteString("\n")
	walkTree(&sb, root, "", color)
	return sb.String()
}

func walkTree(sb *strings.Builder, n *hierarchy.Node, prefix string, color bool) {
	for i, child := range n.Children {
		isLast := i == len(n.Children)-1
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		sb.WriteString(prefix + connector + child.Name)
		writeNodeMeta(sb, child, color)
		sb.WriteString("\n")

		newPrefix := prefix + "│   "
		if isLast {
			newPrefix = prefix + "    "
		}
		walkTree(sb, child, newPrefix, color)
	}
}

func writeNodeMeta(sb *strings.Builder, n *hierarchy.Node, color bool) {
	if n.Level != "" {
		sb.WriteString("  " + paint(n.Level, colorGray, color))
	}
	if len(n.Alias) > 0 {
		sb.WriteString("  " + paint("aka "+strings.Join(n.Alias, " | "), colorYellow, color))
	}
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult, color bool) string {
	status := paint(h.Status, colorGreen, color)
	if h.Status != "ok" {
		status = paint(h.Status, colorYellow, color)
	}
	var sb strings.Builder
	sb.WriteString(paint("⚡ lexmatch daemon", colorBold, color) + "\n")
	sb.WriteString(fmt.Sprintf("  Status:     %s\n", status))
	sb.WriteString(fmt.Sprintf("  Axes:       %d\n", h.Axes))
	sb.WriteString(fmt.Sprintf("  Nodes:      %d\n", h.Nodes))
	sb.WriteString(fmt.Sprintf("  Names:      %d\n", h.Names))
	sb.WriteString(fmt.Sprintf("  Documents:  %d\n", h.Documents))
	sb.WriteString(fmt.Sprintf("  Reloads:    %d\n", h.Reloads))
	if h.LastError != "" {
		sb.WriteString(fmt.Sprintf("  Last error: %s\n", h.LastError))
	}
	sb.WriteString(fmt.Sprintf("  Uptime:     %s\n", h.Uptime))
	return sb.String()
}
