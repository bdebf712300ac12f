package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/pacview/pkg/graph"
	"github.com/matzehuels/pacview/pkg/nav"
	"github.com/matzehuels/pacview/pkg/search"
)

// minPaneHeight keeps a pane usable on very small terminals: title, one
// list row, separator and one detail row.
const minPaneHeight = 4

func (m BrowserModel) View() string {
	v := m.state.Snapshot()

	var top, bottom string
	if m.showHelp {
		top = renderHelp(m.width)
	}
	if v.Searching {
		bottom = m.input.View()
	} else {
		bottom = renderStatus(v)
	}

	height := m.height - lipgloss.Height(bottom)
	if top != "" {
		height -= lipgloss.Height(top)
	}
	panes := renderPanes(v, m.width, max(height, minPaneHeight+2))

	parts := make([]string, 0, 3)
	if top != "" {
		parts = append(parts, top)
	}
	parts = append(parts, panes, bottom)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// Panes
// =============================================================================

// renderPanes lays the three panes out side by side in width x height cells.
func renderPanes(v nav.View, width, height int) string {
	colWidth := width / len(v.Panes)
	cols := make([]string, len(v.Panes))
	for i, p := range v.Panes {
		w := colWidth
		if i == len(v.Panes)-1 {
			w = width - colWidth*(len(v.Panes)-1)
		}
		cols[i] = renderPane(p, v.Query, w, height)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderPane draws one pane: a centred "Title i/n" header, the list in the
// upper half and the selected package's details in the lower half.
func renderPane(p nav.PaneView, query string, width, height int) string {
	style := paneNormalStyle
	if p.Active {
		style = paneActiveStyle
	}
	innerW := max(width-style.GetHorizontalBorderSize(), 1)
	innerH := max(height-style.GetVerticalBorderSize(), minPaneHeight)

	title := paneTitleStyle.Width(innerW).Align(lipgloss.Center).Render(paneTitle(p))
	listH := (innerH - 2) / 2
	detailH := innerH - 2 - listH

	var selected *graph.Record
	if p.Selected >= 0 {
		selected = p.Items[p.Selected]
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		renderList(p.Items, p.Selected, query, innerW, listH),
		listDimStyle.Render(strings.Repeat("─", innerW)),
		renderDetails(selected, innerW, detailH),
	)
	return style.Width(innerW).Height(innerH).Render(body)
}

// paneTitle formats the pane header as "Title i/n", with i = 0 when the
// pane has no selection.
func paneTitle(p nav.PaneView) string {
	return fmt.Sprintf("%s %d/%d", p.Title, p.Selected+1, len(p.Items))
}

// renderList renders the rows of items visible in a window of height rows,
// keeping the selected row in view.
func renderList(items []*graph.Record, selected int, query string, width, height int) string {
	if height <= 0 {
		return ""
	}
	offset := listOffset(len(items), selected, height)
	end := min(offset+height, len(items))

	lines := make([]string, 0, height)
	for i := offset; i < end; i++ {
		r := items[i]
		name := truncate(r.Name, width-2)
		switch {
		case i == selected:
			lines = append(lines, listSelectedStyle.Render("▸ "+name))
		case query != "" && search.Matches(r, query):
			lines = append(lines, listMatchStyle.Render("  "+name))
		case !r.Explicit:
			lines = append(lines, listDimStyle.Render("  "+name))
		default:
			lines = append(lines, listNormalStyle.Render("  "+name))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// listOffset returns the first visible row so that selected sits near the
// middle of the window.
func listOffset(n, selected, height int) int {
	if n <= height || selected < 0 {
		return 0
	}
	offset := selected - height/2
	return max(0, min(offset, n-height))
}

// renderDetails renders r's metadata, or nothing for a nil record.
func renderDetails(r *graph.Record, width, height int) string {
	if r == nil || height <= 0 {
		return strings.Repeat("\n", max(height-1, 0))
	}
	label := func(s string) string { return detailLabelStyle.Render(s) }

	lines := []string{
		label("name") + ":    " + r.Name,
		label("version") + ": " + r.Version,
		label("reason") + ":  " + r.Reason(),
		label("size") + ":    " + humanize.Bytes(r.Size),
		"",
		label("description") + ":",
		r.Description,
		"",
		label("url") + ":",
		StyleLink.Render(r.URL),
	}
	text := lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	wrapped := strings.Split(text, "\n")
	if len(wrapped) > height {
		wrapped = wrapped[:height]
	}
	return strings.Join(wrapped, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// =============================================================================
// Help & Status
// =============================================================================

// renderHelp renders the key binding table.
func renderHelp(width int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(colorCyan)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Action").
		Rows(helpRows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return keyStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

// renderStatus renders the one-line footer: sort order, filter and the
// outcome of the last search.
func renderStatus(v nav.View) string {
	parts := []string{
		"sort: " + StyleValue.Render(v.Sort.String()),
	}
	if v.ExplicitOnly {
		parts = append(parts, "filter: "+StyleValue.Render("explicit"))
	} else {
		parts = append(parts, "filter: "+StyleValue.Render("all"))
	}
	if v.Query != "" {
		q := "search: " + StyleHighlight.Render("/"+v.Query)
		switch v.Status {
		case nav.SearchNotFound:
			q += " " + StyleWarning.Render(v.Status.String())
		case nav.SearchFound:
			q += " " + StyleSuccess.Render(v.Status.String())
		}
		parts = append(parts, q)
	}
	parts = append(parts, "? help")
	return StyleDim.Render(" ") + strings.Join(parts, StyleDim.Render(" · "))
}
