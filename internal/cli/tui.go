package cli

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/layout"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// clusterColors tints the cluster column; index 0 is unused.
var clusterColors = [...]lipgloss.Color{"", "75", "35", "220", "167", "141"}

// =============================================================================
// Rows
// =============================================================================

// positionRow is one node of the inspected layout, in polar terms around the root.
type positionRow struct {
	ID      string
	Title   string
	Cluster int
	X, Y    float64
	Radius  float64
	Angle   float64 // degrees in [0, 360), clockwise on screen
}

// Sort orders cycled with the "s" key.
const (
	sortDocument = iota
	sortCluster
	sortAngle
	sortRadius
	numSorts
)

var sortNames = [numSorts]string{"document", "cluster", "angle", "radius"}

// buildRows computes polar coordinates of every node relative to the root.
// Duplicate ids keep their first occurrence.
func buildRows(doc graph.Document) []positionRow {
	if len(doc.Nodes) == 0 {
		return nil
	}
	nodes := make([]mindmap.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = mindmap.Node{ID: n.ID}
	}
	root := doc.Nodes[mindmap.RootIndex(nodes)].Position

	seen := make(map[string]bool, len(doc.Nodes))
	rows := make([]positionRow, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		dx, dy := n.Position.Sub(root)
		angle := layout.Degrees(math.Atan2(dy, dx))
		if angle < 0 {
			angle += 360
		}
		rows = append(rows, positionRow{
			ID:      n.ID,
			Title:   n.Title,
			Cluster: mindmap.NormalizeCluster(n.Cluster),
			X:       n.Position.X,
			Y:       n.Position.Y,
			Radius:  math.Hypot(dx, dy),
			Angle:   angle,
		})
	}
	return rows
}

// sortRows returns a copy of rows in the given order. Ties keep document order.
func sortRows(rows []positionRow, by int) []positionRow {
	out := append([]positionRow(nil), rows...)
	var less func(a, b positionRow) bool
	switch by {
	case sortCluster:
		less = func(a, b positionRow) bool { return a.Cluster < b.Cluster }
	case sortAngle:
		less = func(a, b positionRow) bool { return a.Angle < b.Angle }
	case sortRadius:
		less = func(a, b positionRow) bool { return a.Radius < b.Radius }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// =============================================================================
// InspectModel - Interactive layout table
// =============================================================================

// InspectModel is the bubbletea model for browsing computed positions.
type InspectModel struct {
	Title   string
	Rows    []positionRow
	Sectors []mindmap.Sector
	Cursor  int
	Height  int
	Offset  int
	SortBy  int

	source []positionRow
}

// NewInspectModel creates a model for a positioned document.
func NewInspectModel(title string, doc graph.Document, sectors []mindmap.Sector) InspectModel {
	rows := buildRows(doc)
	return InspectModel{
		Title:   title,
		Rows:    rows,
		Sectors: sectors,
		Height:  15,
		source:  rows,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "s":
			m.SortBy = (m.SortBy + 1) % numSorts
			m.Rows = sortRows(m.source, m.SortBy)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  s sort (%s)  q quit", sortNames[m.SortBy])))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(positionTable(m.Rows[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")
	if s := sectorSummary(m.Sectors); s != "" {
		b.WriteString(listDimStyle.Render(s))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Rendering Helpers
// =============================================================================

// positionTable builds the table for rows; cursor < 0 highlights nothing.
func positionTable(rows []positionRow, cursor int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		title := r.Title
		if len([]rune(title)) > 28 {
			title = string([]rune(title)[:27]) + "…"
		}
		data[i] = []string{
			marker,
			r.ID,
			title,
			fmt.Sprintf("%d", r.Cluster),
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
			fmt.Sprintf("%.1f", r.Radius),
			fmt.Sprintf("%.1f°", r.Angle),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Title", "Cluster", "X", "Y", "Radius", "Angle").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if row < 0 || row >= len(rows) {
				return base
			}
			if col == 3 {
				if c := rows[row].Cluster; c > 0 && c < len(clusterColors) {
					base = base.Foreground(clusterColors[c])
				}
			}
			if row == cursor {
				if col == 3 {
					return base.Bold(true)
				}
				return listSelectedStyle
			}
			if col >= 4 {
				return base.Foreground(colorGray)
			}
			return base
		})
}

// sectorSummary lists each cluster's angular range in degrees.
func sectorSummary(sectors []mindmap.Sector) string {
	if len(sectors) == 0 {
		return ""
	}
	parts := make([]string, len(sectors))
	for i, s := range sectors {
		parts[i] = fmt.Sprintf("c%d %.0f°–%.0f°", s.Cluster, layout.Degrees(s.Start), layout.Degrees(s.End))
	}
	return "  sectors: " + strings.Join(parts, "  ")
}
