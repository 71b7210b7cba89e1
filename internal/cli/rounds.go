package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/archsketch/archsketch/internal/config"
	"github.com/archsketch/archsketch/pkg/diagram"
	"github.com/archsketch/archsketch/pkg/store"
)

// newRoundsCmd creates the rounds command group for browsing the store.
func newRoundsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "List and browse stored architecture rounds",
	}
	cmd.AddCommand(newRoundsListCmd(configPath))
	cmd.AddCommand(newRoundsExportCmd(configPath))
	return cmd
}

func newRoundsListCmd(configPath *string) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			st, err := newStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ListRounds(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No rounds stored yet. Use `archsketch synth --save` to store one.")
				return nil
			}

			if !interactive {
				printRoundsTable(records)
				return nil
			}
			return pickAndExport(cmd.Context(), st, records)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a round interactively and export its document")
	return cmd
}

func newRoundsExportCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [round-id]",
		Short: "Export the stored document for a round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roundID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid round id %q", args[0])
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			st, err := newStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			return exportRound(cmd.Context(), st, roundID, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default round_<id>.excalidraw.json)")
	return cmd
}

func printRoundsTable(records []store.Record) {
	fmt.Println(StyleTitle.Render("Stored rounds"))
	for _, rec := range records {
		doc := StyleDim.Render("no document")
		if rec.HasDocument {
			doc = styleCached.Render("document")
		}
		fmt.Printf("  %s %s %s %s\n",
			StyleValue.Render(fmt.Sprintf("%3d", rec.RoundID)),
			StyleValue.Render(rec.RoundTitle),
			doc,
			StyleDim.Render(rec.UpdatedAt.Format("2006-01-02 15:04")))
	}
}

func exportRound(ctx context.Context, st store.Store, roundID int, output string) error {
	doc, err := st.GetDocument(ctx, roundID)
	if err != nil {
		return err
	}
	if output == "" {
		output = fmt.Sprintf("round_%d.excalidraw.json", roundID)
	}
	if err := diagram.WriteDocumentFile(doc, output); err != nil {
		return err
	}
	printSuccess("Exported round %d", roundID)
	printFile(output)
	return nil
}

func pickAndExport(ctx context.Context, st store.Store, records []store.Record) error {
	model := newRoundListModel(records)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(roundListModel)
	if !ok || m.selected == nil {
		return nil // quit without selection
	}
	return exportRound(ctx, st, m.selected.RoundID, "")
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// roundListModel is the bubbletea model for interactive round selection.
type roundListModel struct {
	records  []store.Record
	cursor   int
	offset   int
	height   int
	selected *store.Record
}

func newRoundListModel(records []store.Record) roundListModel {
	return roundListModel{records: records, height: 15}
}

func (m roundListModel) Init() tea.Cmd { return nil }

func (m roundListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			rec := m.records[m.cursor]
			if !rec.HasDocument {
				return m, nil
			}
			m.selected = &rec
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m roundListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select round"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ export  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.records) {
		end = len(m.records)
	}
	for i := m.offset; i < end; i++ {
		rec := m.records[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("%s%3d  %s", cursor, rec.RoundID, rec.RoundTitle)
		if !rec.HasDocument {
			line += listDimStyle.Render("  (no document)")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
