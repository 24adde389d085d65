package commands

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/pkg/core"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse schemas and tables in the terminal",
		Long: `Browse the target database's schemas and tables interactively.

Staged imports appear alongside confirmed tables, marked pending until
the database verifies them.`,
		RunE: runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	schemas, err := cmdCtx.Engine.Schemas(ctx)
	if err != nil {
		return err
	}

	tables := make(map[int64][]core.TableRecord, len(schemas))
	for _, schema := range schemas {
		if err := cmdCtx.Engine.Refresh(ctx, schema.ID); err != nil {
			return err
		}
		tables[schema.ID] = cmdCtx.Engine.TableSource(schema.ID).Get()
	}

	model := newBrowseModel(cmdCtx.Engine.Database(), schemas, tables)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

var (
	browseTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4c9ee8")).Bold(true)
	browsePendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c9a24b")).Italic(true)
	browseHelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

type schemaItem struct {
	schema core.Schema
	count  int
}

func (i schemaItem) Title() string       { return i.schema.Name }
func (i schemaItem) Description() string { return fmt.Sprintf("%d tables", i.count) }
func (i schemaItem) FilterValue() string { return i.schema.Name }

type tableItem struct {
	record core.TableRecord
}

func (i tableItem) Title() string {
	if !i.record.ImportVerified {
		return browsePendingStyle.Render(i.record.Name + " *")
	}
	return i.record.Name
}

func (i tableItem) Description() string {
	if !i.record.ImportVerified {
		return "pending import"
	}
	return fmt.Sprintf("table %d", i.record.ID)
}

func (i tableItem) FilterValue() string { return i.record.Name }

// browseModel is a two-level browser: schema list, then table list.
type browseModel struct {
	database string
	schemas  []core.Schema
	tables   map[int64][]core.TableRecord

	schemaList list.Model
	tableList  list.Model
	inTables   bool
	width      int
	height     int
}

func newBrowseModel(database string, schemas []core.Schema, tables map[int64][]core.TableRecord) *browseModel {
	items := make([]list.Item, 0, len(schemas))
	for _, schema := range schemas {
		items = append(items, schemaItem{schema: schema, count: len(tables[schema.ID])})
	}

	schemaList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	schemaList.Title = database
	schemaList.SetShowHelp(false)

	tableList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tableList.SetShowHelp(false)

	return &browseModel{
		database:   database,
		schemas:    schemas,
		tables:     tables,
		schemaList: schemaList,
		tableList:  tableList,
	}
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.schemaList.SetSize(msg.Width, msg.Height-3)
		m.tableList.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "enter":
			if !m.inTables {
				if item, ok := m.schemaList.SelectedItem().(schemaItem); ok {
					m.openSchema(item.schema)
				}
				return m, nil
			}

		case "esc", "backspace":
			if m.inTables {
				m.inTables = false
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if m.inTables {
		m.tableList, cmd = m.tableList.Update(msg)
	} else {
		m.schemaList, cmd = m.schemaList.Update(msg)
	}
	return m, cmd
}

func (m *browseModel) openSchema(schema core.Schema) {
	records := m.tables[schema.ID]
	items := make([]list.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, tableItem{record: rec})
	}
	m.tableList.SetItems(items)
	m.tableList.Title = fmt.Sprintf("%s / %s", m.database, schema.Name)
	m.tableList.ResetSelected()
	m.inTables = true
}

func (m *browseModel) View() string {
	header := browseTitleStyle.Render("Quarry")
	help := browseHelpStyle.Render("enter: open  esc: back  q: quit")

	var body string
	if m.inTables {
		body = m.tableList.View()
	} else {
		body = m.schemaList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}
