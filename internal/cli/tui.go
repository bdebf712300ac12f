package cli

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/nav"
)

// =============================================================================
// Browse Command
// =============================================================================

// browseCommand creates the browse command. The root command runs the same
// browser when no subcommand is given.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse installed packages interactively",
		Long: `Browse installed packages in three lists: the packages that require the
focused package, all (or explicitly installed) packages, and the packages the
focused package depends on. Press ? inside the browser for key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd)
		},
	}
}

func (c *CLI) runBrowse(cmd *cobra.Command) error {
	ctx := cmd.Context()

	src, err := c.sourceFor(cmd)
	if err != nil {
		return err
	}
	g, _, err := c.loadGraph(ctx, src)
	if err != nil {
		return err
	}

	state := nav.New(g, nav.Options{
		PageSize:     src.cfg.UI.PageSize,
		Sort:         src.cfg.UI.SortMode(),
		ExplicitOnly: src.cfg.UI.ExplicitOnly,
		Logger:       c.Logger,
	})

	release := c.holdLogs()
	defer release()

	p := tea.NewProgram(NewBrowserModel(state, src.cfg.UI.ShowHelp), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// BrowserModel - Three-pane package browser
// =============================================================================

// BrowserModel is the bubbletea model of the package browser. Navigation
// lives in the wrapped nav.State; the model only owns presentation state.
type BrowserModel struct {
	state    *nav.State
	input    textinput.Model
	showHelp bool
	width    int
	height   int
}

// NewBrowserModel creates a browser over state.
func NewBrowserModel(state *nav.State, showHelp bool) BrowserModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "package name"
	ti.CharLimit = 100
	ti.Blur()

	return BrowserModel{
		state:    state,
		input:    ti,
		showHelp: showHelp,
		width:    120,
		height:   40,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	searching := m.state.Searching()
	action := actionFor(msg, searching)

	switch {
	case action == nav.Quit:
		return m, tea.Quit
	case action == nav.ToggleHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case searching && action == nav.None:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.state.SetSearchDraft(m.input.Value())
		return m, cmd
	}

	m.state.Apply(action)

	if action == nav.EnterSearch {
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	if searching && !m.state.Searching() {
		m.input.Blur()
	}
	return m, nil
}

// State returns the navigation state driven by the model.
func (m BrowserModel) State() *nav.State {
	return m.state
}
