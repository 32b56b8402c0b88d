package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"go.bug.st/serial"

	"github.com/example/armctl/pkg/arm"
	"github.com/example/armctl/pkg/protocol"
)

type ConsoleCommand struct {
	Port string `long:"port" description:"Serial port of the controller (default: host port from config)"`
	Baud int    `long:"baud" default:"115200" description:"Serial baud rate"`
	Hz   int    `long:"hz" default:"10" description:"STATUS polling frequency"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 9 // log box + command input
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - distinct colors for each joint
var jointColors = map[arm.JointName]string{
	arm.BaseRotation:  "196", // red
	arm.Shoulder:      "208", // orange
	arm.Elbow:         "226", // yellow
	arm.WristRotation: "46",  // green
	arm.WristBend:     "51",  // cyan
	arm.Gripper:       "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// consoleConn owns the serial link to a running controller. A reader
// goroutine feeds response lines into the lines channel.
type consoleConn struct {
	port  serial.Port
	lines chan string
}

func newConsoleConn(port serial.Port) *consoleConn {
	c := &consoleConn{port: port, lines: make(chan string, 16)}
	go c.readLoop()
	return c
}

func (c *consoleConn) readLoop() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.port)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c.lines <- line
	}
}

func (c *consoleConn) send(line string) error {
	_, err := c.port.Write([]byte(line + "\n"))
	return err
}

// Messages from the connection and the poll timer
type posMsg arm.Pose
type lineMsg string
type connClosedMsg struct{}
type pollMsg time.Time

func waitForLine(c *consoleConn) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-c.lines
		if !ok {
			return connClosedMsg{}
		}
		// Position payloads feed the chart, everything else the log box.
		if pose, err := protocol.ParsePositions(line); err == nil {
			return posMsg(pose)
		}
		return lineMsg(line)
	}
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

type consoleModel struct {
	conn     *consoleConn
	chart    *streamlinechart.Model
	input    textinput.Model
	portName string
	hz       int
	width    int // terminal width
	height   int // terminal height
	logs     []string
	lastPose *arm.Pose // previous pose, to freeze the chart when idle
	quitting bool
}

func (m *consoleModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *consoleModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *consoleModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func (m consoleModel) pollInterval() time.Duration {
	hz := m.hz
	if hz <= 0 {
		hz = 10
	}
	return time.Second / time.Duration(hz)
}

func initialConsoleModel(conn *consoleConn, portName string, hz int) consoleModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 180),
	)

	// Set up data set styles for each joint
	for _, name := range arm.JointNames() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[name]))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "J1 90 | HOME | PLAY_SEQUENCE wave"
	input.Focus()

	return consoleModel{
		conn:     conn,
		chart:    &chart,
		input:    input,
		portName: portName,
		hz:       hz,
	}
}

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForLine(m.conn),
		pollTick(m.pollInterval()),
	)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				if err := m.conn.send(line); err != nil {
					m.addLog(fmt.Sprintf("send failed: %v", err))
				} else {
					m.addLog("> " + line)
				}
				m.input.Reset()
			}
			return m, nil
		}

	case posMsg:
		pose := arm.Pose(msg)
		// Only update the chart on movement (freeze when idle).
		if m.lastPose == nil || *m.lastPose != pose {
			for i, name := range arm.JointNames() {
				m.chart.PushDataSet(string(name), float64(pose[i]))
			}
			m.chart.DrawAll()
			m.lastPose = &pose
		}
		return m, waitForLine(m.conn)

	case lineMsg:
		m.addLog(string(msg))
		return m, waitForLine(m.conn)

	case connClosedMsg:
		m.addLog("connection closed")
		return m, nil

	case pollMsg:
		if err := m.conn.send("STATUS"); err != nil {
			m.addLog(fmt.Sprintf("poll failed: %v", err))
			return m, nil
		}
		return m, pollTick(m.pollInterval())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) View() string {
	if m.quitting {
		return "Console closed.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("armctl Console"))
	sb.WriteString(fmt.Sprintf(" - %s @ %d Hz", m.portName, m.hz))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Esc or Ctrl+C to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	// Command input
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range arm.JointNames() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[name])).Bold(true)
		item := colorStyle.Render("━━") + " " + string(name)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *ConsoleCommand) Execute(args []string) error {
	port := c.Port
	if port == "" {
		if cfg, err := arm.LoadConfig(); err == nil {
			port = cfg.Host.Device
		}
	}
	if port == "" {
		fmt.Fprintln(os.Stderr, "No serial port given. Pass --port or run 'armctl setup' first.")
		os.Exit(1)
	}

	sp, err := serial.Open(port, &serial.Mode{BaudRate: c.Baud})
	if err != nil {
		log.Fatalf("Failed to open %s: %v", port, err)
	}
	defer sp.Close()

	conn := newConsoleConn(sp)
	p := tea.NewProgram(initialConsoleModel(conn, port, c.Hz), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
