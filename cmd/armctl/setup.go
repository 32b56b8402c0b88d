package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/example/armctl/pkg/arm"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("armctl Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━"))
	fmt.Println()

	cfg := arm.DefaultConfig()

	// Step 1: find the arm's servo bus.
	cfg.Bus.Device = chooseArmPort()

	// Step 2: pick the serial port the commanding host connects to.
	cfg.Host.Device = chooseHostPort(cfg.Bus.Device)

	// Step 3: calibrate the position sensors.
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Calibrating Joints ━━━"))
	fmt.Println()
	if err := calibrateJoints(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error calibrating: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", arm.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start the controller with: " + headerStyle.Render("armctl serve"))

	return nil
}

func chooseArmPort() string {
	fmt.Println("Scanning for servo arms...")
	fmt.Println()

	arms := findArms()
	for _, a := range arms {
		a.bus.Close()
	}

	if len(arms) == 0 {
		fmt.Println("No servo arms found.")
		fmt.Println("Make sure the arm is connected and powered on.")
		os.Exit(1)
	}
	if len(arms) == 1 {
		fmt.Println(successStyle.Render("Using arm on " + arms[0].port))
		return arms[0].port
	}

	var options []huh.Option[string]
	for _, a := range arms {
		options = append(options, huh.NewOption(a.port, a.port))
	}

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which arm should this controller drive?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return port
}

func chooseHostPort(armPort string) string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return ""
	}

	options := []huh.Option[string]{
		huh.NewOption("None - serve on stdio", ""),
	}
	for _, port := range ports {
		if port == armPort || strings.Contains(port, "Bluetooth") {
			continue
		}
		options = append(options, huh.NewOption(port, port))
	}

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which serial port does the commanding host use?").
				Description("Command lines arrive here; pick None to serve on stdio").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return port
}

func calibrateJoints(cfg *arm.Config) error {
	hw, err := arm.NewFeetechArm(cfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	ctx := context.Background()

	// Release torque so the joints can be moved by hand.
	if err := hw.SetTorque(ctx, false); err != nil {
		return err
	}

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move each joint to its minimum AND maximum positions.")
	fmt.Println("Explore the full range of motion for all joints.")
	fmt.Println()

	p := tea.NewProgram(newCalibrateModel(hw))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	cm := finalModel.(calibrateModel)

	for i := range cfg.Joints {
		if cm.maxRaw[i] <= cm.minRaw[i] {
			fmt.Printf("  %s: no movement seen, keeping full sensor range\n", cfg.Joints[i].Name)
			continue
		}
		cfg.Joints[i].Pot = arm.PotCalibration{RawMin: cm.minRaw[i], RawMax: cm.maxRaw[i]}
	}

	// Hold the arm again before handing it to the controller.
	if err := hw.SetTorque(ctx, true); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Joints calibrated.")
	return nil
}

type armInfo struct {
	port   string
	servos []feetech.FoundServo
	bus    *feetech.Bus
}

func findArms() []armInfo {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var arms []armInfo

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: 1_000_000,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		servos, err := bus.Scan(ctx, 1, arm.JointCount)
		cancel()

		if err != nil {
			bus.Close()
			continue
		}

		if isServoArm(servos) {
			fmt.Printf("  Found servo arm on %s\n", port)
			arms = append(arms, armInfo{
				port:   port,
				servos: servos,
				bus:    bus,
			})
		} else {
			bus.Close()
		}
	}

	return arms
}

// isServoArm checks for a complete arm: one servo per joint, IDs 1-6.
func isServoArm(servos []feetech.FoundServo) bool {
	if len(servos) != arm.JointCount {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= arm.JointCount; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}

// Calibration TUI model
type calibrateModel struct {
	hw       arm.Hardware
	curRaw   [arm.JointCount]int
	minRaw   [arm.JointCount]int
	maxRaw   [arm.JointCount]int
	quitting bool
}

type tickMsg time.Time

func newCalibrateModel(hw arm.Hardware) calibrateModel {
	m := calibrateModel{hw: hw}
	ctx := context.Background()
	for i := 0; i < arm.JointCount; i++ {
		raw, err := hw.ReadPot(ctx, i)
		if err != nil {
			continue
		}
		m.curRaw[i] = raw
		m.minRaw[i] = raw
		m.maxRaw[i] = raw
	}
	return m
}

func (m calibrateModel) Init() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		ctx := context.Background()
		for i := 0; i < arm.JointCount; i++ {
			raw, err := m.hw.ReadPot(ctx, i)
			if err != nil {
				continue
			}
			m.curRaw[i] = raw
			if raw < m.minRaw[i] {
				m.minRaw[i] = raw
			}
			if raw > m.maxRaw[i] {
				m.maxRaw[i] = raw
			}
		}
		return m, tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return m, nil
}

func (m calibrateModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableJointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, arm.JointCount)
	ranges := make([]int, 0, arm.JointCount)
	for i, name := range arm.JointNames() {
		rangeSize := m.maxRaw[i] - m.minRaw[i]
		ranges = append(ranges, rangeSize)
		rows = append(rows, []string{
			string(name),
			fmt.Sprintf("%d", m.curRaw[i]),
			fmt.Sprintf("%d", m.minRaw[i]),
			fmt.Sprintf("%d", m.maxRaw[i]),
			fmt.Sprintf("%d", rangeSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableJointStyle
			case 1:
				return tableCurrentStyle
			case 4:
				if row >= 0 && row < len(ranges) && ranges[row] > 500 {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter when done"))

	return sb.String()
}
