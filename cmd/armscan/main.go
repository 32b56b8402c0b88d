// Command armscan probes serial ports for a servo arm and prints what it
// finds. It is a read-only diagnostic: torque is never enabled and nothing
// is written to the servos.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/example/armctl/pkg/arm"
)

func main() {
	fmt.Println("armscan - servo bus scanner")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	cfg := loadConfig()
	fmt.Println()

	arms := findArms()
	if len(arms) == 0 {
		fmt.Println("No servo arms found.")
		fmt.Println("Make sure the arm is connected and powered on.")
		os.Exit(1)
	}

	fmt.Println()
	for _, a := range arms {
		printArm(a, cfg)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("Calibrate and save a config with: armctl setup")
}

func loadConfig() *arm.Config {
	if !arm.ConfigExists() {
		fmt.Printf("No %s found, mapping angles with default calibration.\n", arm.DefaultConfigFile)
		return arm.DefaultConfig()
	}
	cfg, err := arm.LoadConfig()
	if err != nil {
		fmt.Printf("Config unreadable (%v), mapping angles with default calibration.\n", err)
		return arm.DefaultConfig()
	}
	fmt.Printf("Using calibration from %s.\n", arm.DefaultConfigFile)
	return cfg
}

// printArm reads each servo's position once and shows the raw value next
// to the angle it maps to under the loaded calibration.
func printArm(a armInfo, cfg *arm.Config) {
	defer a.bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fmt.Printf("Arm on %s:\n", a.port)
	fmt.Printf("  %-3s %-15s %5s %6s\n", "ID", "JOINT", "RAW", "ANGLE")

	for _, s := range a.servos {
		jc := cfg.Joints[s.ID-1]
		servo := feetech.NewServo(a.bus, s.ID, s.Model)
		raw, err := servo.Position(ctx)
		if err != nil {
			fmt.Printf("  %-3d %-15s read failed: %v\n", s.ID, jc.Name, err)
			continue
		}
		angle := jc.Pot.AngleFromRaw(raw, jc.Min, jc.Max)
		fmt.Printf("  %-3d %-15s %5d %5d°\n", s.ID, jc.Name, raw, angle)
	}
	fmt.Println()
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
