// Package armctl provides a serial command controller for 6-DOF hobby
// servo robot arms.
//
// A host (GUI, script or plain terminal) drives the arm over a line-based
// ASCII protocol: joint moves, homing, teach-in recording and stored
// sequence playback. The controller steps every joint one degree per tick
// toward its target, so motion stays slow and predictable.
//
// # Installation
//
//	go install github.com/example/armctl/cmd/armctl@latest
//
// # Usage
//
// First, run setup to detect the arm and calibrate its position sensors:
//
//	armctl setup
//
// Then start the controller:
//
//	armctl serve
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/armctl: CLI with serve, setup and console commands
//   - cmd/armscan: servo bus diagnostic
//   - pkg/arm: joint model, calibration, configuration and hardware
//   - pkg/protocol: command parsing and response formatting
//   - pkg/motion: target stepping and sequence playback
//   - pkg/teach: teach-in sampling and recording
//   - pkg/store: sequence persistence (in-memory and sqlite)
//   - pkg/control: the command loop tying it all together
package armctl
