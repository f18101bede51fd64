package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/errors"
	"github.com/robotkit/hal/lifecycle"
	"github.com/robotkit/hal/mockhw"
	"github.com/robotkit/hal/resource"
	"github.com/robotkit/hal/stats"
)

func main() {
	var (
		descFile    = pflag.StringP("description", "d", "", "Path to hardware description YAML")
		rate        = pflag.Uint("rate", 100, "Control loop rate in Hz")
		duration    = pflag.Duration("duration", 10*time.Second, "How long to run the loop")
		interactive = pflag.BoolP("interactive", "i", false, "Interactive dashboard")
		verbose     = pflag.BoolP("verbose", "v", false, "Verbose logging")
	)
	pflag.Parse()

	if *descFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: halrun -d <description.yaml> [--rate 100] [--duration 10s]")
		fmt.Fprintln(os.Stderr, "       halrun -d <description.yaml> -i  (interactive dashboard)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*descFile, *rate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*descFile, *rate, *duration, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(descFile string, rate uint, duration time.Duration, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	mgr, err := loadManager(descFile, rate, logger)
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	counts := mgr.ComponentCounts()
	fmt.Printf("Description: %s\n", descFile)
	fmt.Printf("Components: %d actuators, %d sensors, %d systems\n",
		counts.Actuators, counts.Sensors, counts.Systems)
	fmt.Printf("State interfaces: %d\n", len(mgr.StateInterfaceNames()))
	fmt.Printf("Command interfaces: %d\n", len(mgr.CommandInterfaceNames()))

	for _, name := range mgr.ComponentNames() {
		if err := mgr.SetComponentState(name, lifecycle.Active); err != nil {
			return fmt.Errorf("activate %s: %w", name, err)
		}
	}

	period := time.Second / time.Duration(rate)
	fmt.Printf("\nRunning at %d Hz for %s...\n", rate, duration)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	deadline := time.Now().Add(duration)
	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		if ret, stopped := mgr.Read(now, period); ret != hal.OK {
			fmt.Printf("read stopped components: %v\n", stopped)
		}
		mgr.EnforceCommandLimits(period)
		if ret, stopped := mgr.Write(now, period); ret != hal.OK {
			fmt.Printf("write stopped components: %v\n", stopped)
		}
	}

	fmt.Println()
	printStatus(mgr)
	return nil
}

func loadManager(descFile string, rate uint, logger *zap.Logger) (*resource.Manager, error) {
	data, err := os.ReadFile(descFile)
	if err != nil {
		return nil, errors.Load("reading description file", err)
	}
	mgr := resource.New(resource.Options{
		Registry:   mockhw.Registry(),
		Logger:     logger,
		UpdateRate: rate,
	})
	if err := mgr.LoadComponents(data); err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	return mgr, nil
}

func printStatus(mgr *resource.Manager) {
	fmt.Printf("%-14s %-9s %-13s %5s %6s %12s %12s\n",
		"COMPONENT", "TYPE", "STATE", "RATE", "ASYNC", "READ AVG", "WRITE AVG")
	status := mgr.ComponentStatus()
	for _, name := range mgr.ComponentNames() {
		st := status[name]
		fmt.Printf("%-14s %-9s %-13s %5d %6v %12s %12s\n",
			st.Name, st.Type, st.State.Label, st.RWRate, st.Async,
			fmtExec(st.ReadExecution), fmtExec(st.WriteExecution))
	}
}

func fmtExec(s stats.Statistics) string {
	if math.IsNaN(s.Average) {
		return "-"
	}
	return fmt.Sprintf("%.1fµs", s.Average*1e6)
}
