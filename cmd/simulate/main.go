package main

import (
	"flag" // Command line flags

	"slotgame/internal/config" // Custom package for configuration
	"slotgame/internal/domain" // Importing domain models
	"slotgame/internal/engine" // Slot engine: pool, spin, paylines, simulation

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Offline RTP/volatility simulation for operators. Runs outside the hot play
// path, takes no user locks and writes nothing.
func main() {
	machineID := flag.Uint("machine", 0, "slot machine id to simulate")                        // Target machine
	spins := flag.Int("spins", engine.DefaultSimulationSpins, "number of spins to simulate")   // Batch size
	seed := flag.Int64("seed", 0, "PRNG seed; 0 uses a non-deterministic seed")                // Optional fixed seed
	flag.Parse()

	// A machine must be selected
	if *machineID == 0 {
		logrus.Fatal("missing -machine flag")
	}

	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	var machine domain.SlotMachine // Target machine with its configuration
	// Load the machine together with symbols and custom paylines
	if err := db.Preload("Symbols").Preload("Paylines").First(&machine, *machineID).Error; err != nil {
		logrus.Fatalf("slot machine %d not found: %v", *machineID, err)
	}

	// Build the weighted draw pool; refuse misconfigured machines
	pool, err := engine.BuildPool(machine.Symbols)
	if err != nil {
		logrus.Fatalf("machine %d is not configured correctly: %v", machine.ID, err)
	}

	lines := machine.MaxLines // Simulate across every line the machine offers
	// Cap at the available payline count
	if available := len(machine.Paylines); available > 0 {
		if lines > available {
			lines = available
		}
	} else if lines > engine.DefaultLineCount {
		lines = engine.DefaultLineCount
	}
	paylines, err := engine.ResolvePaylines(machine.Paylines, lines) // Resolved evaluation lines
	if err != nil {
		logrus.Fatalf("machine %d payline configuration is broken: %v", machine.ID, err)
	}

	gen := engine.NewGenerator() // Non-deterministic seed by default
	// A fixed seed makes runs reproducible
	if *seed != 0 {
		gen = engine.NewSeededGenerator(*seed)
	}

	// Run the batch through the production generator and evaluator
	sim := engine.Simulate(gen, pool, machine.Rows, machine.Cols, paylines, engine.PayoutTable(machine.Symbols), *spins)

	// Report the estimate
	logrus.WithFields(logrus.Fields{
		"slot_machine_id": machine.ID,     // Simulated machine
		"machine":         machine.Name,   // Machine display name
		"spins":           sim.Spins,      // Simulated spin count
		"lines":           lines,          // Lines evaluated per spin
		"rtp":             sim.RTP,        // Return-to-player percentage
		"volatility":      sim.Volatility, // Payout standard deviation
	}).Info("Simulation completed")
}
