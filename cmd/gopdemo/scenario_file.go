package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// scenarioFile is the HuJSON-decoded shape of a scenario document handed to
// `gopdemo scenario`, grounded on the teacher's own config.go (which loads
// its own config file the same way: read bytes, hujson.Standardize, then
// json.Unmarshal the standardized form).
type scenarioFile struct {
	Faults []struct {
		Target string `json:"target"`
		Bit    int    `json:"bit"`
	} `json:"faults"`
}

// runScenarioFile loads a HuJSON scenario file naming which built-in
// targets to fault-inject, then runs the corresponding built-in scenario
// for each one named. Each entry's bit field is decoded but not used: every
// named target gets its built-in scenario's own fixed fault.
func runScenarioFile(path string) ([]scenarioResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	var sf scenarioFile
	if err := json.Unmarshal(standardized, &sf); err != nil {
		return nil, fmt.Errorf("decoding scenario file: %w", err)
	}

	var results []scenarioResult
	for _, f := range sf.Faults {
		if !knownTarget(f.Target) {
			return nil, fmt.Errorf("unknown target %q", f.Target)
		}
		results = append(results, runNamedScenario(f.Target))
	}
	return results, nil
}

func runNamedScenario(target string) scenarioResult {
	switch target {
	case "rectangle":
		return scenarioRectangle()
	case "square":
		return scenarioSquare()
	case "circle-instances":
		return scenarioCircleInstances()
	default:
		return scenarioResult{Target: target, Verdict: "skipped", Note: "no built-in fault injector for this target"}
	}
}
