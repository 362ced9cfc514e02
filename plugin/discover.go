package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/riffdaw/engine/model"
)

// DiscoverPaths reads the colon-separated search path environment
// variable for format (VST_PATH for VST2/VST3, CLAP_PATH for CLAP).
func DiscoverPaths(format model.PluginFormat) []string {
	varName := "VST_PATH"
	if format == model.FormatCLAP {
		varName = "CLAP_PATH"
	}
	raw := os.Getenv(varName)
	if raw == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(raw, string(filepath.ListSeparator)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ScannedPlugin is one line of the host app's plugin-scanner output, in
// the "##########NAME:FILE:UID:CATEGORY(1=FX,2=INSTR):FORMAT" line
// format. The scanner binary itself is an external collaborator; this
// only parses its output.
type ScannedPlugin struct {
	Name         string
	File         string
	UID          string
	IsInstrument bool
	Format       model.PluginFormat
}

const scannerLinePrefix = "##########"

// ParseScannerLine parses one scanner output line. ok is false if line
// does not carry the scanner prefix (e.g. a stray log line interleaved on
// the same stdout).
func ParseScannerLine(line string) (ScannedPlugin, bool, error) {
	if !strings.HasPrefix(line, scannerLinePrefix) {
		return ScannedPlugin{}, false, nil
	}
	fields := strings.Split(strings.TrimPrefix(line, scannerLinePrefix), ":")
	if len(fields) != 5 {
		return ScannedPlugin{}, true, fmt.Errorf("plugin: malformed scanner line %q", line)
	}
	category, err := strconv.Atoi(fields[3])
	if err != nil {
		return ScannedPlugin{}, true, fmt.Errorf("plugin: malformed scanner category in %q: %w", line, err)
	}
	var format model.PluginFormat
	switch fields[4] {
	case "VST2":
		format = model.FormatVST2
	case "VST3":
		format = model.FormatVST3
	case "CLAP":
		format = model.FormatCLAP
	default:
		return ScannedPlugin{}, true, fmt.Errorf("plugin: unknown scanner format %q in %q", fields[4], line)
	}
	return ScannedPlugin{
		Name:         fields[0],
		File:         fields[1],
		UID:          fields[2],
		IsInstrument: category == 2,
		Format:       format,
	}, true, nil
}
