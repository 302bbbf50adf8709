package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// StageFile is the file name LCAByg imports from each stage folder.
const StageFile = "Stage.json"

// ReadStages reads a stage file (JSON or YAML).
// The format parameter can be "json", "yaml", or "auto" (default).
// If "auto", the format is determined from the file extension.
func ReadStages(path string, format string) ([]lcabyg.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	actual, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	var nodes []lcabyg.Node
	if actual == "yaml" {
		err = yaml.Unmarshal(data, &nodes)
	} else {
		err = json.Unmarshal(data, &nodes)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return nodes, nil
}

// WriteStage writes one stage wrapped in its node list.
// The format parameter can be "json", "yaml", or "auto" (default).
// If "auto", the format is determined from the file extension.
func WriteStage(s lcabyg.Stage, outputPath string, format string) error {
	actual, err := resolveFormat(outputPath, format)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(outputPath))
	switch actual {
	case "yaml":
		if ext != ".yaml" && ext != ".yml" {
			return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
		}
	case "json":
		if ext != ".json" {
			return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
		}
	}

	var data []byte
	if actual == "yaml" {
		data, err = yaml.Marshal(lcabyg.Wrap(s))
	} else {
		data, err = json.MarshalIndent(lcabyg.Wrap(s), "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func resolveFormat(path, format string) (string, error) {
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return "yaml", nil
		default:
			return "json", nil
		}
	case "json", "yaml":
		return actual, nil
	case "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported stage format: %q", format)
	}
}

// StageFileName returns the stage file name for format.
func StageFileName(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		return "Stage.yaml"
	default:
		return StageFile
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9 .]`)

// SanitizeName keeps letters, digits, spaces and dots, then replaces spaces
// with underscores.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	return strings.ReplaceAll(s, " ", "_")
}

// NextFolder returns the first of dir/base, dir/base_1, dir/base_2, ...
// that does not exist yet.
func NextFolder(dir, base string) string {
	return nextFree(dir, base, "")
}

// NextFile is NextFolder for files with extension ext (".json").
func NextFile(dir, base, ext string) string {
	return nextFree(dir, base, ext)
}

func nextFree(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	for i := 1; exists(p); i++ {
		p = filepath.Join(dir, base+"_"+strconv.Itoa(i)+ext)
	}
	return p
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// WriteStageFolder writes every stage of one dataset under a fresh folder
// named after the dataset: <dir>/<name>[_n]/<stage>/Stage.json. It returns
// the folder it created.
func WriteStageFolder(dir, name string, stages []lcabyg.Stage, format string) (string, error) {
	base := SanitizeName(name)
	if base == "" {
		base = "stage"
	}
	for _, s := range stages {
		if !isPathElement(s.Stage) {
			return "", fmt.Errorf("module code %q is not usable as a folder name", s.Stage)
		}
	}
	folder := NextFolder(dir, base)
	for _, s := range stages {
		p := filepath.Join(folder, s.Stage, StageFileName(format))
		if err := WriteStage(s, p, format); err != nil {
			return "", err
		}
	}
	return folder, nil
}

// isPathElement reports whether name is a single path element that stays
// inside its parent folder.
func isPathElement(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\:`) && filepath.Base(name) == name
}

// SaveRaw writes a fetched dataset verbatim to <dir>/<name>[_n].json and
// returns the path.
func SaveRaw(dir, name string, data []byte) (string, error) {
	base := SanitizeName(name)
	if base == "" {
		base = "dataset"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	p := NextFile(dir, base, ".json")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}
