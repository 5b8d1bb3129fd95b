package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a supported model file format.
type Format uint8

const (
	FormatPMX Format = iota
	FormatPMD
)

func (f Format) String() string {
	if f == FormatPMD {
		return "pmd"
	}
	return "pmx"
}

// ParseFormat accepts "pmx" or "pmd", case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pmx":
		return FormatPMX, nil
	case "pmd":
		return FormatPMD, nil
	}
	return FormatPMX, fmt.Errorf("unknown model format %q", s)
}

// FormatOf infers the format from a model file name.
func FormatOf(file string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(file), "."))
}
