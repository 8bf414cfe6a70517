// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Template document encodings.
const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Format is a document encoding accepted by Generate.
type Format string

// ErrInvalidFormat is returned by ParseFormat for an unknown encoding.
var ErrInvalidFormat = errors.New("invalid document format")

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCUE, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q (want cue, yaml or toml)", ErrInvalidFormat, s)
	}
}

// Template returns a document with placeholder installer and user settings
// and the given stages.
func Template(firstStage string, stages map[string][]string) *Config {
	m := make(map[string][]string, len(stages))
	for name, tasks := range stages {
		m[name] = slices.Clone(tasks)
	}
	return &Config{
		Installer: Installer{
			SystemDisk: "sda",
			BootDisk:   "sda",
			Hostname:   DefaultHostname,
			Timezone:   DefaultTimezone,
			MountPoint: DefaultMountPoint,
		},
		User: User{
			Name:     "user",
			FullName: "Full Name",
			Email:    "user@example.com",
		},
		Stages: Stages{
			FirstStage: firstStage,
			Map:        m,
		},
	}
}

// Generate renders cfg in the requested encoding. Disks are written back
// as device names.
func Generate(cfg *Config, format Format) ([]byte, error) {
	doc := cfg.document()
	switch format {
	case FormatCUE:
		return []byte(GenerateCUE(doc)), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidFormat, format)
	}
}

func (c *Config) document() *Config {
	doc := *c
	doc.Installer.SystemDisk = filepath.Base(c.Installer.SystemDisk)
	doc.Installer.BootDisk = filepath.Base(c.Installer.BootDisk)
	doc.Path = ""
	return &doc
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// stagehand installation document\n")
	sb.WriteString("// Run 'stagehand list-tasks' for the available task names.\n\n")

	sb.WriteString("installer: {\n")
	fmt.Fprintf(&sb, "\tsystem_disk: %q\n", cfg.Installer.SystemDisk)
	fmt.Fprintf(&sb, "\tboot_disk:   %q\n", cfg.Installer.BootDisk)
	writeOptional(&sb, "hostname", cfg.Installer.Hostname)
	writeOptional(&sb, "timezone", cfg.Installer.Timezone)
	writeOptional(&sb, "mount_point", cfg.Installer.MountPoint)
	writeOptional(&sb, "http_proxy", cfg.Installer.HTTPProxy)
	sb.WriteString("}\n")

	if cfg.User != (User{}) {
		sb.WriteString("\nuser: {\n")
		writeOptional(&sb, "name", cfg.User.Name)
		writeOptional(&sb, "full_name", cfg.User.FullName)
		writeOptional(&sb, "email", cfg.User.Email)
		sb.WriteString("}\n")
	}

	sb.WriteString("\nstages: {\n")
	fmt.Fprintf(&sb, "\tfirst_stage: %q\n", cfg.Stages.FirstStage)
	sb.WriteString("\tmap: {\n")
	for _, name := range cfg.Stages.Names() {
		fmt.Fprintf(&sb, "\t\t%q: [\n", name)
		for _, task := range cfg.Stages.Map[name] {
			fmt.Fprintf(&sb, "\t\t\t%q,\n", task)
		}
		sb.WriteString("\t\t]\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("}\n")

	return sb.String()
}

func writeOptional(sb *strings.Builder, key, value string) {
	if value != "" {
		fmt.Fprintf(sb, "\t%s: %q\n", key, value)
	}
}
