package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"

	"setupdata/internal/downstream"
	"setupdata/internal/parser"
)

// DefaultFile is read from the working directory when no --config flag is given.
const DefaultFile = "setupdata.ini"

// DefaultStructFile is the struct file the tool operates on when no path is given.
const DefaultStructFile = "ProjectStaticSetupStruct.h"

// Config holds the settings of one invocation.
type Config struct {
	StructFile          string
	Sentinel            string
	ManifestPath        string // Empty disables the layout manifest
	ReportPath          string // Empty disables the offset report
	AssumeYes           bool   // Skip the acknowledgment prompt
	FactoryDefaultsFile string
	SDLFile             string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		StructFile:          DefaultStructFile,
		Sentinel:            parser.DefaultSentinel,
		FactoryDefaultsFile: downstream.DefaultFactoryDefaultsFile,
		SDLFile:             downstream.DefaultSDLFile,
	}
}

// Load reads settings from an ini file on top of Default. Keys in the root section:
// struct_file, sentinel, manifest, report, assume_yes. The [downstream] section holds
// factory_defaults and sdl.
func Load(path string) (Config, error) {
	c := Default()
	// Sentinels end in ';', so only " ;" and " #" start an inline comment.
	f, err := ini.LoadSources(ini.LoadOptions{SpaceBeforeInlineComment: true}, path)
	if err != nil {
		return c, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	root := f.Section("")
	c.StructFile = root.Key("struct_file").MustString(c.StructFile)
	c.Sentinel = root.Key("sentinel").MustString(c.Sentinel)
	c.ManifestPath = root.Key("manifest").String()
	c.ReportPath = root.Key("report").String()
	c.AssumeYes = root.Key("assume_yes").MustBool(false)

	ds := f.Section("downstream")
	c.FactoryDefaultsFile = ds.Key("factory_defaults").MustString(c.FactoryDefaultsFile)
	c.SDLFile = ds.Key("sdl").MustString(c.SDLFile)
	return c, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
