package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"wallaby/common"

	"github.com/pelletier/go-toml"
)

// BuildProfile represents the settings of a single build.
type BuildProfile struct {
	// Target selects the back end: "svm", "llvm" or "wasm".
	Target string

	// OutDir is the directory compilation output is written to.
	OutDir string

	// Samples lists the names of the sample models to build.  Empty means
	// every registered sample.
	Samples []string

	// LogLevel is the log level name the build runs under.
	LogLevel string
}

// tomlProfile represents a build profile as it is encoded in TOML.
type tomlProfile struct {
	Target   string   `toml:"target"`
	OutDir   string   `toml:"out-dir"`
	Samples  []string `toml:"samples"`
	LogLevel string   `toml:"loglevel"`
}

// defaultProfile returns the profile used when no build file is given.
func defaultProfile() *BuildProfile {
	return &BuildProfile{
		Target:   "svm",
		OutDir:   ".",
		LogLevel: "verbose",
	}
}

// LoadProfile loads and validates a build profile.  `path` is either the
// profile file itself or a directory containing one under the standard name.
func LoadProfile(path string) (*BuildProfile, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open build profile at `%s`: %w", path, err)
	}

	if finfo.IsDir() {
		path = filepath.Join(path, common.BuildFileName)
	}

	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading build profile at `%s`: %w", path, err)
	}

	tomlProf := &tomlProfile{}
	if err := toml.Unmarshal(buff, tomlProf); err != nil {
		return nil, fmt.Errorf("error parsing build profile at `%s`: %w", path, err)
	}

	prof := defaultProfile()

	if tomlProf.Target != "" {
		if !validTargets[tomlProf.Target] {
			return nil, fmt.Errorf("invalid target `%s` in build profile", tomlProf.Target)
		}

		prof.Target = tomlProf.Target
	}

	if tomlProf.OutDir != "" {
		prof.OutDir = tomlProf.OutDir
	}

	if tomlProf.LogLevel != "" {
		if !validLogLevels[tomlProf.LogLevel] {
			return nil, fmt.Errorf("invalid log level `%s` in build profile", tomlProf.LogLevel)
		}

		prof.LogLevel = tomlProf.LogLevel
	}

	prof.Samples = tomlProf.Samples
	return prof, nil
}

var validTargets = map[string]bool{
	"svm":  true,
	"llvm": true,
	"wasm": true,
}

var validLogLevels = map[string]bool{
	"silent":  true,
	"error":   true,
	"warn":    true,
	"verbose": true,
}
