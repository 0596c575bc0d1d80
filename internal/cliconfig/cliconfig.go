// Package cliconfig loads optional defaults for the CLI's persistent flags
// from an ini file, the way the teacher's server/conf package layers an
// ini.File under command-line arguments.
package cliconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Defaults holds the values an ini file may supply for flags the user did
// not pass explicitly. Zero values mean "not set".
type Defaults struct {
	BaseDir  string
	LogLevel string
}

// Load reads the [minidb] section of an ini file at path. An empty path
// is not an error: it simply yields zero Defaults, since --config is
// optional. A non-empty path that names no existing file is an error.
func Load(path string) (Defaults, error) {
	if path == "" {
		return Defaults{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return Defaults{}, errors.Wrapf(err, "cliconfig: stat %s", path)
	}

	f, err := ini.Load(path)
	if err != nil {
		return Defaults{}, errors.Wrapf(err, "cliconfig: parse %s", path)
	}

	section := f.Section("minidb")
	return Defaults{
		BaseDir:  section.Key("base_dir").MustString(""),
		LogLevel: section.Key("log_level").MustString(""),
	}, nil
}
