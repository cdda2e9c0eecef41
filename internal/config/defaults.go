package config

const (
	defaultLibraryDir       = "~/photos/library"
	defaultLogDir           = "~/.local/share/photosort/logs"
	defaultSidecarExtension = ".AAE"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// defaultSkipMarkers lists path components whose presence excludes a file from
// directory walks. "@eaDir" is the Synology thumbnail cache.
var defaultSkipMarkers = []string{"@eaDir"}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Sorter: Sorter{
			SidecarExtension: defaultSidecarExtension,
			SkipMarkers:      append([]string(nil), defaultSkipMarkers...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
