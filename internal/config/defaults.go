package config

const (
	defaultMusicDir        = "Music"
	defaultInput           = "youtube_links.json"
	defaultOutput          = "processed_music.json"
	defaultMatchThreshold  = 0.3
	defaultFFTSize         = 2048
	defaultHopLength       = 512
	defaultMinBPM          = 30
	defaultMaxBPM          = 300
	defaultStartBPM        = 120
	defaultTuningA4        = 440
	defaultWorkers         = 1
	defaultOutputFormat    = "json"
	defaultOutputIndent    = 4
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	envMusicDir            = "CADENCE_MUSIC_DIR"
	envInput               = "CADENCE_INPUT"
	envOutput              = "CADENCE_OUTPUT"
	outputFormatJSON       = "json"
	outputFormatSQLite     = "sqlite"
	maxWorkers             = 64
	maxOutputIndent        = 8
	minFFTSize             = 256
	maxEntryTimeoutSeconds = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MusicDir: defaultMusicDir,
			Input:    defaultInput,
			Output:   defaultOutput,
		},
		Matching: Matching{
			Threshold: defaultMatchThreshold,
		},
		Analysis: Analysis{
			FFTSize:   defaultFFTSize,
			HopLength: defaultHopLength,
			MinBPM:    defaultMinBPM,
			MaxBPM:    defaultMaxBPM,
			StartBPM:  defaultStartBPM,
			TuningA4:  defaultTuningA4,
		},
		Batch: Batch{
			Workers: defaultWorkers,
		},
		Output: Output{
			Format: defaultOutputFormat,
			Indent: defaultOutputIndent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
