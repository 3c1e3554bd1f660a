package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents dmrframerd's configuration, loaded from an INI-style file.
type Config struct {
	filename string

	// Sync section: tuning for the burst framer's sync field matching.
	syncSearchThreshold int
	syncLockThreshold   int
	symbolRate          uint32

	// Input section: where the dibit stream comes from.
	inputMode       string
	inputAddress    string
	inputPort       uint32
	inputSymbolFile string

	// ChannelConfig section: the sqlite-backed store of known channel/frequency assignments.
	channelConfigEnabled   bool
	channelConfigPath      string
	channelConfigSyncURL   string
	channelConfigSyncHours uint32
	channelConfigCacheSize uint32
	channelConfigDebug     bool

	// Diagnostics section: the sqlite-backed session/event log.
	diagnosticsEnabled bool
	diagnosticsPath    string
	diagnosticsDebug   bool

	// Log section.
	logDisplayLevel uint32
	logFileLevel    uint32
	logFilePath     string
	logFileRoot     string
}

// NewConfig creates a configuration with reasonable defaults, to be overridden by Load.
func NewConfig(filename string) *Config {
	return &Config{
		filename: filename,

		syncSearchThreshold: 3,
		syncLockThreshold:   6,
		symbolRate:          4800,

		inputMode: "udp",
		inputPort: 62031,

		channelConfigEnabled:   true,
		channelConfigPath:      "data/channels.db",
		channelConfigSyncHours: 24,
		channelConfigCacheSize: 1000,

		diagnosticsEnabled: true,
		diagnosticsPath:    "data/diagnostics.db",

		logDisplayLevel: 1,
		logFileLevel:    1,
		logFileRoot:     "dmrframerd",
	}
}

// Load loads configuration from the file named when Config was constructed.
func (c *Config) Load() error {
	file, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %v", c.filename, err)
	}
	defer file.Close()

	return c.parseINI(file)
}

// LoadFromString loads configuration from an in-memory string, useful for testing.
func (c *Config) LoadFromString(data string) error {
	return c.parseINIScanner(bufio.NewScanner(strings.NewReader(data)))
}

func (c *Config) parseINI(file *os.File) error {
	return c.parseINIScanner(bufio.NewScanner(file))
}

func (c *Config) parseINIScanner(scanner *bufio.Scanner) error {
	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if line[0] == '[' && line[len(line)-1] == ']' {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Sync":
			c.parseSyncSection(key, value)
		case "Input":
			c.parseInputSection(key, value)
		case "ChannelConfig":
			c.parseChannelConfigSection(key, value)
		case "Diagnostics":
			c.parseDiagnosticsSection(key, value)
		case "Log":
			c.parseLogSection(key, value)
		}
	}

	return scanner.Err()
}

func (c *Config) parseSyncSection(key, value string) {
	switch key {
	case "SearchThreshold":
		if v, err := strconv.Atoi(value); err == nil {
			c.syncSearchThreshold = v
		}
	case "LockThreshold":
		if v, err := strconv.Atoi(value); err == nil {
			c.syncLockThreshold = v
		}
	case "SymbolRate":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.symbolRate = uint32(v)
		}
	}
}

func (c *Config) parseInputSection(key, value string) {
	switch key {
	case "Mode":
		c.inputMode = value
	case "Address":
		c.inputAddress = value
	case "Port":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.inputPort = uint32(v)
		}
	case "SymbolFile":
		c.inputSymbolFile = value
	}
}

func (c *Config) parseChannelConfigSection(key, value string) {
	switch key {
	case "Enabled":
		c.channelConfigEnabled = c.parseBool(value)
	case "Path":
		c.channelConfigPath = value
	case "SyncURL":
		c.channelConfigSyncURL = value
	case "SyncHours":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.channelConfigSyncHours = uint32(v)
		}
	case "CacheSize":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.channelConfigCacheSize = uint32(v)
		}
	case "Debug":
		c.channelConfigDebug = c.parseBool(value)
	}
}

func (c *Config) parseDiagnosticsSection(key, value string) {
	switch key {
	case "Enabled":
		c.diagnosticsEnabled = c.parseBool(value)
	case "Path":
		c.diagnosticsPath = value
	case "Debug":
		c.diagnosticsDebug = c.parseBool(value)
	}
}

func (c *Config) parseLogSection(key, value string) {
	switch key {
	case "DisplayLevel":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.logDisplayLevel = uint32(v)
		}
	case "FileLevel":
		if v, err := strconv.ParseUint(value, 10, 32); err == nil {
			c.logFileLevel = uint32(v)
		}
	case "FilePath":
		c.logFilePath = value
	case "FileRoot":
		c.logFileRoot = value
	}
}

func (c *Config) parseBool(value string) bool {
	return value == "1" || strings.ToLower(value) == "true" || strings.ToLower(value) == "yes"
}

// Getter methods for the Sync section.
func (c *Config) GetSyncSearchThreshold() int { return c.syncSearchThreshold }
func (c *Config) GetSyncLockThreshold() int   { return c.syncLockThreshold }
func (c *Config) GetSymbolRate() uint32       { return c.symbolRate }

// Getter methods for the Input section.
func (c *Config) GetInputMode() string       { return c.inputMode }
func (c *Config) GetInputAddress() string    { return c.inputAddress }
func (c *Config) GetInputPort() uint32       { return c.inputPort }
func (c *Config) GetInputSymbolFile() string { return c.inputSymbolFile }

// Getter methods for the ChannelConfig section.
func (c *Config) GetChannelConfigEnabled() bool     { return c.channelConfigEnabled }
func (c *Config) GetChannelConfigPath() string      { return c.channelConfigPath }
func (c *Config) GetChannelConfigSyncURL() string   { return c.channelConfigSyncURL }
func (c *Config) GetChannelConfigSyncHours() uint32 { return c.channelConfigSyncHours }
func (c *Config) GetChannelConfigCacheSize() uint32 { return c.channelConfigCacheSize }
func (c *Config) GetChannelConfigDebug() bool       { return c.channelConfigDebug }

// Getter methods for the Diagnostics section.
func (c *Config) GetDiagnosticsEnabled() bool { return c.diagnosticsEnabled }
func (c *Config) GetDiagnosticsPath() string  { return c.diagnosticsPath }
func (c *Config) GetDiagnosticsDebug() bool   { return c.diagnosticsDebug }

// Getter methods for the Log section.
func (c *Config) GetLogDisplayLevel() uint32 { return c.logDisplayLevel }
func (c *Config) GetLogFileLevel() uint32    { return c.logFileLevel }
func (c *Config) GetLogFilePath() string     { return c.logFilePath }
func (c *Config) GetLogFileRoot() string     { return c.logFileRoot }
