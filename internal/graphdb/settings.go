package graphdb

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Setting keys understood by the embedded database.
const (
	SettingPageCacheMemory  = "dbms.memory.pagecache.size"
	SettingShutdownTimeout  = "dbms.shutdown_transaction_end_timeout"
	SettingBoltType         = "dbms.connector.bolt.type"
	SettingBoltEnabled      = "dbms.connector.bolt.enabled"
	SettingInternalLogLevel = "dbms.logs.debug.level"
	SettingServerID         = "ha.server_id"
	SettingInitialHosts     = "ha.initial_hosts"
	SettingJMXPort          = "jmx.port"
	SettingReadOnly         = "dbms.read_only"
)

var settingDescriptions = map[string]string{
	SettingPageCacheMemory:  "The amount of memory to use for mapping the store files, in bytes (or kilobytes with the 'k' suffix, megabytes with 'm' and gigabytes with 'g').",
	SettingShutdownTimeout:  "The maximum amount of time to wait for running transactions to complete before allowing initiated database shutdown to continue.",
	SettingBoltType:         "Connector type.",
	SettingBoltEnabled:      "Enable this connector.",
	SettingInternalLogLevel: "Debug log level threshold.",
	SettingServerID:         "Id for a cluster instance. Must be unique within the cluster.",
	SettingInitialHosts:     "A comma-separated list of other members of the cluster to join.",
	SettingJMXPort:          "Port the management server listens on.",
	SettingReadOnly:         "Only allow read operations from this instance.",
}

// ClusterTestConfig is the configuration used to run a single cluster
// member inside one process: a tiny page cache, a short shutdown timeout and
// no network connector.
func ClusterTestConfig() map[string]string {
	return map[string]string{
		SettingPageCacheMemory:  "8m",
		SettingShutdownTimeout:  "1s",
		SettingBoltType:         "BOLT",
		SettingBoltEnabled:      "false",
		SettingInternalLogLevel: "DEBUG",
	}
}

// DocumentationConfig extends ClusterTestConfig with a cluster identity and
// a management port so that every bean the database can publish is present.
func DocumentationConfig() map[string]string {
	m := ClusterTestConfig()
	m[SettingServerID] = "1"
	m[SettingInitialHosts] = ":5001"
	m[SettingJMXPort] = "9913"
	return m
}

// Settings is the parsed form of the configuration map.
type Settings struct {
	raw             map[string]string
	PageCacheBytes  int64
	ShutdownTimeout time.Duration
	BoltEnabled     bool
	ReadOnly        bool
	// ServerID is set when the instance runs as a cluster member.
	ServerID     int
	Clustered    bool
	InitialHosts []string
	// JMXPort is zero when no remote management server is configured.
	JMXPort int
}

const (
	defaultPageCacheBytes  = 8 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// ParseSettings validates raw and fills in defaults.
func ParseSettings(raw map[string]string) (Settings, error) {
	s := Settings{
		raw:             make(map[string]string, len(raw)),
		PageCacheBytes:  defaultPageCacheBytes,
		ShutdownTimeout: defaultShutdownTimeout,
		BoltEnabled:     true,
	}
	for k, v := range raw {
		s.raw[k] = v
	}

	var err error
	if v, ok := raw[SettingPageCacheMemory]; ok {
		if s.PageCacheBytes, err = ParseByteSize(v); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", SettingPageCacheMemory, err)
		}
	}
	if v, ok := raw[SettingShutdownTimeout]; ok {
		if s.ShutdownTimeout, err = time.ParseDuration(v); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", SettingShutdownTimeout, err)
		}
	}
	if v, ok := raw[SettingBoltEnabled]; ok {
		if s.BoltEnabled, err = strconv.ParseBool(v); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", SettingBoltEnabled, err)
		}
	}
	if v, ok := raw[SettingReadOnly]; ok {
		if s.ReadOnly, err = strconv.ParseBool(v); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", SettingReadOnly, err)
		}
	}
	if v, ok := raw[SettingServerID]; ok {
		if s.ServerID, err = strconv.Atoi(v); err != nil || s.ServerID < 0 {
			return Settings{}, fmt.Errorf("%s: invalid server id %q", SettingServerID, v)
		}
		s.Clustered = true
	}
	if v, ok := raw[SettingInitialHosts]; ok {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				s.InitialHosts = append(s.InitialHosts, h)
			}
		}
	}
	if s.Clustered && len(s.InitialHosts) == 0 {
		return Settings{}, fmt.Errorf("%s is required when %s is set", SettingInitialHosts, SettingServerID)
	}
	if v, ok := raw[SettingJMXPort]; ok {
		if s.JMXPort, err = strconv.Atoi(v); err != nil || s.JMXPort <= 0 || s.JMXPort > 65535 {
			return Settings{}, fmt.Errorf("%s: invalid port %q", SettingJMXPort, v)
		}
	}
	return s, nil
}

// Raw returns the value of a setting as configured.
func (s Settings) Raw(key string) (string, bool) {
	v, ok := s.raw[key]
	return v, ok
}

// ParseByteSize parses sizes such as "8m", "512k", "1g" or "4096".
func ParseByteSize(v string) (int64, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return 0, fmt.Errorf("empty size")
	}
	mult := int64(1)
	switch v[len(v)-1] {
	case 'k':
		mult = 1 << 10
	case 'm':
		mult = 1 << 20
	case 'g':
		mult = 1 << 30
	}
	if mult != 1 {
		v = v[:len(v)-1]
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", v)
	}
	return n * mult, nil
}
