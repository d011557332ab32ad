package utils

import (
	"time"

	"github.com/sater-ops/df-agent/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate, empty for plain TCP
	} `yaml:"mqtt"`

	Agent struct {
		ID             string `yaml:"id"`              // Agent identifier used in health messages
		DefaultMission string `yaml:"default_mission"` // Mission ID assumed for reports that omit one
		PresetsFile    string `yaml:"presets_file"`    // Path to the station presets JSON file
	} `yaml:"agent"`

	Engine struct {
		RayLengthKm       float64 `yaml:"ray_length_km"`       // Cap on bearing ray length
		ConeHalfAngleDeg  float64 `yaml:"cone_half_angle_deg"` // Default error-cone half-angle
		ExactSeparationKm float64 `yaml:"exact_separation_km"` // Two-bearing intersection tolerance
		ParallelWarnDeg   float64 `yaml:"parallel_warn_deg"`   // Near-parallel bearing warning threshold
	} `yaml:"engine"`

	Services struct {
		ReportIngest struct {
			Enabled bool   `yaml:"enabled"` // Enable/disable bearing report ingest
			Topic   string `yaml:"topic"`   // MQTT topic for bearing reports
			QOS     int    `yaml:"qos"`     // MQTT QoS level for bearing reports
		} `yaml:"report_ingest"`

		Snapshot struct {
			Enabled    bool          `yaml:"enabled"`      // Enable/disable snapshot publishing
			Topic      string        `yaml:"topic"`        // Base MQTT topic for mission snapshots
			QOS        int           `yaml:"qos"`          // MQTT QoS level for snapshots
			Interval   time.Duration `yaml:"interval"`     // Heartbeat interval between full publishes
			MapsAPIKey string        `yaml:"maps_api_key"` // Google Maps key for fix locality, empty disables geocoding
		} `yaml:"snapshot"`

		OperatorPosition struct {
			Enabled           bool          `yaml:"enabled"`         // Enable/disable the operator GPS feed
			Callsign          string        `yaml:"callsign"`        // Callsign of the operator's own station
			Mission           string        `yaml:"mission"`         // Mission the operator station belongs to
			Interval          time.Duration `yaml:"interval"`        // Interval between GPS reads
			GPSDevicePort     string        `yaml:"gps_device_port"` // Serial port of the GPS receiver
			GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`   // Baud rate for the GPS receiver
		} `yaml:"operator_position"`

		Health struct {
			Enabled  bool          `yaml:"enabled"`  // Enable/disable health publishing
			Topic    string        `yaml:"topic"`    // MQTT topic for health messages
			QOS      int           `yaml:"qos"`      // MQTT QoS level for health messages
			Interval time.Duration `yaml:"interval"` // Interval between health messages
		} `yaml:"health"`
	} `yaml:"services"`
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
