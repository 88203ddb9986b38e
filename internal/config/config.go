package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application settings.
type Config struct {
	Database DatabaseConfig
	MQTT     MQTTConfig
	HTTP     HTTPConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	QueryTimeout time.Duration
}

type MQTTConfig struct {
	BrokerURL            string
	ClientIDPrefix       string
	Keepalive            time.Duration
	ConnectTimeout       time.Duration
	ReconnectPeriod      time.Duration
	MaxReconnectAttempts int
	PublishTimeout       time.Duration
	SubscribeTimeout     time.Duration
}

type HTTPConfig struct {
	Port int
}

// Default returns a config with the broker and database timings the
// dashboard ships with. Values read from the file override these.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			QueryTimeout: 5 * time.Second,
		},
		MQTT: MQTTConfig{
			ClientIDPrefix:       "admin_dashboard",
			Keepalive:            30 * time.Second,
			ConnectTimeout:       5 * time.Second,
			ReconnectPeriod:      5 * time.Second,
			MaxReconnectAttempts: 5,
			PublishTimeout:       5 * time.Second,
			SubscribeTimeout:     5 * time.Second,
		},
		HTTP: HTTPConfig{Port: 3000},
	}
}

// Load reads a yaml-subset config file: top-level sections ("database:",
// "mqtt:", "http:") followed by indented "key: value" pairs. Unknown keys
// are ignored.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the configuration file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = value
			case "port":
				cfg.Database.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.Database.User = value
			case "password":
				cfg.Database.Password = value
			case "database":
				cfg.Database.Database = value
			case "query_timeout_seconds":
				cfg.Database.QueryTimeout = seconds(value, cfg.Database.QueryTimeout)
			}
		case "mqtt":
			switch key {
			case "broker_url":
				cfg.MQTT.BrokerURL = value
			case "client_id_prefix":
				cfg.MQTT.ClientIDPrefix = value
			case "keepalive_seconds":
				cfg.MQTT.Keepalive = seconds(value, cfg.MQTT.Keepalive)
			case "connect_timeout_seconds":
				cfg.MQTT.ConnectTimeout = seconds(value, cfg.MQTT.ConnectTimeout)
			case "reconnect_period_seconds":
				cfg.MQTT.ReconnectPeriod = seconds(value, cfg.MQTT.ReconnectPeriod)
			case "max_reconnect_attempts":
				cfg.MQTT.MaxReconnectAttempts, _ = strconv.Atoi(value)
			case "publish_timeout_seconds":
				cfg.MQTT.PublishTimeout = seconds(value, cfg.MQTT.PublishTimeout)
			case "subscribe_timeout_seconds":
				cfg.MQTT.SubscribeTimeout = seconds(value, cfg.MQTT.SubscribeTimeout)
			}
		case "http":
			if key == "port" {
				cfg.HTTP.Port, _ = strconv.Atoi(value)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if cfg.MQTT.BrokerURL == "" {
		return nil, fmt.Errorf("mqtt.broker_url is required")
	}

	return cfg, nil
}

func seconds(value string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
