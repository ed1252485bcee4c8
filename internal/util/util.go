package util

import (
	"eta2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Eta: config.EtaRESTConfig{
			Host:                  "-.-.-.-",
			Port:                  8080,
			RequestTimeoutMillis:  30000,
			MaxConcurrentRequests: 3,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "eta2mqtt",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
