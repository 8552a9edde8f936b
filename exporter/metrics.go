/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics map[string]*prometheus.GaugeVec

func newPlatformMetric(metricName string, docString string, constLabels prometheus.Labels, labelNames []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        metricName,
			Help:        docString,
			ConstLabels: constLabels,
		},
		labelNames,
	)
}

// NewDeviceMetrics builds every gauge group, labelled with the platform name.
func NewDeviceMetrics(platform string) *map[string]*metrics {
	constLabels := prometheus.Labels{"platform": platform}

	var (
		UpMetric = &metrics{
			"up": newPlatformMetric("up", "was the last sensor report of platform-sensors successful.", constLabels, []string{}),
		}

		ThermalMetrics = &metrics{
			"sensorTemperature": newPlatformMetric("platform_thermal_sensor_temperature", "Current onboard sensor temperature reading in Celsius", constLabels, []string{"name", "sensor"}),
		}

		FanMetrics = &metrics{
			"fanTrayPresent": newPlatformMetric("platform_fan_tray_present", "Fan tray presence 1 = PRESENT, 0 = NOT PRESENT", constLabels, []string{"tray"}),
			"fanSpeed":       newPlatformMetric("platform_fan_speed_rpm", "Current fan speed in RPM", constLabels, []string{"tray", "fan", "sensor"}),
			"fanStatus":      newPlatformMetric("platform_fan_status", "Current fan status 1 = OK, 0 = BAD", constLabels, []string{"tray", "fan"}),
			"fanAirflow":     newPlatformMetric("platform_fan_tray_airflow_info", "Fan tray airflow direction", constLabels, []string{"tray", "direction"}),
		}

		PowerMetrics = &metrics{
			"supplyPresent": newPlatformMetric("platform_power_supply_present", "Power supply presence 1 = PRESENT, 0 = NOT PRESENT", constLabels, []string{"psu"}),
			"supplyStatus":  newPlatformMetric("platform_power_supply_status", "Current power supply status 1 = OK, 0 = BAD", constLabels, []string{"psu"}),
			"supplyReading": newPlatformMetric("platform_power_supply_reading", "Power supply sensor reading in the sensor's own unit", constLabels, []string{"psu", "name", "sensor"}),
			"supplyAirflow": newPlatformMetric("platform_power_supply_airflow_info", "Power supply airflow direction", constLabels, []string{"psu", "direction"}),
			"supplyTotal":   newPlatformMetric("platform_power_supply_total_watts", "Total power drawn by all power supplies in watts", constLabels, []string{"sensor"}),
		}

		Metrics = &map[string]*metrics{
			"up":             UpMetric,
			"thermalMetrics": ThermalMetrics,
			"fanMetrics":     FanMetrics,
			"powerMetrics":   PowerMetrics,
		}
	)

	return Metrics
}
