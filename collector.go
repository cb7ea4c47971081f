package ygggo_mongo

import (
	"github.com/prometheus/client_golang/prometheus"
)

var aliasStatusDesc = prometheus.NewDesc(
	"ygggo_mongo_alias_status",
	"Lifecycle status of each registered alias (1 for the current status).",
	[]string{"alias", "driver_version", "status"},
	nil,
)

var allStatuses = []Status{StatusPending, StatusConnected, StatusDisconnected}

// Collector exports the status of every alias of the given registries.
type Collector struct {
	services []Service
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over services.
func NewCollector(services ...Service) *Collector {
	return &Collector{services: services}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- aliasStatusDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, svc := range c.services {
		version := svc.Version().String()
		for _, alias := range svc.Aliases() {
			meta, err := svc.GetMetadata(alias)
			if err != nil {
				continue
			}
			for _, s := range allStatuses {
				v := 0.0
				if meta.Status == s {
					v = 1
				}
				ch <- prometheus.MustNewConstMetric(aliasStatusDesc, prometheus.GaugeValue, v, alias, version, string(s))
			}
		}
	}
}
