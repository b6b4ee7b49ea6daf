package prometheus

import prom "github.com/prometheus/client_golang/prometheus"

func lookupCounterValue(registry *prom.Registry, metricName string, labels map[string]string) (float64, bool, error) {
	metricFamilies, err := registry.Gather()
	if err != nil {
		return 0, false, err
	}

	for _, family := range metricFamilies {
		if family.GetName() != metricName {
			continue
		}

		for _, metric := range family.GetMetric() {
			metricLabels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				metricLabels[pair.GetName()] = pair.GetValue()
			}

			if !labelsMatch(metricLabels, labels) {
				continue
			}
			if metric.GetCounter() == nil {
				return 0, false, nil
			}
			return metric.GetCounter().GetValue(), true, nil
		}
	}

	return 0, false, nil
}

func labelsMatch(metricLabels, labels map[string]string) bool {
	for labelName, labelValue := range labels {
		if metricLabels[labelName] != labelValue {
			return false
		}
	}

	return true
}
