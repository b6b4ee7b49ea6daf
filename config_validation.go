package gatewaynet

import (
	"errors"
	"reflect"
)

var errNilMetricsFactory = errors.New("metrics factory cannot be nil")

func (c *config) validate() error {
	if isNilInterface(c.logger) {
		return errors.New("logger cannot be nil")
	}
	if isNilInterface(c.metrics) {
		return errors.New("metrics cannot be nil")
	}
	return nil
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
