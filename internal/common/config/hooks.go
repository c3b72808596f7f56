package config

import (
	"reflect"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		TrimmedSliceHookFunc(),
		HomeDirHookFunc(),
	)),
}

// TrimmedSliceHookFunc trims the elements of string slices and drops empty ones, so that
// "gpu, gpu-dev," decodes to [gpu gpu-dev].
func TrimmedSliceHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		var elems []string
		switch d := data.(type) {
		case []string:
			elems = d
		case []interface{}:
			for _, e := range d {
				s, ok := e.(string)
				if !ok {
					return data, nil
				}
				elems = append(elems, s)
			}
		default:
			return data, nil
		}
		trimmed := make([]string, 0, len(elems))
		for _, e := range elems {
			if e = strings.TrimSpace(e); e != "" {
				trimmed = append(trimmed, e)
			}
		}
		return trimmed, nil
	}
}

// HomeDirHookFunc expands a leading ~ in string values.
func HomeDirHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.String {
			return data, nil
		}
		s := reflect.ValueOf(data).String()
		if !strings.HasPrefix(s, "~") {
			return data, nil
		}
		return homedir.Expand(s)
	}
}
