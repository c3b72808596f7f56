package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// DecodeWire reads a JSON object of option name to value. Strings and numbers are kept as
// their text, booleans become "true"/"false" and null means the option is absent.
func DecodeWire(r io.Reader) (Wire, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding job options")
	}
	w := Wire{}
	for k, v := range raw {
		switch value := v.(type) {
		case nil:
			continue
		case string:
			w[k] = value
		case json.Number:
			w[k] = value.String()
		case bool:
			w[k] = strconv.FormatBool(value)
		default:
			return nil, errors.Errorf("option %s has unsupported value %v", k, v)
		}
	}
	return w, nil
}

// EncodeWire writes w as an indented JSON object with sorted keys.
func EncodeWire(out io.Writer, w Wire) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]string(w)); err != nil {
		return errors.Wrap(err, "encoding job options")
	}
	_, err := fmt.Fprint(out, buf.String())
	return err
}
