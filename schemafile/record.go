package schemafile

import (
	"github.com/mitchellh/mapstructure"
)

// Record is a decoded instance of a definition-file type. Values hold the Go
// types of the builtin schemas (string, int32, bsonskema.ID, time.Time, ...),
// nested records, and []any for arrays. Unset optional fields are absent.
type Record map[string]any

// Decode copies the record into out, a pointer to a struct. Struct fields are
// matched by their `bson` tag, else by name ignoring case. Values whose type
// equals the target field's type, such as time.Time, are assigned as is.
func (r Record) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "bson",
		Result:           out,
		WeaklyTypedInput: false,
		ErrorUnused:      false,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(r))
}
