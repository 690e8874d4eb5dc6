package http

import (
	"reflect"
	"strings"
)

// jsonFieldName makes validation errors name fields as they appear on the wire.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
