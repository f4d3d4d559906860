// Package inspector draws the selected creature, its brain and population history.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Field is one struct field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
//
//	`inspect:"bar,max:2"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"bar,labels:below|ahead|left"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	widget, ok := widgetNames[strings.TrimSpace(parts[0])]
	if !ok {
		widget = WidgetAuto
	}
	for _, part := range parts[1:] {
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a struct (or pointer to one),
// following their inspect tags. Embedded structs are flattened.
func ExtractFields(v any) []Field {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	t := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			fields = append(fields, ExtractFields(fv.Interface())...)
			continue
		}
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Widget: widget, Options: options})
	}
	return fields
}

func autoDetectWidget(v reflect.Value) Widget {
	switch v.Kind() {
	case reflect.Bool:
		return WidgetBool
	case reflect.Array, reflect.Slice:
		return WidgetBar
	default:
		return WidgetLabel
	}
}

// FormatValue formats a field value, defaulting floats to two decimals.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(value)
	}
}

// GetMax returns the max option, defaulting to 1.
func GetMax(options map[string]string) float32 {
	return optionFloat(options, "max", 1)
}

// GetMin returns the min option, defaulting to 0.
func GetMin(options map[string]string) float32 {
	return optionFloat(options, "min", 0)
}

func optionFloat(options map[string]string, key string, def float32) float32 {
	if s, ok := options[key]; ok {
		if f, err := strconv.ParseFloat(s, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

// GetFloatValue converts numeric values to float32.
func GetFloatValue(value any) (float32, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return float32(rv.Float()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float32(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float32(rv.Uint()), true
	}
	return 0, false
}

// GetFloatSlice converts arrays and slices of floats to []float32.
func GetFloatSlice(value any) ([]float32, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]float32, rv.Len())
	for i := range out {
		e := rv.Index(i)
		if e.Kind() != reflect.Float32 && e.Kind() != reflect.Float64 {
			return nil, false
		}
		out[i] = float32(e.Float())
	}
	return out, true
}
