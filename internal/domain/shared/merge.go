package shared

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
	"github.com/shopspring/decimal"
)

// Merge returns a copy of base with every non-zero field of overrides applied on top.
// Zero-valued override fields leave the base value in place. A decimal.NullDecimal
// override applies whenever it is Valid, so an explicit zero can be expressed.
func Merge[T any](base, overrides T) (T, error) {
	merged := base
	if err := mergo.Merge(&merged, overrides, mergo.WithOverride, mergo.WithTransformers(nullDecimalTransformer{})); err != nil {
		var zero T
		return zero, fmt.Errorf("merge overrides: %w", err)
	}
	return merged, nil
}

var nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})

type nullDecimalTransformer struct{}

func (nullDecimalTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != nullDecimalType {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if src.Interface().(decimal.NullDecimal).Valid && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
