package database

import (
	"fmt"
	"reflect"
)

// Assign copies a driver value into a Scan destination pointer the way database/sql does for the
// common types: nil only into pointers, numbers into numbers, strings into strings; a pointer
// destination is allocated for a non-nil value.
func Assign(dest, src any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("destination not a pointer: %T", dest)
	}
	target := dv.Elem()
	if src == nil {
		switch target.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		return fmt.Errorf("converting NULL to %s is unsupported", target.Type())
	}
	if target.Kind() == reflect.Ptr {
		elem := reflect.New(target.Type().Elem())
		if err := Assign(elem.Interface(), src); err != nil {
			return err
		}
		target.Set(elem)
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(target.Type()) {
		target.Set(sv)
		return nil
	}
	if sameFamily(sv.Kind(), target.Kind()) && sv.Type().ConvertibleTo(target.Type()) {
		target.Set(sv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("converting %T to %s is unsupported", src, target.Type())
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 1
	case reflect.Float32, reflect.Float64:
		return 2
	case reflect.String:
		return 3
	case reflect.Bool:
		return 4
	}
	return 0
}

// sameFamily prevents the reflect conversions database/sql refuses, for exp: int64 to string.
func sameFamily(a, b reflect.Kind) bool {
	fa := kindFamily(a)
	return fa != 0 && fa == kindFamily(b)
}
