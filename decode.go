// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

import (
	"encoding"
	"errors"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode copies the value stored under k into v, which must be a pointer.
// Struct fields are matched by their `config` tag. Strings are converted
// into encoding.TextUnmarshaler implementations and time.Duration values
// may be given as strings or numbers of nanoseconds. If a conversion fails
// the first failure is returned as a TypeCoercionError.
func (c *Config) Decode(k string, v any) error {
	raw, ok := c.Get(k)
	if !ok {
		return ErrValueNotSet
	}

	var coerceErr *TypeCoercionError
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "config",
		Result:  v,
		DecodeHook: composeDecodeHooks(
			&coerceErr,
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}

	err = dec.Decode(raw)
	// mapstructure flattens hook errors into strings
	if err != nil && coerceErr != nil {
		return *coerceErr
	}
	return err
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// composeDecodeHooks runs hs in order until one applies. The first
// failure is also recorded in first.
func composeDecodeHooks(first **TypeCoercionError, hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			cerr := TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
			if *first == nil {
				*first = &cerr
			}
			return nil, cerr
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		v := reflect.ValueOf(data)
		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(v.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(v.Int()), nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(int64(v.Float())), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
