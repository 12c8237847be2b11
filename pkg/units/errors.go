/*
Copyright 2026 The scmrun Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package units

import "errors"

var (
	// ErrUndefinedUnit is returned when a unit name is not registered.
	ErrUndefinedUnit = errors.New("undefined unit")

	// ErrDimensionality is returned when two units cannot be converted
	// into each other, with or without the requested context.
	ErrDimensionality = errors.New("units are not compatible")

	// ErrUnknownContext is returned when a conversion context is not
	// registered.
	ErrUnknownContext = errors.New("unknown conversion context")

	// ErrMalformedUnit is returned when a unit expression cannot be parsed.
	ErrMalformedUnit = errors.New("malformed unit expression")
)
