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

// Package core holds the low-level run interface shared by all climate
// models.
//
// A ParameterSet owns canonical parameter state. Parameters are identified
// by a hierarchical name such as ("Emissions", "CO2") and a hierarchical
// region such as ("World",). They come in three kinds: scalar values with a
// unit, generic values without one, and timeseries with a unit and a time
// axis.
//
// Callers never touch parameters directly. They request views bound to the
// unit and, for timeseries, the time axis they want to work in. Reads and
// writes convert between the view's representation and the parameter's
// internal one, so a model writing kelvin and a caller reading degC both see
// consistent values. The first write to a parameter fixes its internal unit
// and axis.
//
// A Core wires an input and an output ParameterSet to a single model and
// drives its lifecycle over a run period.
package core
