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

// Package adapter defines the capability interface a climate model adapter
// implements and the registry through which models are selected by name.
//
// An adapter wraps one specific model behind the lifecycle in core.Model.
// Implementations register a factory under a model name in their package
// init; callers then build a ready-to-run core.Core with NewCore without
// importing the implementation package.
package adapter
