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

package runcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/openclimate/scmrun/pkg/core"
)

// Key fingerprints a model name and its input parameter set. Two runs get
// the same key exactly when the model and every written input parameter,
// including units and time axes, agree.
func Key(model string, in *core.ParameterSet) string {
	h := sha256.New()
	fmt.Fprintf(h, "model\x00%s\x00", model)

	in.Walk(func(info core.ParameterInfo) {
		fmt.Fprintf(h, "param\x00%s\x00%s\x00%s\x00%s\x00",
			info.Name, info.Region, info.Kind, info.Unit)
		if info.Empty {
			h.Write([]byte("empty\x00"))
			return
		}
		switch info.Kind {
		case core.KindScalar:
			writeFloat(h, info.Value)
		case core.KindGeneric:
			fmt.Fprintf(h, "%v\x00", info.Generic)
		case core.KindTimeseries:
			fmt.Fprintf(h, "%s\x00", info.TimeseriesKind)
			for _, t := range info.TimePoints {
				fmt.Fprintf(h, "%d\x00", t.Unix())
			}
			for _, v := range info.Values {
				writeFloat(h, v)
			}
		}
	})
	return hex.EncodeToString(h.Sum(nil))
}

func writeFloat(w io.Writer, v float64) {
	w.Write([]byte(strconv.FormatFloat(v, 'g', -1, 64)))
	w.Write([]byte{0})
}
