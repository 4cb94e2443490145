// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics_test

import (
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rivaas.dev/routepattern/metrics"
)

// ExampleRecorder_Match records matches through a caller-managed meter provider.
func ExampleRecorder_Match() {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))

	ctx := context.Background()
	p, _ := recorder.Compile(ctx, "/video/:id")
	params, ok := recorder.Match(ctx, p, "/video/42")
	fmt.Println(params, ok)

	var rm metricdata.ResourceMetrics
	_ = reader.Collect(ctx, &rm)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		fmt.Println(m.Name)
	}
	// Output:
	// map[id:42] true
	// routepattern_compile_total
	// routepattern_match_total
	// routepattern_match_duration_seconds
}
