// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/vault/metrics"

var (
	metricOpCount      = metrics.LazyLoadCounterVec("runtime_ops_count", []string{"op", "result"})
	metricOpDuration   = metrics.LazyLoadHistogramVec("runtime_op_duration_us", []string{"op"}, metrics.BucketExecMicros)
	metricStateChanges = metrics.LazyLoadCounter("runtime_state_changes_count")
)
