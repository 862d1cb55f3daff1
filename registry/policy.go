// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"fmt"
)

// ClaimPolicy decides whether a claim requires the pool to reach the required stake.
type ClaimPolicy int

const (
	// ThresholdEnforced rejects claims of unfunded challenges with ErrInsufficientStake.
	ThresholdEnforced ClaimPolicy = iota
	// ThresholdAdvisory allows claims of unfunded challenges and logs a warning.
	ThresholdAdvisory
)

func (p ClaimPolicy) String() string {
	switch p {
	case ThresholdEnforced:
		return "enforced"
	case ThresholdAdvisory:
		return "advisory"
	default:
		return fmt.Sprintf("ClaimPolicy(%d)", int(p))
	}
}

// ParseClaimPolicy parses the textual form of a ClaimPolicy.
func ParseClaimPolicy(s string) (ClaimPolicy, error) {
	switch s {
	case "", "enforced":
		return ThresholdEnforced, nil
	case "advisory":
		return ThresholdAdvisory, nil
	default:
		return 0, fmt.Errorf("unknown claim policy %q", s)
	}
}
