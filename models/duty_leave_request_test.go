package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOverallStatus(t *testing.T) {
	cases := []struct {
		name    string
		advisor string
		second  string
		want    string
	}{
		{"initial", DecisionPending, DecisionNotRequired, OverallPending},
		{"advisor approved opens second stage", DecisionApproved, DecisionPending, OverallAdvisorApproved},
		{"both approved", DecisionApproved, DecisionApproved, OverallFullyApproved},
		{"advisor rejected", DecisionRejected, DecisionNotRequired, OverallRejected},
		{"second level rejected", DecisionApproved, DecisionRejected, OverallRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveOverallStatus(tc.advisor, tc.second))
		})
	}
}
