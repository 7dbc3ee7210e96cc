package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeConfig_Fee(t *testing.T) {
	cfg := &FeeConfig{Percentage: 5, FixedFee: 1.5, IsActive: true}

	assert.InDelta(t, 6.5, cfg.Fee(100), 1e-9)
	assert.InDelta(t, 1.5, cfg.Fee(0), 1e-9)
}

func TestFeeConfig_InactiveChargesNothing(t *testing.T) {
	cfg := &FeeConfig{Percentage: 5, FixedFee: 1.5, IsActive: false}

	assert.Zero(t, cfg.Fee(100))
}
