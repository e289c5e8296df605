package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStage(t *testing.T) {
	assert.Equal(t, PhaseMidpoint, ResolveStage("Mitad de Ciclo", ""))
	assert.Equal(t, PhaseMidpoint, ResolveStage("  MITAD DE CICLO ", DefaultMidpointLabel))
	assert.Equal(t, PhaseFinal, ResolveStage("Final de Ciclo", ""))
	assert.Equal(t, PhaseFinal, ResolveStage("Unknown", ""))
	assert.Equal(t, PhaseMidpoint, ResolveStage("midterm", "Midterm"))
}

func TestPhaseNames(t *testing.T) {
	assert.Equal(t, "MITAD", PhaseMidpoint.ShortName())
	assert.Equal(t, "Mitad", PhaseMidpoint.DisplayName())
	assert.Equal(t, "Final", PhaseFinal.DisplayName())
	assert.Equal(t, "MIDPOINT", PhaseMidpoint.String())
	assert.Equal(t, 1, PhaseFinal.SheetIndex())
}

func TestGradeName(t *testing.T) {
	assert.Equal(t, "Primer", GradeName(1))
	assert.Equal(t, "Décimo", GradeName(10))
	assert.Empty(t, GradeName(11))
}
