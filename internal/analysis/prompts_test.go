package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReflection(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantContain string
	}{
		{
			name:        "Goal quote gets the goal prompts",
			text:        "Success is a series of small wins.",
			wantContain: "goals",
		},
		{
			name:        "Fear quote gets the courage prompts",
			text:        "Courage is resistance to fear.",
			wantContain: "uncomfortable",
		},
		{
			name:        "Time quote gets the time prompts",
			text:        "Lost time is never found again.",
			wantContain: "audit your day",
		},
		{
			name:        "Anything else gets the generic prompts",
			text:        "Be yourself; everyone else is taken.",
			wantContain: "lens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reflection := GenerateReflection(tt.text)
			assert.Contains(t, reflection.Application, tt.wantContain)
			assert.Len(t, reflection.Prompts, 3)
		})
	}
}

func TestGenerateReflection_EmptyText(t *testing.T) {
	reflection := GenerateReflection("")
	assert.Equal(t, "Reflect on what this means to you personally.", reflection.Application)
	assert.Empty(t, reflection.Prompts)
}
