package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAspectRatio(t *testing.T) {
	type TestCase struct {
		description string
		width       int
		height      int
		want        string
	}

	testCases := []TestCase{
		{description: "full hd landscape", width: 1920, height: 1080, want: "16:9"},
		{description: "square", width: 1024, height: 1024, want: "1:1"},
		{description: "tall portrait", width: 768, height: 1344, want: "9:16"},
		{description: "exact 1.7 boundary", width: 1360, height: 800, want: "16:9"},
		{description: "three by two", width: 1200, height: 800, want: "3:2"},
		{description: "four by three", width: 1024, height: 768, want: "4:3"},
		{description: "just under 1.2", width: 1190, height: 1000, want: "1:1"},
		{description: "exact 0.9 boundary", width: 900, height: 1000, want: "1:1"},
		{description: "three by four", width: 768, height: 1024, want: "3:4"},
		{description: "two by three", width: 640, height: 1000, want: "2:3"},
		{description: "extreme portrait", width: 256, height: 1440, want: "9:16"},
		{description: "extreme landscape", width: 1440, height: 256, want: "16:9"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := AspectRatio(testCase.width, testCase.height)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestAspectRatioIsTotal(t *testing.T) {
	labels := map[string]bool{
		"16:9": true, "3:2": true, "4:3": true, "1:1": true, "3:4": true, "2:3": true, "9:16": true,
	}

	for w := 256; w <= 1440; w += 64 {
		for h := 256; h <= 1440; h += 64 {
			got := AspectRatio(w, h)
			assert.True(t, labels[got], "unexpected label %q for %dx%d", got, w, h)
			assert.Equal(t, got, AspectRatio(w, h))
		}
	}
}
