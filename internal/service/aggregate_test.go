package service

import (
	"testing"

	"lodging-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name  string
		stars []int
		want  float64
	}{
		{"no reviews", nil, 0},
		{"three to five", []int{3, 4, 5}, 4.0},
		{"half", []int{4, 5}, 4.5},
		{"rounds to one decimal", []int{1, 2, 2}, 1.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AverageRating(tc.stars))
		})
	}
}

func TestPreviewImage_FirstFlagged(t *testing.T) {
	got := PreviewImage([]model.SpotImage{
		{URL: "a.png"},
		{URL: "b.png", Preview: true},
		{URL: "c.png", Preview: true},
	})
	require.NotNil(t, got)
	assert.Equal(t, "b.png", *got)
}

func TestPreviewImage_FallsBackToFirst(t *testing.T) {
	got := PreviewImage([]model.SpotImage{{URL: "a.png"}, {URL: "b.png"}})
	require.NotNil(t, got)
	assert.Equal(t, "a.png", *got)
}

func TestPreviewImage_None(t *testing.T) {
	assert.Nil(t, PreviewImage(nil))
}
