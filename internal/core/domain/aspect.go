package domain

type aspectBucket struct {
	minRatio float64
	label    string
}

// Ordered by descending lower bound; the last bucket catches everything else.
var aspectBuckets = []aspectBucket{
	{1.7, "16:9"},
	{1.4, "3:2"},
	{1.2, "4:3"},
	{0.9, "1:1"},
	{0.7, "3:4"},
	{0.6, "2:3"},
}

const tallestAspect = "9:16"

// AspectRatio maps image dimensions to the closest supported aspect ratio label.
// Height must be positive.
func AspectRatio(width, height int) string {
	ratio := float64(width) / float64(height)

	for _, b := range aspectBuckets {
		if ratio >= b.minRatio {
			return b.label
		}
	}

	return tallestAspect
}
