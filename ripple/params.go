package ripple

// Params are the global wave settings shared by every ripple.
type Params struct {
	Duration float32 // seconds a ripple stays visible
	Speed    float32 // ring expansion, aspect-space units per second
	Size     float32 // width of the ring band
}

func DefaultParams() Params {
	return Params{
		Duration: 3.0,
		Speed:    0.3,
		Size:     0.08,
	}
}

const DefaultCount = 3
