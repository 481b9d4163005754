package osc

// WidenFloat32 converts a float32 to float64 exactly, corresponding to
// cosc_float32_to_float64.
func WidenFloat32(f float32) float64 { return float64(f) }

// NarrowFloat64 converts a float64 to float32, corresponding to
// cosc_float64_to_float32. Values outside float32's range saturate to
// +/-Inf, matching the hardware narrowing conversion cosc performs.
func NarrowFloat64(f float64) float32 { return float32(f) }
