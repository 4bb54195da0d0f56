package led

// Scale applies brightness the way libws2811 does: each channel is multiplied by
// (brightness+1) and shifted down by 8, so 255 is passthrough and 0 is dark.
func Scale(words []uint32, brightness uint8) []uint32 {
	s := uint32(brightness) + 1
	out := make([]uint32, len(words))
	for i, c := range words {
		var v uint32
		for _, off := range [...]uint{24, 16, 8, 0} {
			ch := (c >> off) & 0xFF
			v |= ((ch * s) >> 8) << off
		}
		out[i] = v
	}
	return out
}

// rgbw expands packed words to the R,G,B,W byte stream periph's nrzled expects.
func rgbw(words []uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, c := range words {
		out = append(out, byte(c>>16), byte(c>>8), byte(c), byte(c>>24))
	}
	return out
}
