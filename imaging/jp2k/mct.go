package jp2k

// inverse multi-component transform (Annex G), applied to the first three
// tile components when COD's SGcod multiple-component-transform byte is set: reversible (RCT, used
// with the 5-3 transform) is exact integer arithmetic, irreversible (ICT,
// used with the 9-7 transform) is the standard YCbCr-like float matrix.

func inverseRCT(y, cb, cr []int32) {
	for i := range y {
		Y, U, V := y[i], cb[i], cr[i]
		g := Y - ((U + V) >> 2)
		r := V + g
		b := U + g
		y[i], cb[i], cr[i] = r, g, b
	}
}

func inverseICT(y, cb, cr []int32) {
	for i := range y {
		Y, Cb, Cr := float64(y[i]), float64(cb[i]), float64(cr[i])
		r := Y + 1.402*Cr
		g := Y - 0.344136*Cb - 0.714136*Cr
		b := Y + 1.772*Cb
		y[i] = int32(r + sign(r)*0.5)
		cb[i] = int32(g + sign(g)*0.5)
		cr[i] = int32(b + sign(b)*0.5)
	}
}
