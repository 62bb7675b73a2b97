package jpeg

import (
	"errors"
	"image"
)

var errUnsupportedComponentCount = errors.New("jpeg: unsupported component count")

// upsample replicates plane (stored at c.h x c.v samples per MCU) up to
// maxH x maxV samples per MCU, spec §4.5's "2x horizontal and/or vertical
// replication for components whose (h,v) < max" generalized to any
// integer ratio rather than hardcoding a factor of 2.
func upsample(plane []byte, srcStride, srcW, srcH, hRatio, vRatio int) ([]byte, int) {
	if hRatio == 1 && vRatio == 1 {
		return plane, srcStride
	}
	dstStride := srcW * hRatio
	out := make([]byte, dstStride*srcH*vRatio)
	for y := 0; y < srcH; y++ {
		srcRow := plane[y*srcStride : y*srcStride+srcW]
		for ry := 0; ry < vRatio; ry++ {
			dstRow := out[(y*vRatio+ry)*dstStride:]
			for x, v := range srcRow {
				for rx := 0; rx < hRatio; rx++ {
					dstRow[x*hRatio+rx] = v
				}
			}
		}
	}
	return out, dstStride
}

func ycbcrToRGB(y, cb, cr byte) (r, g, b byte) {
	Y, Cb, Cr := float64(y), float64(cb)-128, float64(cr)-128
	return clamp8(Y + 1.40200*Cr),
		clamp8(Y - 0.34414*Cb - 0.71414*Cr),
		clamp8(Y + 1.77200*Cb)
}

// assembleImage upsamples every component plane to full resolution, crops
// to (Width, Height), and colour-converts per spec §4.5's component-count
// and APP14-transform rules into a standard library image.Image.
func (d *decoder) assembleImage(planes [][]byte, strides []int, maxH, maxV int) (image.Image, error) {
	full := make([][]byte, len(d.comps))
	fullStride := make([]int, len(d.comps))
	for i, c := range d.comps {
		srcStride := strides[i]
		srcH := len(planes[i]) / srcStride
		up, stride := upsample(planes[i], srcStride, srcStride, srcH, maxH/c.h, maxV/c.v)
		full[i] = up
		fullStride[i] = stride
	}

	w, h := d.width, d.height
	switch len(d.comps) {
	case 1:
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+w], full[0][y*fullStride[0]:y*fullStride[0]+w])
		}
		return img, nil
	case 3:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		rgb := d.adobeSeen && d.adobeTransform == transformUnknown0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c0 := full[0][y*fullStride[0]+x]
				c1 := full[1][y*fullStride[1]+x]
				c2 := full[2][y*fullStride[2]+x]
				var r, g, b byte
				if rgb {
					r, g, b = c0, c1, c2
				} else {
					r, g, b = ycbcrToRGB(c0, c1, c2)
				}
				o := y*img.Stride + x*4
				img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = r, g, b, 255
			}
		}
		return img, nil
	case 4:
		img := image.NewCMYK(image.Rect(0, 0, w, h))
		yCCK := d.adobeSeen && d.adobeTransform == transformYCCK
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c0 := full[0][y*fullStride[0]+x]
				c1 := full[1][y*fullStride[1]+x]
				c2 := full[2][y*fullStride[2]+x]
				k := full[3][y*fullStride[3]+x]
				var cC, mM, yY byte
				if yCCK {
					r, g, b := ycbcrToRGB(c0, c1, c2)
					cC, mM, yY = 255-r, 255-g, 255-b
				} else {
					cC, mM, yY = c0, c1, c2
				}
				o := y*img.Stride + x*4
				img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = cC, mM, yY, k
			}
		}
		return img, nil
	default:
		return nil, errUnsupportedComponentCount
	}
}
