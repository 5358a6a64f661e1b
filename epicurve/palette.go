// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epicurve

import (
	"image/color"

	"github.com/sirupsen/logrus"
)

func rgb(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// brandPalette is the 10-color organization palette used when no
// other palette is requested.
var brandPalette = []color.RGBA{
	rgb(0x286FB4), // blue
	rgb(0xD3572C), // burnt orange
	rgb(0x46936F), // sea green
	rgb(0x8A5EA6), // violet
	rgb(0xC2A338), // ochre
	rgb(0x5FA5C7), // light blue
	rgb(0xB03A48), // dark red
	rgb(0x7C8A3F), // olive
	rgb(0x9E6B4A), // brown
	rgb(0x6E6E6E), // grey
}

// The eight Brewer qualitative palettes, selectable by the integers
// 1 through 8 in listing order.
var (
	accent = []color.RGBA{
		rgb(0x7FC97F), rgb(0xBEAED4), rgb(0xFDC086), rgb(0xFFFF99),
		rgb(0x386CB0), rgb(0xF0027F), rgb(0xBF5B17), rgb(0x666666),
	}
	dark2 = []color.RGBA{
		rgb(0x1B9E77), rgb(0xD95F02), rgb(0x7570B3), rgb(0xE7298A),
		rgb(0x66A61E), rgb(0xE6AB02), rgb(0xA6761D), rgb(0x666666),
	}
	paired = []color.RGBA{
		rgb(0xA6CEE3), rgb(0x1F78B4), rgb(0xB2DF8A), rgb(0x33A02C),
		rgb(0xFB9A99), rgb(0xE31A1C), rgb(0xFDBF6F), rgb(0xFF7F00),
		rgb(0xCAB2D6), rgb(0x6A3D9A), rgb(0xFFFF99), rgb(0xB15928),
	}
	pastel1 = []color.RGBA{
		rgb(0xFBB4AE), rgb(0xB3CDE3), rgb(0xCCEBC5), rgb(0xDECBE4),
		rgb(0xFED9A6), rgb(0xFFFFCC), rgb(0xE5D8BD), rgb(0xFDDAEC),
		rgb(0xF2F2F2),
	}
	pastel2 = []color.RGBA{
		rgb(0xB3E2CD), rgb(0xFDCDAC), rgb(0xCBD5E8), rgb(0xF4CAE4),
		rgb(0xE6F5C9), rgb(0xFFF2AE), rgb(0xF1E2CC), rgb(0xCCCCCC),
	}
	set1 = []color.RGBA{
		rgb(0xE41A1C), rgb(0x377EB8), rgb(0x4DAF4A), rgb(0x984EA3),
		rgb(0xFF7F00), rgb(0xFFFF33), rgb(0xA65628), rgb(0xF781BF),
		rgb(0x999999),
	}
	set2 = []color.RGBA{
		rgb(0x66C2A5), rgb(0xFC8D62), rgb(0x8DA0CB), rgb(0xE78AC3),
		rgb(0xA6D854), rgb(0xFFD92F), rgb(0xE5C494), rgb(0xB3B3B3),
	}
	set3 = []color.RGBA{
		rgb(0x8DD3C7), rgb(0xFFFFB3), rgb(0xBEBADA), rgb(0xFB8072),
		rgb(0x80B1D3), rgb(0xFDB462), rgb(0xB3DE69), rgb(0xFCCDE5),
		rgb(0xD9D9D9), rgb(0xBC80BD), rgb(0xCCEBC5), rgb(0xFFED6F),
	}
)

var qualitative = [][]color.RGBA{
	accent, dark2, paired, pastel1, pastel2, set1, set2, set3,
}

// paletteFor resolves a palette selector: 0 is the brand palette,
// 1-8 are the Brewer qualitative palettes. Anything else warns and
// falls back to the brand palette; a bad selector never fails a plot.
func paletteFor(sel int, log logrus.FieldLogger) []color.RGBA {
	switch {
	case sel == 0:
		return brandPalette
	case 1 <= sel && sel <= len(qualitative):
		return qualitative[sel-1]
	}
	log.WithField("palette", sel).Warn("unknown palette selector; falling back to the brand palette")
	return brandPalette
}
