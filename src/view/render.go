package view

import (
	"bytes"

	"retrolife/src/life"
)

//CropMessage replaces the last visible line when the field does not fit the view
const CropMessage = "The field size is larger than the viewing area"

//RenderField draws the grid as text, one filler per cell and one line per row.
//Rows and columns beyond maxW x maxH are dropped; maxW or maxH <= 0 disables cropping.
//crop formats the message shown on the last line of a cropped field.
func RenderField(grid [][]life.Cell, liveFiller string, deadFiller string, maxW int, maxH int, crop func(string) string) string {
	height := len(grid)
	width := 0
	if height > 0 {
		width = len(grid[0])
	}
	cropped := maxW > 0 && maxH > 0 && (width > maxW || height > maxH)

	var b bytes.Buffer
	for i, l := range grid {
		//discard the data outside the view area
		if maxH > 0 && i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte('\n')
		}
		if cropped && i == maxH-1 {
			if crop != nil {
				b.WriteString(crop(CropMessage))
			} else {
				b.WriteString(CropMessage)
			}
			break
		}
		for j, e := range l {
			if maxW > 0 && j >= maxW {
				break
			}
			if e {
				b.WriteString(liveFiller)
			} else {
				b.WriteString(deadFiller)
			}
		}
	}
	return b.String()
}
