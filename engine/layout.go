package engine

import (
	"fmt"

	"github.com/lixenwraith/multicube/core"
)

// MaxScreens caps the number of regions Partition returns
const MaxScreens = 10

const (
	heightDivisor = 2.5
	widthDivisor  = 5.5
)

// Partition tiles the canvas row by row with equal regions
// Each region reserves one column right of it and one row below it for borders
// A region is kept only while its border still fits inside the canvas
func Partition(canvasWidth, canvasHeight, limit int) ([]core.Area, error) {
	if limit < 1 || limit > MaxScreens {
		return nil, &core.ConfigError{Field: "max_screens", Reason: fmt.Sprintf("must be in 1..%d", MaxScreens)}
	}

	vh := int(float64(canvasHeight) / heightDivisor)
	vw := int(float64(canvasWidth) / widthDivisor)
	if vh < 1 || vw < 1 {
		return nil, &core.ConfigError{
			Field:  "canvas",
			Reason: fmt.Sprintf("%dx%d too small for a single screen", canvasWidth, canvasHeight),
		}
	}

	areas := make([]core.Area, 0, limit)
	for y := 0; y+vh < canvasHeight; y += vh + 1 {
		for x := 0; x+vw < canvasWidth; x += vw + 1 {
			if len(areas) == limit {
				return areas, nil
			}
			areas = append(areas, core.Area{X: x, Y: y, Width: vw, Height: vh})
		}
	}
	return areas, nil
}
