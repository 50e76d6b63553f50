package pattern

import "math"

// tilePos is a single cutter placement in a face's local (u,v) frame,
// relative to the frame centre.
type tilePos struct {
	U, V float64
}

// gridPositions implements §4.D step 5: partition the usable region
// into columns x rows sub-regions, fit a centred grid of cells into
// each, optionally stagger odd internal rows, then rotate the whole
// set about the origin by angleDeg.
func gridPositions(uSize, vSize float64, d Descriptor) []tilePos {
	usableU := uSize - 2*d.BorderX
	usableV := vSize - 2*d.BorderY
	if usableU <= 0 || usableV <= 0 {
		return nil
	}

	columns := maxInt(1, d.Columns)
	rows := maxInt(1, d.Rows)
	cellU, cellV := d.CellU(), d.CellV()
	if cellU <= 0 || cellV <= 0 {
		return nil
	}

	subSizeU := (usableU - float64(columns-1)*d.ColumnGap) / float64(columns)
	subSizeV := (usableV - float64(rows-1)*d.RowGap) / float64(rows)
	if subSizeU <= 0 || subSizeV <= 0 {
		return nil
	}

	var out []tilePos
	for col := 0; col < columns; col++ {
		subOriginU := -usableU/2 + float64(col)*(subSizeU+d.ColumnGap)
		subCentreU := subOriginU + subSizeU/2
		for row := 0; row < rows; row++ {
			subOriginV := -usableV/2 + float64(row)*(subSizeV+d.RowGap)
			subCentreV := subOriginV + subSizeV/2
			out = append(out, subGrid(subCentreU, subCentreV, subSizeU, subSizeV, cellU, cellV, d)...)
		}
	}

	if d.Angle != 0 {
		rotateAboutOrigin(out, d.Angle)
	}
	return out
}

// subGrid fits a centred grid of cells into one sub-region, applying
// the odd-internal-row stagger.
func subGrid(centreU, centreV, sizeU, sizeV, cellU, cellV float64, d Descriptor) []tilePos {
	countU := int(math.Floor(sizeU/cellU)) + 1
	countV := int(math.Floor(sizeV/cellV)) + 1

	var out []tilePos
	for j := 0; j < countV; j++ {
		v := centreV + (float64(j)-float64(countV-1)/2)*cellV
		rowOffset := 0.0
		if d.Stagger && j%2 == 1 {
			rowOffset = d.StaggerAmount * cellU
		}
		for i := 0; i < countU; i++ {
			u := centreU + (float64(i)-float64(countU-1)/2)*cellU + rowOffset
			out = append(out, tilePos{U: u, V: v})
		}
	}
	return out
}

func rotateAboutOrigin(positions []tilePos, angleDeg float64) {
	rad := angleDeg * math.Pi / 180
	s, c := math.Sin(rad), math.Cos(rad)
	for i, p := range positions {
		positions[i] = tilePos{U: p.U*c - p.V*s, V: p.U*s + p.V*c}
	}
}

// lineLayout describes the resolved geometry of a line pattern: the
// 1-D perpendicular positions, the run length along the line
// direction, and whether the line runs along u (angle 0) or v (90).
type lineLayout struct {
	Positions  []float64
	Length     float64
	AlongV     bool // true when the line direction is v (angle == 90)
}

// linePositions implements §4.D step 6.
func linePositions(uSize, vSize float64, d Descriptor) lineLayout {
	alongV := math.Mod(math.Abs(d.Angle), 180) == 90

	runSize, perpSize := uSize, vSize
	runBorder, perpBorder := d.BorderX, d.BorderY
	if alongV {
		runSize, perpSize = vSize, uSize
		runBorder, perpBorder = d.BorderY, d.BorderX
	}

	length := d.Length
	if length <= 0 {
		length = runSize - 2*runBorder
	}
	if length <= 0 {
		return lineLayout{AlongV: alongV}
	}

	pitch := d.Width + d.SpacingY
	if alongV {
		pitch = d.Width + d.SpacingX
	}
	if pitch <= 0 {
		return lineLayout{Length: length, AlongV: alongV}
	}

	available := perpSize - 2*perpBorder
	count := 0
	if available > 0 {
		count = int(math.Floor(available/pitch)) + 1
	}
	if count < 1 {
		count = 1
	}

	positions := make([]float64, count)
	for i := 0; i < count; i++ {
		positions[i] = (float64(i) - float64(count-1)/2) * pitch
	}
	return lineLayout{Positions: positions, Length: length, AlongV: alongV}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
