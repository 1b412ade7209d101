package tui

import (
	"strconv"
	"strings"
)

const (
	pip   = "●"
	blank = " "

	// faceWidth is the printable width of every face line
	faceWidth = 5
)

// pipLayouts lists the occupied cells of a 3x3 grid, row-major, for each
// standard face
var pipLayouts = map[int][]int{
	1: {4},
	2: {0, 8},
	3: {0, 4, 8},
	4: {0, 2, 6, 8},
	5: {0, 2, 4, 6, 8},
	6: {0, 2, 3, 5, 6, 8},
}

// FaceLines renders a face as three lines. Values 1-6 draw pips; anything
// else shows the numeral centred in the face.
func FaceLines(value int) []string {
	cells, ok := pipLayouts[value]
	if !ok {
		return numeralLines(value)
	}

	var grid [9]string
	for i := range grid {
		grid[i] = blank
	}
	for _, c := range cells {
		grid[c] = pip
	}

	lines := make([]string, 3)
	for row := 0; row < 3; row++ {
		lines[row] = strings.Join(grid[row*3:row*3+3], " ")
	}
	return lines
}

func numeralLines(value int) []string {
	n := strconv.Itoa(value)
	empty := strings.Repeat(blank, faceWidth)
	if len(n) >= faceWidth {
		return []string{empty, n, empty}
	}
	left := (faceWidth - len(n)) / 2
	right := faceWidth - len(n) - left
	return []string{
		empty,
		strings.Repeat(blank, left) + n + strings.Repeat(blank, right),
		empty,
	}
}
