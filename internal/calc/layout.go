package calc

// Keypad grids, row by row. An empty label is a filler cell.
var layouts = map[Mode][][]string{
	ModeBasic: {
		{"C", "backspace", "", "÷"},
		{"7", "8", "9", "×"},
		{"4", "5", "6", "-"},
		{"1", "2", "3", "+"},
		{"0", ".", "=", ""},
	},
	ModeScientific: {
		{"C", "backspace", "deg", "÷"},
		{"sin", "cos", "tan", "×"},
		{"7", "8", "9", "-"},
		{"4", "5", "6", "+"},
		{"1", "2", "3", "x²"},
		{"0", ".", "=", "√"},
	},
}

// Layout returns a copy of the keypad grid for m, or nil for an unknown
// mode.
func Layout(m Mode) [][]string {
	grid, ok := layouts[m]
	if !ok {
		return nil
	}

	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}
