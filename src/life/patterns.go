package life

import "sort"

//Pattern is a named set of live cell offsets used to seed a grid
type Pattern struct {
	Name        string  //pattern name
	Descr       string  //pattern descr
	Coordinates [][]int //array of [x,y] offsets
}

var (
	Glider = Pattern{
		"glider",
		"moves one cell diagonally every 4 generations",
		[][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}},
	}
	Blinker = Pattern{
		"blinker",
		"period 2 oscillator",
		[][]int{{0, 0}, {1, 0}, {2, 0}},
	}
	Block = Pattern{
		"block",
		"still life",
		[][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	}
	Beacon = Pattern{
		"beacon",
		"period 2 oscillator made of two blocks",
		[][]int{{0, 0}, {1, 0}, {0, 1}, {3, 2}, {2, 3}, {3, 3}},
	}
	Sample = Pattern{
		"sample",
		"block with a neighbouring cluster, used by the benchmarks",
		[][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}},
	}

	patterns = map[string]Pattern{}
)

func init() {
	for _, p := range []Pattern{Glider, Blinker, Block, Beacon, Sample} {
		patterns[p.Name] = p
	}
}

//Size returns the bounding box of the pattern
func (p Pattern) Size() (w int, h int) {
	for _, c := range p.Coordinates {
		if c[0]+1 > w {
			w = c[0] + 1
		}
		if c[1]+1 > h {
			h = c[1] + 1
		}
	}
	return
}

//LookupPattern returns the built-in pattern with the given name
func LookupPattern(name string) (Pattern, bool) {
	p, ok := patterns[name]
	return p, ok
}

//PatternNames lists the built-in patterns sorted by name
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for k := range patterns {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
