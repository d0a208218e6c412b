package lattice

// Structure is a labeled periodic atomic arrangement: three lattice vectors,
// fractional site coordinates, and a sublattice label per site.
type Structure struct {
	Cell        [3][3]float64
	Frac        [][3]float64
	Sublattices []int
}

// NumSites returns the number of sites in the structure.
func (s *Structure) NumSites() int { return len(s.Frac) }

// NumSublattices returns one past the largest sublattice label.
func (s *Structure) NumSublattices() int {
	max := -1
	for _, l := range s.Sublattices {
		if l > max {
			max = l
		}
	}
	return max + 1
}

// Cartesian returns the real-space position of site i.
func (s *Structure) Cartesian(i int) [3]float64 {
	f := s.Frac[i]
	var r [3]float64
	for d := 0; d < 3; d++ {
		r[d] = f[0]*s.Cell[0][d] + f[1]*s.Cell[1][d] + f[2]*s.Cell[2][d]
	}
	return r
}

// Supercell expands the structure by the given scaling factors along each
// lattice vector. Sites are ordered cell-major: all basis sites of the first
// image cell, then the next, so neighbor blocks stay contiguous downstream.
func (s *Structure) Supercell(nx, ny, nz int) *Structure {
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}

	scale := [3]float64{float64(nx), float64(ny), float64(nz)}
	out := &Structure{
		Frac:        make([][3]float64, 0, len(s.Frac)*nx*ny*nz),
		Sublattices: make([]int, 0, len(s.Sublattices)*nx*ny*nz),
	}
	for v := 0; v < 3; v++ {
		for d := 0; d < 3; d++ {
			out.Cell[v][d] = s.Cell[v][d] * scale[v]
		}
	}

	for cz := 0; cz < nz; cz++ {
		for cy := 0; cy < ny; cy++ {
			for cx := 0; cx < nx; cx++ {
				shift := [3]float64{float64(cx), float64(cy), float64(cz)}
				for i, f := range s.Frac {
					var g [3]float64
					for d := 0; d < 3; d++ {
						g[d] = (f[d] + shift[d]) / scale[d]
					}
					out.Frac = append(out.Frac, g)
					out.Sublattices = append(out.Sublattices, s.Sublattices[i])
				}
			}
		}
	}

	return out
}
